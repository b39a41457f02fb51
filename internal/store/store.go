package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dapurbooks/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateDateError signals that a daily record already exists for the
// requested date. Callers surface ExistingID so clients can fetch or
// delete the prior record.
type DuplicateDateError struct {
	Date       time.Time
	ExistingID string
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("daily record for %s already exists (%s)", e.Date.Format("2006-01-02"), e.ExistingID)
}

func (e *DuplicateDateError) Unwrap() error { return ErrConflict }

type Repository interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	GetUnitByID(ctx context.Context, id string) (*domain.Unit, error)
	CreateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error)
	UpdateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListRecipes(ctx context.Context) ([]domain.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error)
	CreateRecipe(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	ListLineItems(ctx context.Context, year int) ([]domain.FinancialLineItem, error)
	GetLineItemByID(ctx context.Context, id string) (*domain.FinancialLineItem, error)
	CreateLineItem(ctx context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error)
	UpdateLineItem(ctx context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error)
	DeleteLineItem(ctx context.Context, id string) error
	CreateDailyRecord(ctx context.Context, record domain.DailyEconomyRecord) (*domain.DailyEconomyRecord, error)
	FindDailyRecordByDate(ctx context.Context, date time.Time) (*domain.DailyEconomyRecord, error)
	ListDailyRecords(ctx context.Context, from time.Time, to time.Time) ([]domain.DailyEconomyRecord, error)
	DeleteDailyRecord(ctx context.Context, id string) error
	CreateSaleEntry(ctx context.Context, entry domain.SaleEntry) (*domain.SaleEntry, error)
	ListSaleEntriesByDate(ctx context.Context, date time.Time) ([]domain.SaleEntry, error)
	CreateExpenseEntry(ctx context.Context, entry domain.ExpenseEntry) (*domain.ExpenseEntry, error)
	ListExpenseEntriesByDate(ctx context.Context, date time.Time) ([]domain.ExpenseEntry, error)
	CreatePayrollEntry(ctx context.Context, entry domain.PayrollEntry) (*domain.PayrollEntry, error)
	ListPayrollEntriesByDate(ctx context.Context, date time.Time) ([]domain.PayrollEntry, error)
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
