package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dapurbooks/backend/internal/cache"
	"dapurbooks/backend/internal/costing"
	"dapurbooks/backend/internal/domain"
	"dapurbooks/backend/internal/finance"
	"dapurbooks/backend/internal/store"
	"dapurbooks/backend/internal/xid"
)

const dateLayout = "2006-01-02"

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo       store.Repository
	summaries  cache.SummaryCache
	summaryTTL time.Duration
}

func New(repo store.Repository, summaries cache.SummaryCache, summaryTTL time.Duration) *Service {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}
	if summaryTTL <= 0 {
		summaryTTL = 5 * time.Minute
	}

	return &Service{
		repo:       repo,
		summaries:  summaries,
		summaryTTL: summaryTTL,
	}
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func (s *Service) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return s.repo.ListUnits(ctx)
}

func (s *Service) CreateUnit(ctx context.Context, req domain.UnitCreateRequest) (domain.Unit, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Unit{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Unit{}, store.ErrInvalidInput
	}
	if req.ConversionFactor != nil && *req.ConversionFactor <= 0 {
		return domain.Unit{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateUnit(ctx, domain.Unit{
		Name:             req.Name,
		ConversionFactor: req.ConversionFactor,
	})
	if err != nil {
		return domain.Unit{}, err
	}

	s.logAudit(ctx, "unit_create", "unit", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateUnit(ctx context.Context, id string, req domain.UnitUpdateRequest) (domain.Unit, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Unit{}, err
	}

	existing, err := s.repo.GetUnitByID(ctx, id)
	if err != nil {
		return domain.Unit{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Unit{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.ConversionFactor != nil {
		if *req.ConversionFactor <= 0 {
			return domain.Unit{}, store.ErrInvalidInput
		}
		updated.ConversionFactor = req.ConversionFactor
	}

	saved, err := s.repo.UpdateUnit(ctx, updated)
	if err != nil {
		return domain.Unit{}, err
	}

	s.logAudit(ctx, "unit_update", "unit", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) DeleteUnit(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteUnit(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "unit_delete", "unit", id, "")
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryCreateRequest) (domain.Category, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Category{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateCategory(ctx, domain.Category{Name: req.Name})
	if err != nil {
		return domain.Category{}, err
	}

	s.logAudit(ctx, "category_create", "category", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.CategoryCreateRequest) (domain.Category, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Category{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Category{}, store.ErrInvalidInput
	}

	saved, err := s.repo.UpdateCategory(ctx, domain.Category{ID: id, Name: req.Name})
	if err != nil {
		return domain.Category{}, err
	}

	s.logAudit(ctx, "category_update", "category", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "category_delete", "category", id, "")
	return nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return domain.Supplier{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateSupplier(ctx, domain.Supplier{Name: req.Name, Phone: req.Phone})
	if err != nil {
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_create", "supplier", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Supplier{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return domain.Supplier{}, store.ErrInvalidInput
	}

	saved, err := s.repo.UpdateSupplier(ctx, domain.Supplier{ID: id, Name: req.Name, Phone: req.Phone})
	if err != nil {
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_update", "supplier", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "supplier_delete", "supplier", id, "")
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.UnitID == "" {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.Amount < 0 || req.PurchasePrice < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.PiecesPerPackage != nil && *req.PiecesPerPackage <= 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		SupplierID:       req.SupplierID,
		Amount:           req.Amount,
		PurchasePrice:    req.PurchasePrice,
		UnitID:           req.UnitID,
		PiecesPerPackage: req.PiecesPerPackage,
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,price=%.2f", created.Name, created.PurchasePrice))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.SupplierID != nil {
		updated.SupplierID = *req.SupplierID
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Amount = *req.Amount
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.PurchasePrice = *req.PurchasePrice
	}
	if req.UnitID != nil {
		if *req.UnitID == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.UnitID = *req.UnitID
	}
	if req.PiecesPerPackage != nil {
		if *req.PiecesPerPackage <= 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.PiecesPerPackage = req.PiecesPerPackage
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("name=%s,price=%.2f", saved.Name, saved.PurchasePrice))
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "product_delete", "product", id, "")
	return nil
}

func (s *Service) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	return s.repo.ListRecipes(ctx)
}

func (s *Service) GetRecipe(ctx context.Context, id string) (domain.Recipe, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return *recipe, nil
}

func (s *Service) CreateRecipe(ctx context.Context, req domain.RecipeCreateRequest) (domain.Recipe, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Recipe{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.SalePrice < 0 {
		return domain.Recipe{}, store.ErrInvalidInput
	}

	ingredients := make([]domain.RecipeIngredient, 0, len(req.Ingredients))
	for _, input := range req.Ingredients {
		if input.ProductID == "" || input.Amount <= 0 {
			return domain.Recipe{}, store.ErrInvalidInput
		}
		ingredients = append(ingredients, domain.RecipeIngredient{
			ProductID: input.ProductID,
			Amount:    input.Amount,
			UnitID:    input.UnitID,
		})
	}

	created, err := s.repo.CreateRecipe(ctx, domain.Recipe{
		Name:        req.Name,
		SalePrice:   req.SalePrice,
		Ingredients: ingredients,
	})
	if err != nil {
		return domain.Recipe{}, err
	}

	s.logAudit(ctx, "recipe_create", "recipe", created.ID, fmt.Sprintf("name=%s,ingredients=%d", created.Name, len(created.Ingredients)))
	return *created, nil
}

func (s *Service) DeleteRecipe(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "recipe_delete", "recipe", id, "")
	return nil
}

// RecipeCost resolves the ingredient costs of one recipe against the
// current product prices and unit conversion table.
func (s *Service) RecipeCost(ctx context.Context, id string) (costing.RecipeCost, error) {
	recipe, err := s.repo.GetRecipeByID(ctx, id)
	if err != nil {
		return costing.RecipeCost{}, err
	}

	productIDs := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		productIDs = append(productIDs, ing.ProductID)
	}
	products, err := s.repo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return costing.RecipeCost{}, err
	}
	for _, ing := range recipe.Ingredients {
		if _, exists := products[ing.ProductID]; !exists {
			return costing.RecipeCost{}, fmt.Errorf("product %s: %w", ing.ProductID, store.ErrNotFound)
		}
	}

	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return costing.RecipeCost{}, err
	}

	return costing.AggregateRecipeCost(*recipe, products, costing.NewConversionTable(units)), nil
}

func (s *Service) ListLineItems(ctx context.Context, year int) ([]domain.FinancialLineItem, error) {
	if year < 1 {
		return nil, store.ErrInvalidInput
	}
	return s.repo.ListLineItems(ctx, year)
}

func (s *Service) CreateLineItem(ctx context.Context, req domain.LineItemCreateRequest) (domain.FinancialLineItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.FinancialLineItem{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Year < 1 {
		return domain.FinancialLineItem{}, store.ErrInvalidInput
	}
	if !finance.ValidLineCategory(req.Category) {
		return domain.FinancialLineItem{}, store.ErrInvalidInput
	}

	item := finance.RecomputeLineItem(domain.FinancialLineItem{
		Year:     req.Year,
		Name:     req.Name,
		Category: req.Category,
		Months:   req.Months,
	})

	created, err := s.repo.CreateLineItem(ctx, item)
	if err != nil {
		return domain.FinancialLineItem{}, err
	}

	s.invalidateSummary(ctx, created.Year)
	s.logAudit(ctx, "line_item_create", "line_item", created.ID, fmt.Sprintf("name=%s,category=%s,year=%d", created.Name, created.Category, created.Year))
	return *created, nil
}

func (s *Service) UpdateLineItem(ctx context.Context, id string, req domain.LineItemUpdateRequest) (domain.FinancialLineItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.FinancialLineItem{}, err
	}

	existing, err := s.repo.GetLineItemByID(ctx, id)
	if err != nil {
		return domain.FinancialLineItem{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.FinancialLineItem{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Months != nil {
		updated.Months = req.Months
	}
	updated = finance.RecomputeLineItem(updated)
	if req.SetMonth != nil {
		if req.SetMonth.Month < 0 || req.SetMonth.Month >= domain.MonthsPerYear {
			return domain.FinancialLineItem{}, store.ErrInvalidInput
		}
		updated.Months[req.SetMonth.Month] = req.SetMonth.Value
		updated = finance.RecomputeLineItem(updated)
	}

	saved, err := s.repo.UpdateLineItem(ctx, updated)
	if err != nil {
		return domain.FinancialLineItem{}, err
	}

	s.invalidateSummary(ctx, saved.Year)
	s.logAudit(ctx, "line_item_update", "line_item", saved.ID, fmt.Sprintf("name=%s,total=%.2f", saved.Name, saved.Total))
	return *saved, nil
}

func (s *Service) DeleteLineItem(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetLineItemByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteLineItem(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(ctx, existing.Year)
	s.logAudit(ctx, "line_item_delete", "line_item", id, fmt.Sprintf("year=%d", existing.Year))
	return nil
}

// YearSummary returns the derived financial rollup for a year, consulting
// the summary cache first. The cached copy is dropped whenever any line
// item of that year changes.
func (s *Service) YearSummary(ctx context.Context, year int) (domain.FinancialSummary, error) {
	if year < 1 {
		return domain.FinancialSummary{}, store.ErrInvalidInput
	}

	if cached, hit, err := s.summaries.Get(ctx, year); err != nil {
		log.Printf("[service] WARN: summary cache read failed year=%d: %v", year, err)
	} else if hit {
		return *cached, nil
	}

	items, err := s.repo.ListLineItems(ctx, year)
	if err != nil {
		return domain.FinancialSummary{}, err
	}

	summary := finance.Summarize(year, items)
	if err := s.summaries.Set(ctx, &summary, s.summaryTTL); err != nil {
		log.Printf("[service] WARN: summary cache write failed year=%d: %v", year, err)
	}
	return summary, nil
}

func (s *Service) invalidateSummary(ctx context.Context, year int) {
	if err := s.summaries.Invalidate(ctx, year); err != nil {
		log.Printf("[service] WARN: summary cache invalidation failed year=%d: %v", year, err)
	}
}

func (s *Service) RecordSale(ctx context.Context, req domain.SaleEntryCreateRequest) (domain.SaleEntry, error) {
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" || req.Amount <= 0 {
		return domain.SaleEntry{}, store.ErrInvalidInput
	}
	soldAt, err := entryTime(req.Date)
	if err != nil {
		return domain.SaleEntry{}, err
	}

	created, err := s.repo.CreateSaleEntry(ctx, domain.SaleEntry{
		Source:      req.Source,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		SoldAt:      soldAt,
	})
	if err != nil {
		return domain.SaleEntry{}, err
	}
	return *created, nil
}

func (s *Service) RecordExpense(ctx context.Context, req domain.ExpenseEntryCreateRequest) (domain.ExpenseEntry, error) {
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" || req.Amount <= 0 {
		return domain.ExpenseEntry{}, store.ErrInvalidInput
	}
	spentAt, err := entryTime(req.Date)
	if err != nil {
		return domain.ExpenseEntry{}, err
	}

	created, err := s.repo.CreateExpenseEntry(ctx, domain.ExpenseEntry{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		SpentAt:     spentAt,
	})
	if err != nil {
		return domain.ExpenseEntry{}, err
	}
	return *created, nil
}

func (s *Service) RecordPayroll(ctx context.Context, req domain.PayrollEntryCreateRequest) (domain.PayrollEntry, error) {
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" || req.Amount <= 0 {
		return domain.PayrollEntry{}, store.ErrInvalidInput
	}
	paidAt, err := entryTime(req.Date)
	if err != nil {
		return domain.PayrollEntry{}, err
	}

	created, err := s.repo.CreatePayrollEntry(ctx, domain.PayrollEntry{
		Role:     req.Role,
		Employee: strings.TrimSpace(req.Employee),
		Amount:   req.Amount,
		PaidAt:   paidAt,
	})
	if err != nil {
		return domain.PayrollEntry{}, err
	}
	return *created, nil
}

// ListSales returns the raw sale entries recorded on one calendar date.
func (s *Service) ListSales(ctx context.Context, date string) ([]domain.SaleEntry, error) {
	day, err := entryDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSaleEntriesByDate(ctx, day)
}

func (s *Service) ListExpenses(ctx context.Context, date string) ([]domain.ExpenseEntry, error) {
	day, err := entryDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListExpenseEntriesByDate(ctx, day)
}

func (s *Service) ListPayroll(ctx context.Context, date string) ([]domain.PayrollEntry, error) {
	day, err := entryDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPayrollEntriesByDate(ctx, day)
}

// GenerateDailyRecord aggregates the raw entries of one calendar date
// into a persisted daily record. Exactly one record may exist per date;
// a second generation attempt fails with a conflict carrying the
// existing record's ID.
func (s *Service) GenerateDailyRecord(ctx context.Context, req domain.DailyRecordGenerateRequest) (domain.DailyEconomyRecord, error) {
	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return domain.DailyEconomyRecord{}, store.ErrInvalidInput
		}
		date = parsed
	}
	date = finance.DateOnly(date)

	sales, err := s.repo.ListSaleEntriesByDate(ctx, date)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}
	expenses, err := s.repo.ListExpenseEntriesByDate(ctx, date)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}
	payroll, err := s.repo.ListPayrollEntriesByDate(ctx, date)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}

	record := finance.BuildDailyRecord(date, sales, expenses, payroll)
	created, err := s.repo.CreateDailyRecord(ctx, record)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}

	s.logAudit(ctx, "daily_record_generate", "daily_record", created.ID, fmt.Sprintf("date=%s,income=%.2f", date.Format(dateLayout), created.TotalIncome))
	return *created, nil
}

func (s *Service) DailyRecordByDate(ctx context.Context, date string) (domain.DailyEconomyRecord, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return domain.DailyEconomyRecord{}, store.ErrInvalidInput
	}
	record, err := s.repo.FindDailyRecordByDate(ctx, parsed)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}
	return *record, nil
}

func (s *Service) ListDailyRecords(ctx context.Context, from string, to string) ([]domain.DailyEconomyRecord, error) {
	fromDate, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, store.ErrInvalidInput
	}
	toDate, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, store.ErrInvalidInput
	}
	if !fromDate.Before(toDate) {
		return nil, store.ErrInvalidInput
	}
	return s.repo.ListDailyRecords(ctx, fromDate, toDate)
}

func (s *Service) DeleteDailyRecord(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteDailyRecord(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "daily_record_delete", "daily_record", id, "")
	return nil
}

// MonthlySummary folds the stored daily records of one month.
func (s *Service) MonthlySummary(ctx context.Context, year int, month int) (domain.MonthlyEconomySummary, error) {
	if year < 1 || month < 1 || month > 12 {
		return domain.MonthlyEconomySummary{}, store.ErrInvalidInput
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	records, err := s.repo.ListDailyRecords(ctx, from, to)
	if err != nil {
		return domain.MonthlyEconomySummary{}, err
	}

	return finance.SummarizeMonth(year, time.Month(month), records), nil
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, store.ErrInvalidInput
		}
		day = parsed
	}
	from := finance.DateOnly(day)
	to := from.AddDate(0, 0, 1)

	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func entryTime(date string) (time.Time, error) {
	if date == "" {
		return time.Now().UTC(), nil
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, store.ErrInvalidInput
	}
	// midday keeps the entry inside the requested date in UTC
	return parsed.Add(12 * time.Hour), nil
}

func entryDate(date string) (time.Time, error) {
	if date == "" {
		return finance.DateOnly(time.Now().UTC()), nil
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, store.ErrInvalidInput
	}
	return finance.DateOnly(parsed), nil
}
