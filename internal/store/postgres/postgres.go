package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"dapurbooks/backend/internal/domain"
	"dapurbooks/backend/internal/store"
	"dapurbooks/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, conversion_factor
		FROM units
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]domain.Unit, 0, 32)
	for rows.Next() {
		var u domain.Unit
		var factor sql.NullFloat64
		if err := rows.Scan(&u.ID, &u.Name, &factor); err != nil {
			return nil, err
		}
		if factor.Valid {
			f := factor.Float64
			u.ConversionFactor = &f
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

func (s *Store) GetUnitByID(ctx context.Context, id string) (*domain.Unit, error) {
	var u domain.Unit
	var factor sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, conversion_factor
		FROM units
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &factor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if factor.Valid {
		f := factor.Float64
		u.ConversionFactor = &f
	}
	return &u, nil
}

func (s *Store) CreateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	if unit.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if unit.ID == "" {
		unit.ID = xid.New("unit")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO units (id, name, conversion_factor)
		VALUES ($1,$2,$3)
	`, unit.ID, unit.Name, nullFloat(unit.ConversionFactor))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := unit
	return &created, nil
}

func (s *Store) UpdateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	if unit.ID == "" || unit.Name == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE units
		SET name = $2, conversion_factor = $3
		WHERE id = $1
	`, unit.ID, unit.Name, nullFloat(unit.ConversionFactor))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := unit
	return &updated, nil
}

func (s *Store) DeleteUnit(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM units WHERE id = $1`, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, 32)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, created_at)
		VALUES ($1,$2,$3)
	`, category.ID, category.Name, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := category
	return &created, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2
		WHERE id = $1
	`, category.ID, category.Name)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := category
	return &updated, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM categories WHERE id = $1`, id)
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, created_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		var sup domain.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Phone, &sup.CreatedAt); err != nil {
			return nil, err
		}
		sup.CreatedAt = sup.CreatedAt.UTC()
		suppliers = append(suppliers, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, phone, created_at)
		VALUES ($1,$2,$3,$4)
	`, supplier.ID, supplier.Name, supplier.Phone, supplier.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $2, phone = $3
		WHERE id = $1
	`, supplier.ID, supplier.Name, supplier.Phone)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category_id, supplier_id, amount, purchase_price, unit_id, pieces_per_package, created_at, updated_at
		FROM products
		ORDER BY category_id, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category_id, supplier_id, amount, purchase_price, unit_id, pieces_per_package, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category_id, supplier_id, amount, purchase_price, unit_id, pieces_per_package, created_at, updated_at
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.UnitID == "" {
		return nil, store.ErrInvalidInput
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, supplier_id, amount, purchase_price, unit_id, pieces_per_package, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, product.ID, product.Name, nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.Amount, product.PurchasePrice, product.UnitID, nullFloat(product.PiecesPerPackage),
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" || product.UnitID == "" {
		return nil, store.ErrInvalidInput
	}
	product.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, supplier_id = $4, amount = $5, purchase_price = $6,
		    unit_id = $7, pieces_per_package = $8, updated_at = $9
		WHERE id = $1
	`, product.ID, product.Name, nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.Amount, product.PurchasePrice, product.UnitID, nullFloat(product.PiecesPerPackage),
		product.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM products WHERE id = $1`, id)
}

func (s *Store) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sale_price, created_at
		FROM recipes
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]domain.Recipe, 0, 64)
	index := make(map[string]int, 64)
	for rows.Next() {
		var r domain.Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.SalePrice, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt = r.CreatedAt.UTC()
		r.Ingredients = []domain.RecipeIngredient{}
		index[r.ID] = len(recipes)
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ingRows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, product_id, amount, unit_id
		FROM recipe_ingredients
		ORDER BY recipe_id, product_id
	`)
	if err != nil {
		return nil, err
	}
	defer ingRows.Close()

	for ingRows.Next() {
		ing, err := scanIngredient(ingRows)
		if err != nil {
			return nil, err
		}
		if i, exists := index[ing.RecipeID]; exists {
			recipes[i].Ingredients = append(recipes[i].Ingredients, ing)
		}
	}
	if err := ingRows.Err(); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, sale_price, created_at
		FROM recipes
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.SalePrice, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.Ingredients = []domain.RecipeIngredient{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT recipe_id, product_id, amount, unit_id
		FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY product_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateRecipe(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	if recipe.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if recipe.ID == "" {
		recipe.ID = xid.New("recipe")
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipes (id, name, sale_price, created_at)
		VALUES ($1,$2,$3,$4)
	`, recipe.ID, recipe.Name, recipe.SalePrice, recipe.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
		ing := recipe.Ingredients[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, product_id, amount, unit_id)
			VALUES ($1,$2,$3,$4)
		`, ing.RecipeID, ing.ProductID, ing.Amount, nullString(ing.UnitID))
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := recipe
	return &created, nil
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) ListLineItems(ctx context.Context, year int) ([]domain.FinancialLineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, year, name, category, months, total, updated_at
		FROM financial_line_items
		WHERE year = $1
		ORDER BY category, name
	`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FinancialLineItem, 0, 64)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetLineItemByID(ctx context.Context, id string) (*domain.FinancialLineItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, year, name, category, months, total, updated_at
		FROM financial_line_items
		WHERE id = $1
	`, id)
	item, err := scanLineItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateLineItem(ctx context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error) {
	if item.Name == "" || item.Year < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.ID == "" {
		item.ID = xid.New("fin")
	}
	item.UpdatedAt = time.Now().UTC()
	months, err := json.Marshal(item.Months)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO financial_line_items (id, year, name, category, months, total, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, item.ID, item.Year, item.Name, item.Category, months, item.Total, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := item
	return &created, nil
}

func (s *Store) UpdateLineItem(ctx context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error) {
	if item.ID == "" || item.Name == "" {
		return nil, store.ErrInvalidInput
	}
	item.UpdatedAt = time.Now().UTC()
	months, err := json.Marshal(item.Months)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE financial_line_items
		SET name = $2, months = $3, total = $4, updated_at = $5
		WHERE id = $1
	`, item.ID, item.Name, months, item.Total, item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := item
	return &updated, nil
}

func (s *Store) DeleteLineItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM financial_line_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateDailyRecord(ctx context.Context, record domain.DailyEconomyRecord) (*domain.DailyEconomyRecord, error) {
	if record.ID == "" {
		record.ID = xid.New("daily")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	recordDate := nowDateUTC(record.RecordDate)

	byCategory, err := json.Marshal(record.OperatingByCategory)
	if err != nil {
		return nil, err
	}
	byRole, err := json.Marshal(record.PayrollByRole)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM daily_economy_records WHERE record_date = $1
	`, recordDate).Scan(&existingID)
	if err == nil {
		return nil, &store.DuplicateDateError{Date: recordDate, ExistingID: existingID}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_economy_records
			(id, record_date, total_income, gross_profit, payroll_expenses, operating_expenses,
			 operating_by_category, payroll_by_role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, record.ID, recordDate, record.TotalIncome, record.GrossProfit, record.PayrollExpenses,
		record.OperatingExpenses, byCategory, byRole, record.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &store.DuplicateDateError{Date: recordDate}
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := record
	created.RecordDate = recordDate
	return &created, nil
}

func (s *Store) FindDailyRecordByDate(ctx context.Context, date time.Time) (*domain.DailyEconomyRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, record_date, total_income, gross_profit, payroll_expenses, operating_expenses,
		       operating_by_category, payroll_by_role, created_at
		FROM daily_economy_records
		WHERE record_date = $1
	`, nowDateUTC(date))
	record, err := scanDailyRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Store) ListDailyRecords(ctx context.Context, from time.Time, to time.Time) ([]domain.DailyEconomyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_date, total_income, gross_profit, payroll_expenses, operating_expenses,
		       operating_by_category, payroll_by_role, created_at
		FROM daily_economy_records
		WHERE record_date >= $1 AND record_date < $2
		ORDER BY record_date
	`, nowDateUTC(from), nowDateUTC(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.DailyEconomyRecord, 0, 32)
	for rows.Next() {
		record, err := scanDailyRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) DeleteDailyRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_economy_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSaleEntry(ctx context.Context, entry domain.SaleEntry) (*domain.SaleEntry, error) {
	if entry.Amount <= 0 {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("sale")
	}
	if entry.SoldAt.IsZero() {
		entry.SoldAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sale_entries (id, source, amount, description, sold_at)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.Source, entry.Amount, entry.Description, entry.SoldAt)
	if err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) ListSaleEntriesByDate(ctx context.Context, date time.Time) ([]domain.SaleEntry, error) {
	from := nowDateUTC(date)
	to := from.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, amount, description, sold_at
		FROM sale_entries
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.SaleEntry, 0, 32)
	for rows.Next() {
		var e domain.SaleEntry
		if err := rows.Scan(&e.ID, &e.Source, &e.Amount, &e.Description, &e.SoldAt); err != nil {
			return nil, err
		}
		e.SoldAt = e.SoldAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateExpenseEntry(ctx context.Context, entry domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	if entry.Amount <= 0 || entry.Category == "" {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("exp")
	}
	if entry.SpentAt.IsZero() {
		entry.SpentAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expense_entries (id, category, amount, description, spent_at)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.Category, entry.Amount, entry.Description, entry.SpentAt)
	if err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) ListExpenseEntriesByDate(ctx context.Context, date time.Time) ([]domain.ExpenseEntry, error) {
	from := nowDateUTC(date)
	to := from.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, amount, description, spent_at
		FROM expense_entries
		WHERE spent_at >= $1 AND spent_at < $2
		ORDER BY spent_at
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ExpenseEntry, 0, 32)
	for rows.Next() {
		var e domain.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.SpentAt); err != nil {
			return nil, err
		}
		e.SpentAt = e.SpentAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreatePayrollEntry(ctx context.Context, entry domain.PayrollEntry) (*domain.PayrollEntry, error) {
	if entry.Amount <= 0 || entry.Role == "" {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("pay")
	}
	if entry.PaidAt.IsZero() {
		entry.PaidAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payroll_entries (id, role, employee, amount, paid_at)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.Role, entry.Employee, entry.Amount, entry.PaidAt)
	if err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) ListPayrollEntriesByDate(ctx context.Context, date time.Time) ([]domain.PayrollEntry, error) {
	from := nowDateUTC(date)
	to := from.AddDate(0, 0, 1)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, employee, amount, paid_at
		FROM payroll_entries
		WHERE paid_at >= $1 AND paid_at < $2
		ORDER BY paid_at
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.PayrollEntry, 0, 32)
	for rows.Next() {
		var e domain.PayrollEntry
		if err := rows.Scan(&e.ID, &e.Role, &e.Employee, &e.Amount, &e.PaidAt); err != nil {
			return nil, err
		}
		e.PaidAt = e.PaidAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action,
			&entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" || user.Password == "" {
		return store.ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_accounts (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM user_accounts
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	if username == "" || password == "" {
		return store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_accounts SET password_hash = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// deleteByID runs a single-row delete, mapping missing rows to
// ErrNotFound and FK restrictions to ErrConflict.
func (s *Store) deleteByID(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var categoryID, supplierID sql.NullString
	var pieces sql.NullFloat64
	err := row.Scan(&p.ID, &p.Name, &categoryID, &supplierID, &p.Amount, &p.PurchasePrice,
		&p.UnitID, &pieces, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.CategoryID = categoryID.String
	p.SupplierID = supplierID.String
	if pieces.Valid {
		v := pieces.Float64
		p.PiecesPerPackage = &v
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanIngredient(row rowScanner) (domain.RecipeIngredient, error) {
	var ing domain.RecipeIngredient
	var unitID sql.NullString
	if err := row.Scan(&ing.RecipeID, &ing.ProductID, &ing.Amount, &unitID); err != nil {
		return domain.RecipeIngredient{}, err
	}
	if unitID.Valid {
		v := unitID.String
		ing.UnitID = &v
	}
	return ing, nil
}

func scanLineItem(row rowScanner) (domain.FinancialLineItem, error) {
	var item domain.FinancialLineItem
	var months []byte
	err := row.Scan(&item.ID, &item.Year, &item.Name, &item.Category, &months, &item.Total, &item.UpdatedAt)
	if err != nil {
		return domain.FinancialLineItem{}, err
	}
	if err := json.Unmarshal(months, &item.Months); err != nil {
		return domain.FinancialLineItem{}, err
	}
	item.UpdatedAt = item.UpdatedAt.UTC()
	return item, nil
}

func scanDailyRecord(row rowScanner) (domain.DailyEconomyRecord, error) {
	var record domain.DailyEconomyRecord
	var byCategory, byRole []byte
	err := row.Scan(&record.ID, &record.RecordDate, &record.TotalIncome, &record.GrossProfit,
		&record.PayrollExpenses, &record.OperatingExpenses, &byCategory, &byRole, &record.CreatedAt)
	if err != nil {
		return domain.DailyEconomyRecord{}, err
	}
	if len(byCategory) > 0 {
		if err := json.Unmarshal(byCategory, &record.OperatingByCategory); err != nil {
			return domain.DailyEconomyRecord{}, err
		}
	}
	if len(byRole) > 0 {
		if err := json.Unmarshal(byRole, &record.PayrollByRole); err != nil {
			return domain.DailyEconomyRecord{}, err
		}
	}
	record.RecordDate = record.RecordDate.UTC()
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func nowDateUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullFloat(val *float64) any {
	if val == nil {
		return nil
	}
	return *val
}

func nullString(val *string) any {
	if val == nil {
		return nil
	}
	return *val
}
