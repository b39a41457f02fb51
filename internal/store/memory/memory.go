package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dapurbooks/backend/internal/domain"
	"dapurbooks/backend/internal/store"
	"dapurbooks/backend/internal/xid"
)

const dateKeyLayout = "2006-01-02"

type Store struct {
	mu              sync.RWMutex
	unitsByID       map[string]domain.Unit
	categoriesByID  map[string]domain.Category
	suppliersByID   map[string]domain.Supplier
	productsByID    map[string]domain.Product
	recipesByID     map[string]domain.Recipe
	lineItemsByID   map[string]domain.FinancialLineItem
	dailyByID       map[string]domain.DailyEconomyRecord
	dailyIDByDate   map[string]string
	saleEntries     []domain.SaleEntry
	expenseEntries  []domain.ExpenseEntry
	payrollEntries  []domain.PayrollEntry
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	thousand := 1000.0
	one := 1.0
	units := []domain.Unit{
		{ID: "unit-l", Name: "liter", ConversionFactor: &thousand},
		{ID: "unit-ml", Name: "milliliter", ConversionFactor: &one},
		{ID: "unit-kg", Name: "kilogram", ConversionFactor: &thousand},
		{ID: "unit-g", Name: "gram", ConversionFactor: &one},
		{ID: "unit-pcs", Name: "pieces"},
	}

	categories := []domain.Category{
		{ID: "cat-produce", Name: "produce", CreatedAt: now},
		{ID: "cat-dairy", Name: "dairy", CreatedAt: now},
		{ID: "cat-beverage", Name: "beverage", CreatedAt: now},
		{ID: "cat-dry", Name: "dry goods", CreatedAt: now},
	}

	suppliers := []domain.Supplier{
		{ID: "sup-pasar", Name: "Pasar Induk", Phone: "0812-1111-2222", CreatedAt: now},
		{ID: "sup-grosir", Name: "Grosir Sembako Jaya", Phone: "0813-3333-4444", CreatedAt: now},
	}

	twelve := 12.0
	products := []domain.Product{
		{ID: "prod-milk", Name: "Susu UHT", CategoryID: "cat-dairy", SupplierID: "sup-grosir", Amount: 1, PurchasePrice: 18000, UnitID: "unit-l", CreatedAt: now, UpdatedAt: now},
		{ID: "prod-coffee", Name: "Kopi Bubuk", CategoryID: "cat-dry", SupplierID: "sup-grosir", Amount: 500, PurchasePrice: 45000, UnitID: "unit-g", CreatedAt: now, UpdatedAt: now},
		{ID: "prod-sugar", Name: "Gula Pasir", CategoryID: "cat-dry", SupplierID: "sup-pasar", Amount: 1, PurchasePrice: 17000, UnitID: "unit-kg", CreatedAt: now, UpdatedAt: now},
		{ID: "prod-egg", Name: "Telur", CategoryID: "cat-produce", SupplierID: "sup-pasar", Amount: 1, PurchasePrice: 28000, UnitID: "unit-pcs", PiecesPerPackage: &twelve, CreatedAt: now, UpdatedAt: now},
	}

	mlUnit := "unit-ml"
	gUnit := "unit-g"
	recipes := []domain.Recipe{
		{
			ID: "recipe-kopi-susu", Name: "Es Kopi Susu", SalePrice: 22000,
			Ingredients: []domain.RecipeIngredient{
				{RecipeID: "recipe-kopi-susu", ProductID: "prod-milk", Amount: 120, UnitID: &mlUnit},
				{RecipeID: "recipe-kopi-susu", ProductID: "prod-coffee", Amount: 18, UnitID: &gUnit},
				{RecipeID: "recipe-kopi-susu", ProductID: "prod-sugar", Amount: 15, UnitID: &gUnit},
			},
			CreatedAt: now,
		},
	}

	s := &Store{
		unitsByID:       make(map[string]domain.Unit, len(units)),
		categoriesByID:  make(map[string]domain.Category, len(categories)),
		suppliersByID:   make(map[string]domain.Supplier, len(suppliers)),
		productsByID:    make(map[string]domain.Product, len(products)),
		recipesByID:     make(map[string]domain.Recipe, len(recipes)),
		lineItemsByID:   make(map[string]domain.FinancialLineItem),
		dailyByID:       make(map[string]domain.DailyEconomyRecord),
		dailyIDByDate:   make(map[string]string),
		saleEntries:     make([]domain.SaleEntry, 0, 64),
		expenseEntries:  make([]domain.ExpenseEntry, 0, 64),
		payrollEntries:  make([]domain.PayrollEntry, 0, 64),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: seedUsers(),
	}
	for _, u := range units {
		s.unitsByID[u.ID] = u
	}
	for _, c := range categories {
		s.categoriesByID[c.ID] = c
	}
	for _, sup := range suppliers {
		s.suppliersByID[sup.ID] = sup
	}
	for _, p := range products {
		s.productsByID[p.ID] = p
	}
	for _, r := range recipes {
		s.recipesByID[r.ID] = r
	}
	return s
}

// NewEmpty returns a store with seeded users only. Used by tests that
// need full control over the data they operate on.
func NewEmpty() *Store {
	return &Store{
		unitsByID:       make(map[string]domain.Unit),
		categoriesByID:  make(map[string]domain.Category),
		suppliersByID:   make(map[string]domain.Supplier),
		productsByID:    make(map[string]domain.Product),
		recipesByID:     make(map[string]domain.Recipe),
		lineItemsByID:   make(map[string]domain.FinancialLineItem),
		dailyByID:       make(map[string]domain.DailyEconomyRecord),
		dailyIDByDate:   make(map[string]string),
		saleEntries:     make([]domain.SaleEntry, 0, 16),
		expenseEntries:  make([]domain.ExpenseEntry, 0, 16),
		payrollEntries:  make([]domain.PayrollEntry, 0, 16),
		auditLogs:       make([]domain.AuditLog, 0, 16),
		usersByUsername: seedUsers(),
	}
}

func (s *Store) ListUnits(_ context.Context) ([]domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := make([]domain.Unit, 0, len(s.unitsByID))
	for _, u := range s.unitsByID {
		units = append(units, cloneUnit(u))
	}
	slices.SortFunc(units, func(a, b domain.Unit) int {
		return cmpString(a.Name, b.Name)
	})
	return units, nil
}

func (s *Store) GetUnitByID(_ context.Context, id string) (*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unit, exists := s.unitsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneUnit(unit)
	return &dup, nil
}

func (s *Store) CreateUnit(_ context.Context, unit domain.Unit) (*domain.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if unit.Name == "" {
		return nil, store.ErrInvalidInput
	}
	for _, existing := range s.unitsByID {
		if strings.EqualFold(existing.Name, unit.Name) {
			return nil, store.ErrConflict
		}
	}
	if unit.ID == "" {
		unit.ID = xid.New("unit")
	}
	s.unitsByID[unit.ID] = cloneUnit(unit)
	created := cloneUnit(unit)
	return &created, nil
}

func (s *Store) UpdateUnit(_ context.Context, unit domain.Unit) (*domain.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if unit.ID == "" || unit.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.unitsByID[unit.ID]; !exists {
		return nil, store.ErrNotFound
	}
	for id, existing := range s.unitsByID {
		if id != unit.ID && strings.EqualFold(existing.Name, unit.Name) {
			return nil, store.ErrConflict
		}
	}
	s.unitsByID[unit.ID] = cloneUnit(unit)
	updated := cloneUnit(unit)
	return &updated, nil
}

func (s *Store) DeleteUnit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.unitsByID[id]; !exists {
		return store.ErrNotFound
	}
	for _, p := range s.productsByID {
		if p.UnitID == id {
			return store.ErrConflict
		}
	}
	for _, r := range s.recipesByID {
		for _, ing := range r.Ingredients {
			if ing.UnitID != nil && *ing.UnitID == id {
				return store.ErrConflict
			}
		}
	}
	delete(s.unitsByID, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categoriesByID))
	for _, c := range s.categoriesByID {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b domain.Category) int {
		return cmpString(a.Name, b.Name)
	})
	return categories, nil
}

func (s *Store) CreateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	for _, existing := range s.categoriesByID {
		if strings.EqualFold(existing.Name, category.Name) {
			return nil, store.ErrConflict
		}
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	s.categoriesByID[category.ID] = category
	created := category
	return &created, nil
}

func (s *Store) UpdateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.categoriesByID[category.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	category.CreatedAt = existing.CreatedAt
	s.categoriesByID[category.ID] = category
	updated := category
	return &updated, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categoriesByID[id]; !exists {
		return store.ErrNotFound
	}
	for _, p := range s.productsByID {
		if p.CategoryID == id {
			return store.ErrConflict
		}
	}
	delete(s.categoriesByID, id)
	return nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(s.suppliersByID))
	for _, sup := range s.suppliersByID {
		suppliers = append(suppliers, sup)
	}
	slices.SortFunc(suppliers, func(a, b domain.Supplier) int {
		return cmpString(a.Name, b.Name)
	})
	return suppliers, nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}
	s.suppliersByID[supplier.ID] = supplier
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if supplier.ID == "" || supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.suppliersByID[supplier.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	supplier.CreatedAt = existing.CreatedAt
	s.suppliersByID[supplier.ID] = supplier
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliersByID[id]; !exists {
		return store.ErrNotFound
	}
	for _, p := range s.productsByID {
		if p.SupplierID == id {
			return store.ErrConflict
		}
	}
	delete(s.suppliersByID, id)
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.productsByID))
	for _, p := range s.productsByID {
		products = append(products, cloneProduct(p))
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.CategoryID == b.CategoryID {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.CategoryID, b.CategoryID)
	})
	return products, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.productsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneProduct(product)
	return &dup, nil
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if product, exists := s.productsByID[id]; exists {
			result[id] = cloneProduct(product)
		}
	}
	return result, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Name == "" || product.UnitID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.unitsByID[product.UnitID]; !exists {
		return nil, store.ErrNotFound
	}
	if product.CategoryID != "" {
		if _, exists := s.categoriesByID[product.CategoryID]; !exists {
			return nil, store.ErrNotFound
		}
	}
	if product.SupplierID != "" {
		if _, exists := s.suppliersByID[product.SupplierID]; !exists {
			return nil, store.ErrNotFound
		}
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	s.productsByID[product.ID] = cloneProduct(product)
	created := cloneProduct(product)
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" || product.UnitID == "" {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.productsByID[product.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if _, ok := s.unitsByID[product.UnitID]; !ok {
		return nil, store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.productsByID[product.ID] = cloneProduct(product)
	updated := cloneProduct(product)
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.productsByID[id]; !exists {
		return store.ErrNotFound
	}
	for _, r := range s.recipesByID {
		for _, ing := range r.Ingredients {
			if ing.ProductID == id {
				return store.ErrConflict
			}
		}
	}
	delete(s.productsByID, id)
	return nil
}

func (s *Store) ListRecipes(_ context.Context) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipes := make([]domain.Recipe, 0, len(s.recipesByID))
	for _, r := range s.recipesByID {
		recipes = append(recipes, cloneRecipe(r))
	}
	slices.SortFunc(recipes, func(a, b domain.Recipe) int {
		return cmpString(a.Name, b.Name)
	})
	return recipes, nil
}

func (s *Store) GetRecipeByID(_ context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, exists := s.recipesByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneRecipe(recipe)
	return &dup, nil
}

func (s *Store) CreateRecipe(_ context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.Name == "" {
		return nil, store.ErrInvalidInput
	}
	for _, ing := range recipe.Ingredients {
		if _, exists := s.productsByID[ing.ProductID]; !exists {
			return nil, store.ErrNotFound
		}
		if ing.UnitID != nil {
			if _, exists := s.unitsByID[*ing.UnitID]; !exists {
				return nil, store.ErrNotFound
			}
		}
	}
	if recipe.ID == "" {
		recipe.ID = xid.New("recipe")
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	s.recipesByID[recipe.ID] = cloneRecipe(recipe)
	created := cloneRecipe(recipe)
	return &created, nil
}

func (s *Store) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recipesByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.recipesByID, id)
	return nil
}

func (s *Store) ListLineItems(_ context.Context, year int) ([]domain.FinancialLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.FinancialLineItem, 0, len(s.lineItemsByID))
	for _, item := range s.lineItemsByID {
		if item.Year != year {
			continue
		}
		items = append(items, cloneLineItem(item))
	}
	slices.SortFunc(items, func(a, b domain.FinancialLineItem) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})
	return items, nil
}

func (s *Store) GetLineItemByID(_ context.Context, id string) (*domain.FinancialLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.lineItemsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := cloneLineItem(item)
	return &dup, nil
}

func (s *Store) CreateLineItem(_ context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" || item.Year < 1 {
		return nil, store.ErrInvalidInput
	}
	if item.ID == "" {
		item.ID = xid.New("fin")
	}
	item.UpdatedAt = time.Now().UTC()
	s.lineItemsByID[item.ID] = cloneLineItem(item)
	created := cloneLineItem(item)
	return &created, nil
}

func (s *Store) UpdateLineItem(_ context.Context, item domain.FinancialLineItem) (*domain.FinancialLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" || item.Name == "" {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.lineItemsByID[item.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	item.Year = existing.Year
	item.Category = existing.Category
	item.UpdatedAt = time.Now().UTC()
	s.lineItemsByID[item.ID] = cloneLineItem(item)
	updated := cloneLineItem(item)
	return &updated, nil
}

func (s *Store) DeleteLineItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lineItemsByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.lineItemsByID, id)
	return nil
}

func (s *Store) CreateDailyRecord(_ context.Context, record domain.DailyEconomyRecord) (*domain.DailyEconomyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.RecordDate.UTC().Format(dateKeyLayout)
	if existingID, exists := s.dailyIDByDate[key]; exists {
		return nil, &store.DuplicateDateError{Date: record.RecordDate, ExistingID: existingID}
	}
	if record.ID == "" {
		record.ID = xid.New("daily")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.dailyByID[record.ID] = cloneDailyRecord(record)
	s.dailyIDByDate[key] = record.ID
	created := cloneDailyRecord(record)
	return &created, nil
}

func (s *Store) FindDailyRecordByDate(_ context.Context, date time.Time) (*domain.DailyEconomyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.dailyIDByDate[date.UTC().Format(dateKeyLayout)]
	if !exists {
		return nil, store.ErrNotFound
	}
	record := cloneDailyRecord(s.dailyByID[id])
	return &record, nil
}

func (s *Store) ListDailyRecords(_ context.Context, from time.Time, to time.Time) ([]domain.DailyEconomyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.DailyEconomyRecord, 0, len(s.dailyByID))
	for _, record := range s.dailyByID {
		if record.RecordDate.Before(from) || !record.RecordDate.Before(to) {
			continue
		}
		records = append(records, cloneDailyRecord(record))
	}
	slices.SortFunc(records, func(a, b domain.DailyEconomyRecord) int {
		if a.RecordDate.Equal(b.RecordDate) {
			return cmpString(a.ID, b.ID)
		}
		if a.RecordDate.Before(b.RecordDate) {
			return -1
		}
		return 1
	})
	return records, nil
}

func (s *Store) DeleteDailyRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.dailyByID[id]
	if !exists {
		return store.ErrNotFound
	}
	delete(s.dailyByID, id)
	delete(s.dailyIDByDate, record.RecordDate.UTC().Format(dateKeyLayout))
	return nil
}

func (s *Store) CreateSaleEntry(_ context.Context, entry domain.SaleEntry) (*domain.SaleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Amount <= 0 {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("sale")
	}
	if entry.SoldAt.IsZero() {
		entry.SoldAt = time.Now().UTC()
	}
	s.saleEntries = append(s.saleEntries, entry)
	created := entry
	return &created, nil
}

func (s *Store) ListSaleEntriesByDate(_ context.Context, date time.Time) ([]domain.SaleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := date.UTC().Format(dateKeyLayout)
	result := make([]domain.SaleEntry, 0, 16)
	for _, entry := range s.saleEntries {
		if entry.SoldAt.UTC().Format(dateKeyLayout) == key {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *Store) CreateExpenseEntry(_ context.Context, entry domain.ExpenseEntry) (*domain.ExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Amount <= 0 || entry.Category == "" {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("exp")
	}
	if entry.SpentAt.IsZero() {
		entry.SpentAt = time.Now().UTC()
	}
	s.expenseEntries = append(s.expenseEntries, entry)
	created := entry
	return &created, nil
}

func (s *Store) ListExpenseEntriesByDate(_ context.Context, date time.Time) ([]domain.ExpenseEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := date.UTC().Format(dateKeyLayout)
	result := make([]domain.ExpenseEntry, 0, 16)
	for _, entry := range s.expenseEntries {
		if entry.SpentAt.UTC().Format(dateKeyLayout) == key {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *Store) CreatePayrollEntry(_ context.Context, entry domain.PayrollEntry) (*domain.PayrollEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Amount <= 0 || entry.Role == "" {
		return nil, store.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = xid.New("pay")
	}
	if entry.PaidAt.IsZero() {
		entry.PaidAt = time.Now().UTC()
	}
	s.payrollEntries = append(s.payrollEntries, entry)
	created := entry
	return &created, nil
}

func (s *Store) ListPayrollEntriesByDate(_ context.Context, date time.Time) ([]domain.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := date.UTC().Format(dateKeyLayout)
	result := make([]domain.PayrollEntry, 0, 16)
	for _, entry := range s.payrollEntries {
		if entry.PaidAt.UTC().Format(dateKeyLayout) == key {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneUnit(src domain.Unit) domain.Unit {
	dup := src
	if src.ConversionFactor != nil {
		factor := *src.ConversionFactor
		dup.ConversionFactor = &factor
	}
	return dup
}

func cloneProduct(src domain.Product) domain.Product {
	dup := src
	if src.PiecesPerPackage != nil {
		pieces := *src.PiecesPerPackage
		dup.PiecesPerPackage = &pieces
	}
	return dup
}

func cloneRecipe(src domain.Recipe) domain.Recipe {
	dup := src
	ingredients := make([]domain.RecipeIngredient, len(src.Ingredients))
	copy(ingredients, src.Ingredients)
	for i, ing := range src.Ingredients {
		if ing.UnitID != nil {
			unitID := *ing.UnitID
			ingredients[i].UnitID = &unitID
		}
	}
	dup.Ingredients = ingredients
	return dup
}

func cloneLineItem(src domain.FinancialLineItem) domain.FinancialLineItem {
	dup := src
	months := make([]float64, len(src.Months))
	copy(months, src.Months)
	dup.Months = months
	return dup
}

func cloneDailyRecord(src domain.DailyEconomyRecord) domain.DailyEconomyRecord {
	dup := src
	if src.OperatingByCategory != nil {
		byCategory := make(map[string]float64, len(src.OperatingByCategory))
		for k, v := range src.OperatingByCategory {
			byCategory[k] = v
		}
		dup.OperatingByCategory = byCategory
	}
	if src.PayrollByRole != nil {
		byRole := make(map[string]float64, len(src.PayrollByRole))
		for k, v := range src.PayrollByRole {
			byRole[k] = v
		}
		dup.PayrollByRole = byRole
	}
	return dup
}
