package domain

import "time"

// MonthsPerYear is the width of every monthly value row in the finance
// module. Month index 0 is January.
const MonthsPerYear = 12

type Unit struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

type UnitCreateRequest struct {
	Name             string   `json:"name"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

type UnitUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryCreateRequest struct {
	Name string `json:"name"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierCreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Product is a purchasable stock item. Amount is the stocked quantity the
// purchase price pays for, expressed in the product's native unit.
// PiecesPerPackage, when set, marks the product as packaged goods priced
// per package and subdivided into pieces.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CategoryID       string    `json:"category_id"`
	SupplierID       string    `json:"supplier_id,omitempty"`
	Amount           float64   `json:"amount"`
	PurchasePrice    float64   `json:"purchase_price"`
	UnitID           string    `json:"unit_id"`
	PiecesPerPackage *float64  `json:"pieces_per_package,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name             string   `json:"name"`
	CategoryID       string   `json:"category_id"`
	SupplierID       string   `json:"supplier_id,omitempty"`
	Amount           float64  `json:"amount"`
	PurchasePrice    float64  `json:"purchase_price"`
	UnitID           string   `json:"unit_id"`
	PiecesPerPackage *float64 `json:"pieces_per_package,omitempty"`
}

type ProductUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	CategoryID       *string  `json:"category_id,omitempty"`
	SupplierID       *string  `json:"supplier_id,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	PurchasePrice    *float64 `json:"purchase_price,omitempty"`
	UnitID           *string  `json:"unit_id,omitempty"`
	PiecesPerPackage *float64 `json:"pieces_per_package,omitempty"`
}

// RecipeIngredient is one consumption row: the recipe uses Amount of
// UnitID of the referenced product. UnitID may be nil, meaning the
// product's native unit, and it may legitimately differ from it.
type RecipeIngredient struct {
	RecipeID  string  `json:"recipe_id"`
	ProductID string  `json:"product_id"`
	Amount    float64 `json:"amount"`
	UnitID    *string `json:"unit_id,omitempty"`
}

type Recipe struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	SalePrice   float64            `json:"sale_price"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	CreatedAt   time.Time          `json:"created_at"`
}

type RecipeIngredientInput struct {
	ProductID string  `json:"product_id"`
	Amount    float64 `json:"amount"`
	UnitID    *string `json:"unit_id,omitempty"`
}

type RecipeCreateRequest struct {
	Name        string                  `json:"name"`
	SalePrice   float64                 `json:"sale_price"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

// Financial line item categories. Sales is income; everything else is an
// expense family rolled into totalExpenses.
const (
	LineCategorySales         = "sales"
	LineCategoryCostOfGoods   = "cost_of_goods"
	LineCategoryOperational   = "operational"
	LineCategoryPayroll       = "payroll"
	LineCategoryUtilities     = "utilities"
	LineCategoryOtherExpenses = "other_expenses"
)

// FinancialLineItem is one named row of the yearly spreadsheet: 12
// monthly values plus a derived total. Total must equal the sum of
// Months after every mutation; finance.RecomputeLineItem enforces that.
type FinancialLineItem struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Months    []float64 `json:"months"`
	Total     float64   `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LineItemCreateRequest struct {
	Year     int       `json:"year"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Months   []float64 `json:"months,omitempty"`
}

// LineItemUpdateRequest patches a line item. SetMonth applies a
// single-cell edit; Months replaces the whole row. Both trigger a total
// recompute before the item is persisted.
type LineItemUpdateRequest struct {
	Name     *string        `json:"name,omitempty"`
	Months   []float64      `json:"months,omitempty"`
	SetMonth *MonthCellEdit `json:"set_month,omitempty"`
}

type MonthCellEdit struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// SummaryRow is one derived row of the financial summary: 12 monthly
// values and the annual column.
type SummaryRow struct {
	Months []float64 `json:"months"`
	Total  float64   `json:"total"`
}

// FinancialSummary is the full derived rollup for one year. It is never
// edited directly; finance.Summarize recomputes it from the line items.
type FinancialSummary struct {
	Year               int        `json:"year"`
	TotalSales         SummaryRow `json:"total_sales"`
	TotalCostOfGoods   SummaryRow `json:"total_cost_of_goods"`
	TotalOperational   SummaryRow `json:"total_operational"`
	TotalPayroll       SummaryRow `json:"total_payroll"`
	TotalUtilities     SummaryRow `json:"total_utilities"`
	TotalOtherExpenses SummaryRow `json:"total_other_expenses"`
	TotalExpenses      SummaryRow `json:"total_expenses"`
	GrossProfit        SummaryRow `json:"gross_profit"`
	GrossProfitMargin  SummaryRow `json:"gross_profit_margin"`
	NetProfit          SummaryRow `json:"net_profit"`
	NetProfitMargin    SummaryRow `json:"net_profit_margin"`
}

// SaleEntry is a raw same-day income record, the input side of daily
// economy generation. Source is the sale channel ("kitchen", "bar", ...).
type SaleEntry struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	SoldAt      time.Time `json:"sold_at"`
}

type ExpenseEntry struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	SpentAt     time.Time `json:"spent_at"`
}

type PayrollEntry struct {
	ID       string    `json:"id"`
	Role     string    `json:"role"`
	Employee string    `json:"employee,omitempty"`
	Amount   float64   `json:"amount"`
	PaidAt   time.Time `json:"paid_at"`
}

type SaleEntryCreateRequest struct {
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
}

type ExpenseEntryCreateRequest struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
}

type PayrollEntryCreateRequest struct {
	Role     string  `json:"role"`
	Employee string  `json:"employee,omitempty"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date,omitempty"`
}

// DailyEconomyRecord is the persisted daily rollup. One record per
// calendar date; generating a second record for the same date is a
// conflict, never an overwrite. GrossProfit is income minus operating
// and payroll expenses for the day.
type DailyEconomyRecord struct {
	ID                  string             `json:"id"`
	RecordDate          time.Time          `json:"record_date"`
	TotalIncome         float64            `json:"total_income"`
	GrossProfit         float64            `json:"gross_profit"`
	PayrollExpenses     float64            `json:"payroll_expenses"`
	OperatingExpenses   float64            `json:"operating_expenses"`
	OperatingByCategory map[string]float64 `json:"operating_by_category,omitempty"`
	PayrollByRole       map[string]float64 `json:"payroll_by_role,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}

type DailyRecordGenerateRequest struct {
	Date string `json:"date"`
}

// MonthlyEconomySummary sums the daily records falling inside one month.
type MonthlyEconomySummary struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	Days              int     `json:"days"`
	TotalIncome       float64 `json:"total_income"`
	GrossProfit       float64 `json:"gross_profit"`
	PayrollExpenses   float64 `json:"payroll_expenses"`
	OperatingExpenses float64 `json:"operating_expenses"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
