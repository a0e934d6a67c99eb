package domain

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// User is the persisted account record. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view of a User, safe to return to clients.
type Profile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Profile returns the outward-facing view of the user.
func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Transaction is a single signed ledger entry owned by exactly one user.
// The sign of Amount always matches Type: positive for income, negative
// for expense.
type Transaction struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"owner"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a catalog entry: static display metadata plus the eligibility
// flag restricting which transaction types it may be attached to.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	Income bool   `json:"income"`
}

// ============================================================
// Auth — request / response types (matches frontend API contract)
// ============================================================

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse is the body for 201 from POST /api/auth/register.
type RegisterResponse struct {
	Token string `json:"token"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /api/auth/login.
type LoginResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// ============================================================
// Ledger — request types
// ============================================================

// CreateTransactionRequest is the body for POST /api/transactions.
// Amount carries the caller-supplied magnitude; its sign is normalized to
// the transaction type before persisting.
type CreateTransactionRequest struct {
	Title    string    `json:"title"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

// UpdateTransactionRequest is the body for PUT /api/transactions/{id}.
// Nil fields are left untouched; owner and id are immutable.
type UpdateTransactionRequest struct {
	Title    *string    `json:"title,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Type     *string    `json:"type,omitempty"`
	Category *string    `json:"category,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// ============================================================
// Monthly summary (derived, never persisted)
// ============================================================

// CategoryTotal aggregates one category within one type group. Display
// metadata comes from the catalog so clients don't keep parallel tables.
type CategoryTotal struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon"`
	Color    string  `json:"color"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// SummaryGroup is one side (income or expense) of a monthly summary.
type SummaryGroup struct {
	Total      float64         `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// MonthlySummary is the aggregate of one owner's transactions within one
// calendar month, recomputed from the current transaction set on every call.
type MonthlySummary struct {
	Month   int          `json:"month"`
	Year    int          `json:"year"`
	Income  SummaryGroup `json:"income"`
	Expense SummaryGroup `json:"expense"`
	Balance float64      `json:"balance"`
}

// SuccessResponse is a generic message body.
type SuccessResponse struct {
	Message string `json:"message"`
}

// LedgerMetrics is the snapshot returned by GET /api/metrics/ledger.
type LedgerMetrics struct {
	TransactionsCreated float64 `json:"transactions_created"`
	IncomeCreated       float64 `json:"income_created"`
	ExpenseCreated      float64 `json:"expense_created"`
	SummariesComputed   float64 `json:"summaries_computed"`
	StoreErrors         float64 `json:"store_errors"`
	Period              string  `json:"period"`
}
