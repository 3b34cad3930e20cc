package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset         AccountType = "ASSET"
	Liability     AccountType = "LIABILITY"
	Equity        AccountType = "EQUITY"
	Revenue       AccountType = "REVENUE"
	Expense       AccountType = "EXPENSE"
	COGS          AccountType = "COGS"
	ContraRevenue AccountType = "CONTRA_REVENUE"
)

// TypePrecedence is the fixed ordering of account types used when sorting
// report rows: balance sheet types first, then income statement types.
var TypePrecedence = map[AccountType]int{
	Asset:         0,
	Liability:     1,
	Equity:        2,
	Revenue:       3,
	Expense:       4,
	COGS:          5,
	ContraRevenue: 6,
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	_, ok := TypePrecedence[t]
	return ok
}

// NormalBalance returns the side (debit or credit) on which accounts of this
// type naturally increase.
func (t AccountType) NormalBalance() LineType {
	switch t {
	case Asset, Expense, COGS:
		return Debit
	default:
		return Credit
	}
}

// Account is one row of a tenant's Chart of Accounts. The COA is owned by an
// external collaborator; the ledger core only reads it.
type Account struct {
	AccountID string      `json:"accountID"` // Tenant-scoped code, unique within a company
	CompanyID string      `json:"companyID"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
}
