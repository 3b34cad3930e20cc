package models

// Account mirrors one Chart of Accounts row. The COA is seeded and
// administered by an external collaborator; this core only reads it.
type Account struct {
	AccountID   string
	CompanyID   string
	AccountName string
	AccountType string
}
