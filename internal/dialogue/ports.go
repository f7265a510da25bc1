package dialogue

import "time"

// Session is one customer-bot conversation's transient dialogue state.
// At most one of the two awaiting flags is set at a time.
type Session struct {
	ID                 string
	AwaitingCustomerID bool
	AwaitingMonth      bool
	PendingQuery       string
	CustomerID         string
	TransactionMonth   string
	ConnectedToAgent   bool
	CustomerLang       string
	CustomerName       string
	UpdatedAt          time.Time
}

// Store — session persistence plus the customerID → sessions index.
type Store interface {
	// GetOrCreate returns the session for id, creating it with defaults
	// (lang "en", name "Customer") when absent.
	GetOrCreate(sessionID string) Session

	Get(sessionID string) (Session, bool)

	// Save writes the session back and keeps the customer index in step
	// with any CustomerID change.
	Save(s Session)

	// SetLanguageForCustomer updates CustomerLang on every session bound
	// to customerID, reporting whether any matched.
	SetLanguageForCustomer(customerID string, lang string) bool

	// LanguageForCustomer resolves the language of the most recently
	// updated session bound to customerID.
	LanguageForCustomer(customerID string) (string, bool)

	// NameForCustomer resolves the display name the same way.
	NameForCustomer(customerID string) (string, bool)
}
