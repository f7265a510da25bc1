package relay

import (
	"context"
	"errors"
	"time"
)

type Role string

// Wire values match what both parties' clients already send and render.
const (
	RoleCustomer Role = "user"
	RoleAgent    Role = "agent"
	RoleBot      Role = "bot"
)

var ErrUnknownRole = errors.New("unknown sender role")

// Message is one immutable ledger entry. TranslatedText is working-language
// for customer rows and customer-language for agent rows; bot rows carry
// the same text in both fields. ReadByAgent is meaningful only for
// customer rows.
type Message struct {
	Role           Role
	OriginalText   string
	TranslatedText string
	Lang           string
	SentAt         time.Time
	RawTime        string
	ReadByAgent    bool
}

// DisplayTime keeps replayed history timestamps verbatim and formats live
// ones the way the clients expect.
func (m Message) DisplayTime() string {
	if m.RawTime != "" {
		return m.RawTime
	}
	return m.SentAt.Format("15:04")
}

// ViewMessage is one row of a per-party projection.
type ViewMessage struct {
	Sender Role   `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// ChatSummary is one agent-dashboard row.
type ChatSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	LastMessage string `json:"lastMessage"`
	LastTime    string `json:"lastTime"`
	Unread      int    `json:"unread"`
}

// HistoryEntry is one line of a bot transcript replayed on handoff.
type HistoryEntry struct {
	Sender Role   `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// LedgerStore — append-only message history per customer identity.
type LedgerStore interface {
	Append(ctx context.Context, customerID string, m Message) error
	Messages(ctx context.Context, customerID string) ([]Message, error)

	// MarkCustomerRead flips ReadByAgent on every customer row of the
	// ledger.
	MarkCustomerRead(ctx context.Context, customerID string) error

	// CustomerIDs lists ledger owners in first-contact order.
	CustomerIDs(ctx context.Context) ([]string, error)
}
