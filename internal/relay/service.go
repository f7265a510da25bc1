package relay

import (
	"context"
	"log"
	"time"

	"github.com/Vovarama1992/support-lingo-bridge/internal/ai"
	"github.com/Vovarama1992/support-lingo-bridge/internal/dialogue"
	"github.com/Vovarama1992/support-lingo-bridge/internal/locks"
)

// Service stores every message once and renders it per party: customer text
// is translated to the working language on write for the agent, agent text
// is translated to the customer's language on write. Appends and
// read-with-mark are serialized per customer identity.
type Service struct {
	ledger      LedgerStore
	translator  ai.Translator
	sessions    dialogue.Store
	workingLang string
	locks       *locks.Keyed
}

func NewService(ledger LedgerStore, tr ai.Translator, sessions dialogue.Store, workingLang string) *Service {
	return &Service{
		ledger:      ledger,
		translator:  tr,
		sessions:    sessions,
		workingLang: workingLang,
		locks:       locks.NewKeyed(),
	}
}

// SendFromCustomer appends a customer message to customerID's ledger,
// refreshing the detected language on every session bound to that identity.
// When no session is bound yet the sending session adopts the identity
// (reconnect after a lost session).
func (s *Service) SendFromCustomer(ctx context.Context, sessionID string, customerID string, text string) error {
	mu := s.locks.Get(customerID)
	mu.Lock()
	defer mu.Unlock()

	lang := s.detect(ctx, customerID, text)

	if !s.sessions.SetLanguageForCustomer(customerID, lang) {
		sess := s.sessions.GetOrCreate(sessionID)
		sess.CustomerID = customerID
		sess.ConnectedToAgent = true
		sess.CustomerLang = lang
		s.sessions.Save(sess)
	}

	translated := s.translate(ctx, text, lang, s.workingLang)

	log.Printf("[relay] customer=%s lang=%s text=%q -> %q", customerID, lang, text, translated)

	return s.ledger.Append(ctx, customerID, Message{
		Role:           RoleCustomer,
		OriginalText:   text,
		TranslatedText: translated,
		Lang:           lang,
		SentAt:         time.Now(),
	})
}

// SendFromAgent appends an agent reply translated into the customer's
// current language, defaulting to the working language when unknown.
func (s *Service) SendFromAgent(ctx context.Context, customerID string, text string) error {
	mu := s.locks.Get(customerID)
	mu.Lock()
	defer mu.Unlock()

	lang, ok := s.sessions.LanguageForCustomer(customerID)
	if !ok || lang == "" {
		lang = s.workingLang
	}

	translated := s.translate(ctx, text, s.workingLang, lang)

	log.Printf("[relay] agent -> customer=%s lang=%s text=%q -> %q", customerID, lang, text, translated)

	return s.ledger.Append(ctx, customerID, Message{
		Role:           RoleAgent,
		OriginalText:   text,
		TranslatedText: translated,
		Lang:           s.workingLang,
		SentAt:         time.Now(),
	})
}

// AgentView renders the ledger for the agent. Fetching acknowledges
// receipt: every customer row present is marked read, atomically with the
// snapshot.
func (s *Service) AgentView(ctx context.Context, customerID string) ([]ViewMessage, error) {
	mu := s.locks.Get(customerID)
	mu.Lock()
	defer mu.Unlock()

	msgs, err := s.ledger.Messages(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]ViewMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ViewMessage{
			Sender: m.Role,
			Text:   agentText(m),
			Time:   m.DisplayTime(),
		})
	}

	if err := s.ledger.MarkCustomerRead(ctx, customerID); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerView renders the ledger for the customer. Agent rows are
// relabeled as bot: the customer never sees the agent as a distinct
// identity.
func (s *Service) CustomerView(ctx context.Context, customerID string) ([]ViewMessage, error) {
	msgs, err := s.ledger.Messages(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]ViewMessage, 0, len(msgs))
	for _, m := range msgs {
		v := ViewMessage{Sender: m.Role, Time: m.DisplayTime()}
		switch m.Role {
		case RoleAgent:
			v.Sender = RoleBot
			v.Text = m.TranslatedText
		default:
			// Own messages and bot replies, already in the
			// customer's language.
			v.Text = m.OriginalText
		}
		out = append(out, v)
	}
	return out, nil
}

// IngestHistory binds the session to the identity and replays a prior bot
// transcript into the ledger for the agent taking over.
func (s *Service) IngestHistory(ctx context.Context, sessionID string, customerID string, name string, entries []HistoryEntry) error {
	sess := s.sessions.GetOrCreate(sessionID)
	sess.CustomerID = customerID
	sess.CustomerName = name
	sess.ConnectedToAgent = true
	s.sessions.Save(sess)

	mu := s.locks.Get(customerID)
	mu.Lock()
	defer mu.Unlock()

	for _, e := range entries {
		var m Message
		switch e.Sender {
		case RoleCustomer:
			lang := s.detect(ctx, customerID, e.Text)
			s.sessions.SetLanguageForCustomer(customerID, lang)
			m = Message{
				Role:           RoleCustomer,
				OriginalText:   e.Text,
				TranslatedText: s.translate(ctx, e.Text, lang, s.workingLang),
				Lang:           lang,
				RawTime:        e.Time,
			}
		case RoleBot, RoleAgent:
			// Bot lines were produced in the working language;
			// agent lines were typed in it (re-handoff).
			m = Message{
				Role:           e.Sender,
				OriginalText:   e.Text,
				TranslatedText: e.Text,
				Lang:           s.workingLang,
				RawTime:        e.Time,
			}
		default:
			return ErrUnknownRole
		}

		if err := s.ledger.Append(ctx, customerID, m); err != nil {
			return err
		}
	}

	log.Printf("[relay] handoff customer=%s history=%d", customerID, len(entries))
	return nil
}

// ActiveChats summarizes every ledger for the agent dashboard.
func (s *Service) ActiveChats(ctx context.Context) ([]ChatSummary, error) {
	ids, err := s.ledger.CustomerIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ChatSummary, 0, len(ids))
	for _, id := range ids {
		msgs, err := s.ledger.Messages(ctx, id)
		if err != nil {
			return nil, err
		}

		name, ok := s.sessions.NameForCustomer(id)
		if !ok || name == "" {
			name = id
		}

		summary := ChatSummary{
			ID:          id,
			Name:        name,
			Avatar:      "👤",
			LastMessage: "No messages",
		}

		unread := 0
		for _, m := range msgs {
			if m.Role == RoleCustomer && !m.ReadByAgent {
				unread++
			}
		}
		summary.Unread = unread

		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			summary.LastMessage = agentText(last)
			summary.LastTime = last.DisplayTime()
		}

		out = append(out, summary)
	}
	return out, nil
}

// agentText is the agent-view display rule: working-language text for
// customer and bot rows, the agent's own words for agent rows.
func agentText(m Message) string {
	if m.Role == RoleAgent {
		return m.OriginalText
	}
	return m.TranslatedText
}

// detect resolves the language of customer text, falling back to the
// identity's last known language, then the working language. Detection
// failure must not stall the relay.
func (s *Service) detect(ctx context.Context, customerID string, text string) string {
	lang, err := s.translator.DetectLanguage(ctx, text)
	if err == nil && lang != "" {
		return lang
	}

	log.Printf("[relay] detect failed customer=%s: %v", customerID, err)
	if known, ok := s.sessions.LanguageForCustomer(customerID); ok && known != "" {
		return known
	}
	return s.workingLang
}

// translate degrades to the original text on failure; an untranslated
// message beats a stalled conversation.
func (s *Service) translate(ctx context.Context, text string, source string, target string) string {
	if source == target {
		return text
	}

	translated, err := s.translator.Translate(ctx, text, source, target)
	if err != nil || translated == "" {
		log.Printf("[relay] translate %s->%s failed: %v", source, target, err)
		return text
	}
	return translated
}
