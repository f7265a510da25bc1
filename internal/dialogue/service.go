package dialogue

import (
	"context"
	"log"
	"strings"

	"github.com/Vovarama1992/support-lingo-bridge/internal/ai"
	"github.com/Vovarama1992/support-lingo-bridge/internal/locks"
)

// Replies the bot emits itself; collaborator answers arrive already in the
// customer's language.
const (
	PromptCustomerID = "I can help with that! Please provide your Customer ID:"
	PromptMonth      = "Thank you. Please enter the transaction month (e.g., 2024-05):"
	ReplyLostTrack   = "I seem to have lost track of our conversation. Please start your query again."
	ReplyNoAnswer    = "I'm sorry, I couldn't find an answer to that."
	ReplyApology     = "I apologize, but I encountered an error. Please try again later."
)

// Service is the dialogue state machine. A customer message either gets a
// semantic answer, enters the two-slot transactional flow, or completes it.
type Service struct {
	store        Store
	translator   ai.Translator
	classifier   ai.Classifier
	answers      ai.AnswerEngine
	orchestrator ai.Orchestrator
	locks        *locks.Keyed
}

func NewService(store Store, tr ai.Translator, cl ai.Classifier, ans ai.AnswerEngine, orch ai.Orchestrator) *Service {
	return &Service{
		store:        store,
		translator:   tr,
		classifier:   cl,
		answers:      ans,
		orchestrator: orch,
		locks:        locks.NewKeyed(),
	}
}

// HandleMessage runs one state machine turn. It never fails outward:
// collaborator errors become an apology reply and a reset to idle, so a
// customer is never stuck mid-flow.
func (s *Service) HandleMessage(ctx context.Context, sessionID string, text string) string {
	mu := s.locks.Get(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess := s.store.GetOrCreate(sessionID)

	// Detect fresh each turn, last detection wins. Short slot replies
	// (a bare ID, a date) go through this too, matching observed
	// behavior of the flow.
	lang, err := s.translator.DetectLanguage(ctx, text)
	if err != nil || lang == "" {
		log.Printf("[svc] detect failed session=%s: %v", sessionID, err)
		lang = sess.CustomerLang
	}
	sess.CustomerLang = lang

	var reply string

	switch {
	case sess.AwaitingCustomerID:
		sess.CustomerID = strings.TrimSpace(text)
		sess.AwaitingCustomerID = false
		sess.AwaitingMonth = true
		reply = PromptMonth

	case sess.AwaitingMonth:
		sess.TransactionMonth = strings.TrimSpace(text)
		sess.AwaitingMonth = false
		reply = s.completeFlow(ctx, &sess)

	default:
		reply = s.handleIdle(ctx, &sess, text)
	}

	s.store.Save(sess)
	return reply
}

func (s *Service) handleIdle(ctx context.Context, sess *Session, text string) string {
	transactional, err := s.classifier.IsTransactional(ctx, text, sess.CustomerLang)
	if err != nil {
		log.Printf("[svc] classify failed session=%s: %v", sess.ID, err)
		resetSlots(sess, true)
		return ReplyApology
	}

	if transactional {
		log.Printf("[svc] transactional intent session=%s", sess.ID)
		resetSlots(sess, true)
		sess.PendingQuery = text
		sess.AwaitingCustomerID = true
		return PromptCustomerID
	}

	answer, err := s.answers.BestAnswer(ctx, text, sess.CustomerLang)
	if err != nil {
		log.Printf("[svc] answer lookup failed session=%s: %v", sess.ID, err)
		resetSlots(sess, true)
		return ReplyApology
	}

	resetSlots(sess, true)
	if answer == "" {
		return ReplyNoAnswer
	}
	return answer
}

func (s *Service) completeFlow(ctx context.Context, sess *Session) string {
	if sess.PendingQuery == "" || sess.CustomerID == "" || sess.TransactionMonth == "" {
		// Context got lost, e.g. a restart wiped part of the session.
		resetSlots(sess, true)
		return ReplyLostTrack
	}

	log.Printf("[svc] orchestrating session=%s customer=%s month=%s",
		sess.ID, sess.CustomerID, sess.TransactionMonth,
	)

	result, err := s.orchestrator.Orchestrate(
		ctx, sess.PendingQuery, sess.CustomerLang, sess.CustomerID, sess.TransactionMonth,
	)
	if err != nil {
		log.Printf("[svc] orchestration failed session=%s: %v", sess.ID, err)
		resetSlots(sess, true)
		return ReplyApology
	}

	// Successful run keeps the customer binding for the ledger.
	resetSlots(sess, false)
	return result
}

// resetSlots returns the session to idle. dropCustomer also severs the
// customer binding (lost context, errors, plain Q&A turns).
func resetSlots(sess *Session, dropCustomer bool) {
	sess.AwaitingCustomerID = false
	sess.AwaitingMonth = false
	sess.PendingQuery = ""
	sess.TransactionMonth = ""
	sess.ConnectedToAgent = false
	if dropCustomer {
		sess.CustomerID = ""
	}
}
