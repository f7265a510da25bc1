package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/support-lingo-bridge/internal/dialogue"
	"github.com/Vovarama1992/support-lingo-bridge/internal/relay"
)

// fakeAI covers every collaborator port: detects "es", echoes answers,
// classifies nothing as transactional, translates by prefixing the target.
type fakeAI struct{}

func (fakeAI) DetectLanguage(_ context.Context, _ string) (string, error) { return "es", nil }

func (fakeAI) Translate(_ context.Context, text, _, target string) (string, error) {
	return target + ":" + text, nil
}

func (fakeAI) IsTransactional(_ context.Context, _, _ string) (bool, error) { return false, nil }

func (fakeAI) BestAnswer(_ context.Context, _, _ string) (string, error) {
	return "here is your answer", nil
}

func (fakeAI) Orchestrate(_ context.Context, _, _, _, _ string) (string, error) {
	return "done", nil
}

func setup() (*chi.Mux, *dialogue.MemoryStore, *relay.MemoryStore) {
	sessions := dialogue.NewMemoryStore()
	ledger := relay.NewMemoryStore()
	fake := fakeAI{}

	dialogueSvc := dialogue.NewService(sessions, fake, fake, fake, fake)
	relaySvc := relay.NewService(ledger, fake, sessions, "en")

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(dialogueSvc, relaySvc, sessions))
	return r, sessions, ledger
}

func post(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var decoded map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestChatMissingMessage(t *testing.T) {
	r, _, ledger := setup()

	resp, body := post(t, r, "/chat", map[string]any{"session_id": "s1"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body["error"] != "No message provided" {
		t.Fatalf("unexpected error: %v", body["error"])
	}

	ids, _ := ledger.CustomerIDs(context.Background())
	if len(ids) != 0 {
		t.Fatal("validation failure must not mutate the ledger")
	}
}

func TestChatMintsSessionID(t *testing.T) {
	r, _, _ := setup()

	resp, body := post(t, r, "/chat", map[string]any{"message": "hello"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body["session_id"] == "" || body["session_id"] == nil {
		t.Fatal("expected a minted session id")
	}
	if body["response"] != "here is your answer" {
		t.Fatalf("unexpected bot reply: %v", body["response"])
	}
}

func TestChatAgentModeUnboundCustomer(t *testing.T) {
	r, _, _ := setup()

	resp, body := post(t, r, "/chat", map[string]any{
		"message":       "hola",
		"session_id":    "s1",
		"is_agent_chat": true,
		"sender_type":   "customer",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body["error"] != "Customer ID missing for agent chat" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestChatAgentModeInvalidSender(t *testing.T) {
	r, _, _ := setup()

	resp, _ := post(t, r, "/chat", map[string]any{
		"message":       "hola",
		"session_id":    "s1",
		"is_agent_chat": true,
		"sender_type":   "supervisor",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatAgentWithoutTargetCustomer(t *testing.T) {
	r, _, _ := setup()

	resp, _ := post(t, r, "/chat", map[string]any{
		"message":       "hi",
		"session_id":    "s1",
		"is_agent_chat": true,
		"sender_type":   "agent",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCustomerMessagesUnresolvedSession(t *testing.T) {
	r, _, _ := setup()

	resp, body := post(t, r, "/get_customer_messages", map[string]any{"session_id": "ghost"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body["error"] != "Customer ID not found for session" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestInitiateMissingFields(t *testing.T) {
	r, _, _ := setup()

	resp, body := post(t, r, "/initiate_agent_chat", map[string]any{
		"session_id":  "s1",
		"customer_id": "CUST1",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if body["error"] != "Missing data for agent chat initiation" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestHandoffRelayRoundTrip(t *testing.T) {
	r, _, _ := setup()

	// 1. Handoff with the bot transcript.
	resp, body := post(t, r, "/initiate_agent_chat", map[string]any{
		"session_id":    "s1",
		"customer_name": "Alice",
		"customer_id":   "CUST1",
		"chat_history": []map[string]string{
			{"sender": "user", "text": "hola", "time": "10:01"},
			{"sender": "bot", "text": "Hello! How can I help?", "time": "10:02"},
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("initiate: expected 200, got %d", resp.Code)
	}
	if body["status"] != "Agent chat initiated" {
		t.Fatalf("unexpected status: %v", body["status"])
	}

	// 2. Customer keeps talking through the bound session.
	resp, body = post(t, r, "/chat", map[string]any{
		"message":       "necesito ayuda",
		"session_id":    "s1",
		"is_agent_chat": true,
		"sender_type":   "customer",
	})
	if resp.Code != http.StatusOK || body["status"] != "Message sent to agent" {
		t.Fatalf("customer relay failed: %d %v", resp.Code, body)
	}

	// 3. Agent reads, which acknowledges everything so far.
	resp, body = post(t, r, "/get_agent_messages", map[string]any{"customer_id": "CUST1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("agent fetch: expected 200, got %d", resp.Code)
	}
	msgs := body["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 rows in agent view, got %d", len(msgs))
	}
	first := msgs[0].(map[string]any)
	if first["sender"] != "user" || first["text"] != "en:hola" || first["time"] != "10:01" {
		t.Fatalf("unexpected first agent row: %v", first)
	}

	// 4. Agent replies addressing the identity directly.
	resp, body = post(t, r, "/chat", map[string]any{
		"message":       "I can help with that",
		"session_id":    "agent-sess",
		"is_agent_chat": true,
		"sender_type":   "agent",
		"customer_id":   "CUST1",
	})
	if resp.Code != http.StatusOK || body["status"] != "Message sent to customer" {
		t.Fatalf("agent relay failed: %d %v", resp.Code, body)
	}

	// 5. Customer view: agent rows come back as bot, translated.
	resp, body = post(t, r, "/get_customer_messages", map[string]any{"session_id": "s1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("customer fetch: expected 200, got %d", resp.Code)
	}
	msgs = body["messages"].([]any)
	last := msgs[len(msgs)-1].(map[string]any)
	if last["sender"] != "bot" || last["text"] != "es:I can help with that" {
		t.Fatalf("agent reply not relabeled/translated for customer: %v", last)
	}

	// 6. Dashboard: read-marking took effect before the agent reply.
	req := httptest.NewRequest(http.MethodGet, "/get_active_customer_chats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("active chats: expected 200, got %d", rec.Code)
	}

	var dashboard struct {
		Chats []relay.ChatSummary `json:"chats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if len(dashboard.Chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(dashboard.Chats))
	}
	chat := dashboard.Chats[0]
	if chat.ID != "CUST1" || chat.Name != "Alice" || chat.Unread != 0 {
		t.Fatalf("unexpected summary: %+v", chat)
	}
	if chat.LastMessage != "I can help with that" {
		t.Fatalf("unexpected last message: %q", chat.LastMessage)
	}
}
