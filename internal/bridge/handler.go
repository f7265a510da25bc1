package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Vovarama1992/support-lingo-bridge/internal/dialogue"
	"github.com/Vovarama1992/support-lingo-bridge/internal/relay"
)

// Sender values accepted on the wire for agent-mode messages.
const (
	senderCustomer = "customer"
	senderAgent    = "agent"
)

type Handler struct {
	dialogue *dialogue.Service
	relay    *relay.Service
	sessions dialogue.Store
}

func NewHandler(d *dialogue.Service, r *relay.Service, sessions dialogue.Store) *Handler {
	return &Handler{dialogue: d, relay: r, sessions: sessions}
}

// HandleChat is the single inbound message endpoint. It dispatches on
// is_agent_chat and sender_type: bot turns go to the dialogue state
// machine, agent-mode turns to the relay write paths.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message     string `json:"message"`
		SessionID   string `json:"session_id"`
		IsAgentChat bool   `json:"is_agent_chat"`
		SenderType  string `json:"sender_type"`
		CustomerID  string `json:"customer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	h.sessions.GetOrCreate(sessionID)

	if payload.Message == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "No message provided",
			"session_id": sessionID,
		})
		return
	}

	if !payload.IsAgentChat {
		reply := h.dialogue.HandleMessage(r.Context(), sessionID, payload.Message)
		respondJSON(w, http.StatusOK, map[string]string{
			"response":   reply,
			"session_id": sessionID,
		})
		return
	}

	switch payload.SenderType {
	case senderCustomer:
		sess, _ := h.sessions.Get(sessionID)
		if sess.CustomerID == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":      "Customer ID missing for agent chat",
				"session_id": sessionID,
			})
			return
		}

		if err := h.relay.SendFromCustomer(r.Context(), sessionID, sess.CustomerID, payload.Message); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":      "failed to store message",
				"session_id": sessionID,
			})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"status":     "Message sent to agent",
			"session_id": sessionID,
		})

	case senderAgent:
		if payload.CustomerID == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":      "Customer ID missing for agent chat",
				"session_id": sessionID,
			})
			return
		}

		if err := h.relay.SendFromAgent(r.Context(), payload.CustomerID, payload.Message); err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":      "failed to store message",
				"session_id": sessionID,
			})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"status":     "Message sent to customer",
			"session_id": sessionID,
		})

	default:
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "Invalid sender type for agent chat",
			"session_id": sessionID,
		})
	}
}

// HandleAgentMessages returns the agent projection of a customer's ledger.
// Fetching marks the customer rows read.
func (h *Handler) HandleAgentMessages(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CustomerID string `json:"customer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.CustomerID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Customer ID required"})
		return
	}

	msgs, err := h.relay.AgentView(r.Context(), payload.CustomerID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load messages"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HandleCustomerMessages resolves the session's bound identity and returns
// the customer projection.
func (h *Handler) HandleCustomerMessages(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.SessionID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Session ID required"})
		return
	}

	sess, ok := h.sessions.Get(payload.SessionID)
	if !ok || sess.CustomerID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Customer ID not found for session"})
		return
	}

	msgs, err := h.relay.CustomerView(r.Context(), sess.CustomerID)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load messages"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HandleInitiate starts a live handoff: binds the session to the identity
// and replays the bot transcript into the ledger.
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID    string               `json:"session_id"`
		CustomerName string               `json:"customer_name"`
		CustomerID   string               `json:"customer_id"`
		ChatHistory  []relay.HistoryEntry `json:"chat_history"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if payload.SessionID == "" || payload.CustomerName == "" || payload.CustomerID == "" || len(payload.ChatHistory) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing data for agent chat initiation"})
		return
	}

	if err := h.relay.IngestHistory(r.Context(), payload.SessionID, payload.CustomerID, payload.CustomerName, payload.ChatHistory); err != nil {
		status := http.StatusInternalServerError
		msg := "failed to transfer history"
		if err == relay.ErrUnknownRole {
			status = http.StatusBadRequest
			msg = err.Error()
		}
		respondJSON(w, status, map[string]string{"error": msg, "session_id": payload.SessionID})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "Agent chat initiated",
		"session_id": payload.SessionID,
	})
}

// HandleActiveChats returns the dashboard summary across all ledgers.
func (h *Handler) HandleActiveChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.relay.ActiveChats(r.Context())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load chats"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
