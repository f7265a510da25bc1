package bridge

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.HandleChat)
	r.Post("/get_agent_messages", h.HandleAgentMessages)
	r.Post("/get_customer_messages", h.HandleCustomerMessages)
	r.Post("/initiate_agent_chat", h.HandleInitiate)
	r.Get("/get_active_customer_chats", h.HandleActiveChats)
}
