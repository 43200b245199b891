package api

import (
	"net/http"

	"github.com/samber/lo"

	"unimarket/domain/chat"
	"unimarket/services"
)

// messageHistory returns every message the caller sent or received, oldest
// first, in the same envelope shape the websocket delivers.
func (rt *Router) messageHistory(w http.ResponseWriter, r *http.Request) {
	envelopes, err := rt.chat.History(userFrom(r).ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": envelopes})
}

type conversationResponse struct {
	PeerID   string          `json:"peer_id"`
	PeerName string          `json:"peer_name"`
	Messages []chat.Envelope `json:"messages"`
}

// conversations groups the caller's history into per-peer threads.
func (rt *Router) conversations(w http.ResponseWriter, r *http.Request) {
	threads, err := rt.chat.Conversations(userFrom(r).ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"conversations": lo.Map(threads, func(c services.Conversation, _ int) conversationResponse {
		return conversationResponse{PeerID: c.PeerID, PeerName: c.PeerName, Messages: c.Messages}
	})})
}
