package api

import (
	"encoding/json"
	"net/http"

	"github.com/estradax/learnway/internal/fault"
	"github.com/estradax/learnway/internal/model"
	"github.com/estradax/learnway/internal/service"
)

type MessagesHandler struct {
	conversations *service.ConversationService
}

func NewMessagesHandler(conversations *service.ConversationService) *MessagesHandler {
	return &MessagesHandler{conversations: conversations}
}

type appendMessageBody struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

func (h *MessagesHandler) Append(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body appendMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fault.New(fault.ValidationFailed, "invalid request body"))
		return
	}

	msg, err := h.conversations.Append(r.Context(), callerID, requestID, body.Content, body.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, msg, http.StatusCreated)
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, err := callerAndRequestID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	messages, err := h.conversations.List(r.Context(), callerID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}

	if messages == nil {
		messages = []*model.ConversationMessage{}
	}

	writeJSON(w, messages, http.StatusOK)
}
