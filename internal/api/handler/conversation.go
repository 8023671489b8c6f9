package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/api/middleware"
	"github.com/mwidjaja/taskchat/internal/api/response"
	"github.com/mwidjaja/taskchat/internal/domain"
	"github.com/mwidjaja/taskchat/internal/service"
)

// ConversationHandler handles conversation management endpoints
type ConversationHandler struct {
	chatService *service.ChatService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(chatService *service.ChatService) *ConversationHandler {
	return &ConversationHandler{chatService: chatService}
}

func conversationIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "conversationID"))
}

// List handles listing the user's conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	conversations, total, err := h.chatService.ListConversations(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list conversations")
		return
	}

	response.OK(w, map[string]any{
		"conversations": conversations,
		"total":         total,
	})
}

// Get handles fetching a single conversation
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	conversationID, err := conversationIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	conversation, err := h.chatService.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "conversation not found")
			return
		}
		response.InternalError(w, "failed to load conversation")
		return
	}

	response.OK(w, conversation)
}

// Messages handles fetching a conversation's messages
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	conversationID, err := conversationIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	messages, err := h.chatService.GetMessages(r.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "conversation not found")
			return
		}
		response.InternalError(w, "failed to load messages")
		return
	}

	response.OK(w, map[string]any{
		"messages": messages,
	})
}

// Delete handles conversation deletion
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	conversationID, err := conversationIDParam(r)
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	if err := h.chatService.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "conversation not found")
			return
		}
		response.InternalError(w, "failed to delete conversation")
		return
	}

	response.NoContent(w)
}
