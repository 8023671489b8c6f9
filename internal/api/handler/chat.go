package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mwidjaja/taskchat/internal/agent"
	"github.com/mwidjaja/taskchat/internal/api/middleware"
	"github.com/mwidjaja/taskchat/internal/api/response"
	"github.com/mwidjaja/taskchat/internal/service"
)

// ChatHandler handles the conversational endpoint
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message        string     `json:"message" validate:"required,max=4000"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
}

// Send handles one chat turn
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input chatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if fields, ok := validationFields(err); ok {
			response.ValidationError(w, "invalid chat request", fields)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.chatService.Send(r.Context(), userID, input.ConversationID, input.Message)
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrUnauthorized):
			response.NotFound(w, "conversation not found or access denied")
		case errors.Is(err, agent.ErrModelUnavailable):
			response.UpstreamError(w, "the assistant is temporarily unavailable, try again later")
		default:
			response.InternalError(w, "failed to process message")
		}
		return
	}

	response.OK(w, result)
}
