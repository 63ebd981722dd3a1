package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/middleware"
	"github.com/pushp314/devconnect-chat/internal/services"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ListUsers GET /chat/users
func (h *ChatHandler) ListUsers(c *gin.Context) {
	users, err := h.chat.ListUsers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ShowConversation GET /chat/:counterpartId
func (h *ChatHandler) ShowConversation(c *gin.Context) {
	conv, err := h.chat.Conversation(c.Request.Context(), middleware.UserID(c), c.Param("counterpartId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// userRef accepts the receiver id as a JSON string or number; older
// clients send numeric ids.
type userRef string

func (u *userRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = userRef(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = userRef(n.String())
	return nil
}

type SendMessageInput struct {
	Message string  `json:"message"`
	ID      userRef `json:"id"`
}

// SendMessage POST /messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Validation("invalid request body"))
		return
	}

	if _, err := h.chat.Send(c.Request.Context(), middleware.UserID(c), string(input.ID), input.Message); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully"})
}
