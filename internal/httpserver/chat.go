package httpserver

import (
	"io"
	"net/http"

	"storefront-api/internal/domain"
	chatsvc "storefront-api/internal/service/chat"
	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func conversationsHandler(svc *chatsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversations, err := svc.Conversations(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load conversations"})
			return
		}
		if conversations == nil {
			conversations = []domain.Conversation{}
		}
		c.JSON(http.StatusOK, gin.H{"conversations": conversations})
	}
}

func messageHistoryHandler(svc *chatsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := svc.History(c.Request.Context(), currentUserID(c), c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
			return
		}
		if messages == nil {
			messages = []domain.Message{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

func sendMessageHandler(svc *chatsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content required"})
			return
		}

		m, err := svc.Send(c.Request.Context(), currentUserID(c), c.Param("userId"), req.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// chatStreamHandler streams thread messages as server-sent events. The
// client replaces its optimistic pending message when a streamed row matches
// by sender and content.
func chatStreamHandler(hub *chatsvc.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ch := hub.Subscribe(currentUserID(c), c.Param("userId"))
		defer hub.Unsubscribe(id)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case m, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("message", m)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
