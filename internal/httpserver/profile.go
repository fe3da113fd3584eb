package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-api/internal/domain"
	profilerepo "storefront-api/internal/repository/profile"
	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
}

func getProfileHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), currentUserID(c))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProfileHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if req.Username == nil && req.Phone == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		p, err := repo.Update(c.Request.Context(), currentUserID(c), profilerepo.UpdateInput{
			Username: req.Username,
			Phone:    req.Phone,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func notificationsHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := repo.ListNotifications(c.Request.Context(), currentUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load notifications"})
			return
		}
		if notifications == nil {
			notifications = []domain.Notification{}
		}
		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}

func markNotificationHandler(repo profilerepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}

		if err := repo.MarkNotificationRead(c.Request.Context(), currentUserID(c), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update notification"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
