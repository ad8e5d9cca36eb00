package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/auth"
	"socialportfolio/backend/internal/models"
	"socialportfolio/backend/internal/social"
)

// region --- DTOs ---

// NotificationResponse is one feed entry. From is null once the source
// account has been deleted.
type NotificationResponse struct {
	ID        string                  `json:"_id"`
	Type      models.NotificationKind `json:"type" example:"like"`
	From      *account.UserRef        `json:"from"`
	Message   string                  `json:"message" example:"liked your profile"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NotificationsResponse is the caller's feed, newest first.
type NotificationsResponse struct {
	Success       bool                   `json:"success" example:"true"`
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount" example:"1"`
}

// UnreadCountResponse is the unread badge.
type UnreadCountResponse struct {
	Success     bool `json:"success" example:"true"`
	UnreadCount int  `json:"unreadCount" example:"1"`
}

// endregion

// GetNotifications godoc
// @Summary      Get my notifications
// @Description  Returns the caller's feed, newest first, with each source resolved to id and username.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  NotificationsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := auth.UserID(c)

	entries, err := h.feed.ListFor(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sources := social.NewIDSet()
	for _, n := range entries {
		sources.Add(n.SourceID)
	}
	names, err := h.accounts.Usernames(ctx, sources.Slice())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := NotificationsResponse{Success: true, Notifications: make([]NotificationResponse, len(entries))}
	for i, n := range entries {
		resp.Notifications[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Kind,
			Message:   n.Message,
			IsRead:    n.Read,
			CreatedAt: n.CreatedAt,
		}
		if name, found := names[n.SourceID]; found {
			resp.Notifications[i].From = &account.UserRef{ID: n.SourceID, Username: name}
		}
		if !n.Read {
			resp.UnreadCount++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetUnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UnreadCountResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, _ := auth.UserID(c)

	count, err := h.feed.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Success: true, UnreadCount: count})
}

// MarkNotificationsRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications/read [post]
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	userID, _ := auth.UserID(c)

	if err := h.feed.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, "")
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Description  Removes one of the caller's entries. Unknown ids are ignored.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	userID, _ := auth.UserID(c)

	if err := h.feed.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, "Notification deleted")
}
