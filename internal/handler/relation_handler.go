package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialportfolio/backend/internal/auth"
)

// LikesCountResponse is the like count of one profile.
type LikesCountResponse struct {
	Success    bool `json:"success" example:"true"`
	LikesCount int  `json:"likesCount" example:"3"`
}

// relationAction adapts an engine transition on (caller, :id) to a handler
// that answers with message on success.
func (h *Handler) relationAction(op func(ctx context.Context, currentID, targetID string) error, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentID, _ := auth.UserID(c)
		if err := op(c.Request.Context(), currentID, c.Param("id")); err != nil {
			h.respondError(c, err)
			return
		}
		ok(c, message)
	}
}

// region --- Connections ---

// RequestConnection godoc
// @Summary      Send a connection request
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target user ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Self request, already connected or already requested"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/request/{id} [post]
func (h *Handler) RequestConnection(c *gin.Context) {
	h.relationAction(h.engine.RequestConnection, "Connection request sent")(c)
}

// AcceptConnection godoc
// @Summary      Accept a connection request
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Requester user ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "No such connection request"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/accept/{id} [post]
func (h *Handler) AcceptConnection(c *gin.Context) {
	h.relationAction(h.engine.AcceptConnection, "Connection accepted")(c)
}

// RejectConnection godoc
// @Summary      Reject a connection request
// @Description  Drops a pending incoming request. Succeeds even if there is none.
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Requester user ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/reject/{id} [post]
func (h *Handler) RejectConnection(c *gin.Context) {
	h.relationAction(h.engine.RejectConnection, "Connection request rejected")(c)
}

// CancelRequest godoc
// @Summary      Cancel a sent connection request
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target user ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/cancel/{id} [post]
func (h *Handler) CancelRequest(c *gin.Context) {
	h.relationAction(h.engine.CancelRequest, "Request cancelled")(c)
}

// Disconnect godoc
// @Summary      Remove a connection
// @Tags         connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connected user ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/disconnect/{id} [post]
func (h *Handler) Disconnect(c *gin.Context) {
	h.relationAction(h.engine.Disconnect, "Disconnected")(c)
}

// endregion

// region --- Likes ---

// LikeProfile godoc
// @Summary      Like a profile
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target user ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Own profile or already liked"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /like/{id} [post]
func (h *Handler) LikeProfile(c *gin.Context) {
	h.relationAction(h.engine.LikeProfile, "Profile liked")(c)
}

// UnlikeProfile godoc
// @Summary      Unlike a profile
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Target user ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /unlike/{id} [post]
func (h *Handler) UnlikeProfile(c *gin.Context) {
	h.relationAction(h.engine.UnlikeProfile, "Profile unliked")(c)
}

// GetLikesCount godoc
// @Summary      Get a profile's like count
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  LikesCountResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /likes/{id} [get]
func (h *Handler) GetLikesCount(c *gin.Context) {
	count, err := h.accounts.LikesCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LikesCountResponse{Success: true, LikesCount: count})
}

// endregion
