package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/auth"
)

// region --- DTOs ---

// MeResponse is the caller's own account.
type MeResponse struct {
	Success bool        `json:"success" example:"true"`
	User    *account.Me `json:"user"`
}

// ProfileResponse is a public profile. Relationship is present only for an
// authenticated viewer looking at someone else.
type ProfileResponse struct {
	Success      bool                  `json:"success" example:"true"`
	User         *account.Profile      `json:"user"`
	Relationship *account.Relationship `json:"relationship,omitempty"`
}

// UsersResponse is the public user listing.
type UsersResponse struct {
	Success bool              `json:"success" example:"true"`
	Users   []account.UserRef `json:"users"`
}

// endregion

// region --- Me ---

// GetMe godoc
// @Summary      Get current user's info
// @Description  Returns the caller's account with every relation set resolved to id and username. The password hash is never included.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := auth.UserID(c)

	me, err := h.accounts.Me(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MeResponse{Success: true, User: me})
}

// DeleteMe godoc
// @Summary      Delete my account
// @Description  Removes the caller from every other user's relation sets, then deletes the account. Notifications already delivered to others are kept.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	userID, _ := auth.UserID(c)

	if err := h.engine.PurgeUser(c.Request.Context(), userID); err != nil {
		h.respondError(c, err)
		return
	}
	ok(c, "Account deleted successfully")
}

// endregion

// region --- Public profiles ---

// ListUsers godoc
// @Summary      List users
// @Description  Lists every user, optionally filtered by a case-insensitive substring of the username.
// @Tags         users
// @Produce      json
// @Param        search  query     string  false  "Username substring"
// @Success      200     {object}  UsersResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UsersResponse{Success: true, Users: users})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Returns a public profile with connections and likes. With a valid token the response also says how the caller relates to this user.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ProfileResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")

	profile, err := h.accounts.Profile(ctx, targetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := ProfileResponse{Success: true, User: profile}
	if viewerID, authed := auth.UserID(c); authed && viewerID != targetID {
		// A viewer whose account is gone just gets the anonymous view.
		if rel, err := h.accounts.Relationship(ctx, viewerID, targetID); err == nil {
			resp.Relationship = rel
		}
	}
	c.JSON(http.StatusOK, resp)
}

// endregion
