package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CredentialsInput is the body of signup and login.
type CredentialsInput struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// SignupResponse confirms a new account.
type SignupResponse struct {
	Success  bool   `json:"success" example:"true"`
	Username string `json:"username" example:"alice"`
	Message  string `json:"message" example:"User registered successfully"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token"`
}

// endregion

// Signup godoc
// @Summary      Register a new user
// @Description  Creates an account. Usernames are unique after trimming and Unicode normalization.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Credentials"
// @Success      201  {object}  SignupResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		Success:  true,
		Username: user.Username,
		Message:  "User registered successfully",
	})
}

// Login godoc
// @Summary      Log in a user
// @Description  Verifies the credentials and returns a bearer token valid for seven days.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Credentials"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}
