// Package handler exposes the account, relation and notification operations
// over HTTP.
package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"socialportfolio/backend/internal/account"
	"socialportfolio/backend/internal/apperror"
	"socialportfolio/backend/internal/social"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	accounts *account.Service
	engine   *social.Engine
	feed     *social.Feed
	logger   *log.Logger
}

// New creates a Handler. A nil logger discards output.
func New(accounts *account.Service, engine *social.Engine, feed *social.Feed, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{accounts: accounts, engine: engine, feed: feed, logger: logger}
}

// region --- DTOs ---

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"User not found"`
}

// MessageResponse is the body of a successful state change.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Connection request sent"`
}

// endregion

// region --- Middleware ---

// RequestID tags every request with an id, reusing the caller's X-Request-ID
// when present, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// endregion

// region --- Helpers ---

func ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: message})
}

// respondError writes err using its apperror kind. Anything unclassified is
// logged and reported as a generic server error.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr, classified := apperror.As(err)
	if !classified || appErr.Kind == apperror.KindInternal {
		h.logger.Printf("request %s: %s %s: %v", c.GetString(requestIDKey), c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error"})
		return
	}
	c.JSON(apperror.HTTPStatus(appErr), ErrorResponse{Message: appErr.Message})
}

// bindError classifies a ShouldBindJSON failure. Missing required fields get
// the account message; malformed bodies get a generic one.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return account.ErrMissingFields
	}
	return apperror.Validation("Invalid request body").Wrap(err)
}

// endregion
