package response

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"anoa.com/folio/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the auth middleware.
const (
	AccountIDKey = "account_id"
	OwnerKey     = "owner"
)

// GetAccountID retrieves the authenticated account ID from the context
func GetAccountID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(AccountIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	accountID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return accountID, nil
}

// IsOwner reports whether the caller owns the profile named in the route.
func IsOwner(c *gin.Context) bool {
	return c.GetBool(OwnerKey)
}

// Success writes body with status and points the client at location.
func Success(c *gin.Context, status int, location string, body any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(status, body)
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(code, gin.H{"errors": validationErr.Fields})
		return
	}

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// Form parses the urlencoded request body.
func Form(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, apperror.New(http.StatusBadRequest, "invalid form body", apperror.ErrBadRequest)
	}
	return c.Request.PostForm, nil
}

// ParamUUID parses the named path parameter as a UUID. Malformed ids are
// reported as not found.
func ParamUUID(c *gin.Context, name, kind string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(kind, raw)
	}
	return id, nil
}
