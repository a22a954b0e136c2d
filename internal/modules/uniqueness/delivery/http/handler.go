package handler

import (
	"context"
	"log"
	"net/http"
	"strings"

	uniqueness "anoa.com/folio/internal/modules/uniqueness/service"
	validatorPkg "anoa.com/folio/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CheckHandler serves the pre-submission availability lookups. Both endpoints
// answer {"taken": false} for malformed input or store failures so a form is
// never blocked by the check itself.
type CheckHandler struct {
	service  uniqueness.UniquenessService
	validate *validator.Validate
}

func NewCheckHandler(service uniqueness.UniquenessService, validate *validator.Validate) *CheckHandler {
	return &CheckHandler{service: service, validate: validate}
}

func (h *CheckHandler) Username(c *gin.Context) {
	h.respond(c, strings.TrimSpace(c.Query("value")), validatorPkg.UsernameRules, h.service.IsUsernameAvailable)
}

func (h *CheckHandler) Email(c *gin.Context) {
	h.respond(c, strings.ToLower(strings.TrimSpace(c.Query("value"))), validatorPkg.EmailRules, h.service.IsEmailAvailable)
}

func (h *CheckHandler) respond(c *gin.Context, value, rules string, available func(context.Context, string) (bool, error)) {
	if value == "" || h.validate.Var(value, rules) != nil {
		c.JSON(http.StatusOK, gin.H{"taken": false})
		return
	}

	ok, err := available(c.Request.Context(), value)
	if err != nil {
		log.Printf("[check] lookup of %q failed: %v", value, err)
		c.JSON(http.StatusOK, gin.H{"taken": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"taken": !ok})
}
