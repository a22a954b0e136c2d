package handler

import (
	"net/http"

	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
)

// ValidateHandler runs the synchronous pass of a registered schema so a form
// can show field errors before it is submitted. Store-backed verifiers only run
// on the real submission.
type ValidateHandler struct {
	engine *validation.Engine
}

func NewValidateHandler(engine *validation.Engine) *ValidateHandler {
	return &ValidateHandler{engine: engine}
}

func (h *ValidateHandler) Validate(c *gin.Context) {
	name := c.Param("schema")
	if _, ok := h.engine.Schema(name); !ok {
		response.ResponseError(c, apperror.NotFound("schema", name))
		return
	}

	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if _, err := h.engine.Validate(c.Request.Context(), name, form, validation.ModeClient); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
