package handler

import (
	"fmt"
	"net/http"

	tag "anoa.com/folio/internal/modules/tag/service"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	service tag.TagService
}

func NewTagHandler(service tag.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context(), c.Param("username"), response.IsOwner(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Reorder(c *gin.Context) {
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Reorder(c.Request.Context(), c.Param("username"), form); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("/api/profiles/%s/tags", c.Param("username")), gin.H{"message": "tags reordered successfully"})
}

func (h *TagHandler) Register(profile *gin.RouterGroup, requireOwner gin.HandlerFunc) {
	tags := profile.Group("/tags")
	{
		tags.GET("", h.List)
		tags.PUT("/order", requireOwner, h.Reorder)
	}
}
