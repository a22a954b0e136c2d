package handler

import (
	"fmt"
	"net/http"

	postDto "anoa.com/folio/internal/modules/post/dto"
	post "anoa.com/folio/internal/modules/post/service"
	"anoa.com/folio/internal/publication"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func listPath(c *gin.Context) string {
	return fmt.Sprintf("/api/profiles/%s/posts", c.Param("username"))
}

func itemPath(c *gin.Context, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", listPath(c), id)
}

func (h *PostHandler) List(c *gin.Context) {
	var filter postDto.PostFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	posts, err := h.service.List(c.Request.Context(), c.Param("username"), response.IsOwner(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", "post")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), c.Param("username"), id, response.IsOwner(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) Create(c *gin.Context) {
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.Param("username"), form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, itemPath(c, resp.ID), resp)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", "post")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("username"), id, form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, itemPath(c, id), resp)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", "post")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("username"), id); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listPath(c), gin.H{"message": "post deleted successfully"})
}

func (h *PostHandler) Transition(event publication.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := response.ParamUUID(c, "id", "post")
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		resp, err := h.service.Transition(c.Request.Context(), c.Param("username"), id, event)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
		response.Success(c, http.StatusOK, itemPath(c, id), resp)
	}
}

func (h *PostHandler) Register(profile *gin.RouterGroup, requireOwner gin.HandlerFunc) {
	posts := profile.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.Get)

		posts.POST("", requireOwner, h.Create)
		posts.PUT("/:id", requireOwner, h.Update)
		posts.DELETE("/:id", requireOwner, h.Delete)
		posts.POST("/:id/publish", requireOwner, h.Transition(publication.Publish))
		posts.POST("/:id/unpublish", requireOwner, h.Transition(publication.Unpublish))
	}
}
