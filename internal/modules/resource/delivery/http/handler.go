package handler

import (
	"fmt"
	"net/http"

	resource "anoa.com/folio/internal/modules/resource/service"
	"anoa.com/folio/internal/publication"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResourceHandler struct {
	service resource.ResourceService
}

func NewResourceHandler(service resource.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func listPath(c *gin.Context) string {
	return fmt.Sprintf("/api/profiles/%s/resources/%s", c.Param("username"), c.Param("kind"))
}

func itemPath(c *gin.Context, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", listPath(c), id)
}

func (h *ResourceHandler) Kinds(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Kinds())
}

func (h *ResourceHandler) List(c *gin.Context) {
	resources, err := h.service.List(c.Request.Context(), c.Param("kind"), c.Param("username"), response.IsOwner(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", c.Param("kind"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Get(c.Request.Context(), c.Param("kind"), c.Param("username"), id, response.IsOwner(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), c.Param("kind"), c.Param("username"), form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, itemPath(c, res.ID), res)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", c.Param("kind"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), c.Param("kind"), c.Param("username"), id, form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, itemPath(c, id), res)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", c.Param("kind"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("kind"), c.Param("username"), id); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listPath(c), gin.H{"message": "resource deleted successfully"})
}

// Transition returns a handler applying the publication event.
func (h *ResourceHandler) Transition(event publication.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := response.ParamUUID(c, "id", c.Param("kind"))
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		res, err := h.service.Transition(c.Request.Context(), c.Param("kind"), c.Param("username"), id, event)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
		response.Success(c, http.StatusOK, itemPath(c, id), res)
	}
}

func (h *ResourceHandler) ReorderPosts(c *gin.Context) {
	id, err := response.ParamUUID(c, "id", c.Param("kind"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.ReorderPosts(c.Request.Context(), c.Param("kind"), c.Param("username"), id, form); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, itemPath(c, id), gin.H{"message": "posts reordered successfully"})
}

// Register mounts the resource routes on a group scoped to one profile.
// Reads are public; writes go through requireOwner.
func (h *ResourceHandler) Register(profile *gin.RouterGroup, requireOwner gin.HandlerFunc) {
	resources := profile.Group("/resources/:kind")
	{
		resources.GET("", h.List)
		resources.GET("/:id", h.Get)

		resources.POST("", requireOwner, h.Create)
		resources.PUT("/:id", requireOwner, h.Update)
		resources.DELETE("/:id", requireOwner, h.Delete)
		resources.POST("/:id/publish", requireOwner, h.Transition(publication.Publish))
		resources.POST("/:id/unpublish", requireOwner, h.Transition(publication.Unpublish))
		resources.PUT("/:id/posts/order", requireOwner, h.ReorderPosts)
	}
}
