package handler

import (
	"net/http"

	profile "anoa.com/folio/internal/modules/profile/service"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service profile.ProfileService
}

func NewProfileHandler(service profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func profilePath(username string) string {
	return "/api/profiles/" + username
}

func (h *ProfileHandler) Create(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), accountID, form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, profilePath(resp.Username), resp)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	resp, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) Mine(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profiles, err := h.service.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	form, err := response.Form(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("username"), form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profilePath(resp.Username), resp)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("username")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "/api/account", gin.H{"message": "profile deleted successfully"})
}
