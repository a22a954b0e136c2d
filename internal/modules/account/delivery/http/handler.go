package handler

import (
	"net/http"

	account "anoa.com/folio/internal/modules/account/service"
	"anoa.com/folio/pkg/response"
	"github.com/gin-gonic/gin"
)

const accountPath = "/api/account"

type AccountHandler struct {
	service account.AccountService
}

func NewAccountHandler(service account.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(c *gin.Context) {
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

	resp, err := h.service.Register(c.Request.Context(), accountID, form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, accountPath, resp)
}

func (h *AccountHandler) Get(c *gin.Context) {
	accountID, err := response.GetAccountID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), accountID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) UpdateEmail(c *gin.Context) {
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

	resp, err := h.service.UpdateEmail(c.Request.Context(), accountID, form)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	response.Success(c, http.StatusOK, accountPath, resp)
}
