package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	"github.com/hleeroa/Autoshop/internal/user"
	"github.com/hleeroa/Autoshop/internal/user/dto"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{uc: uc, logger: log}
}

func (h *UserHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.Register(c.Request.Context(), &input); err != nil {
		switch {
		case errors.Is(err, user.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, user.ErrWeakPassword):
			httpapi.Fail(c, http.StatusOK, err.Error())
		case errors.Is(err, user.ErrEmailTaken):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("registration failed", zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	httpapi.OK(c, nil)
}

type confirmRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.ConfirmEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		switch {
		case errors.Is(err, user.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, user.ErrInvalidToken):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("email confirmation failed", zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "confirmation failed")
		}
		return
	}

	httpapi.OK(c, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	token, err := h.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, user.ErrInvalidCredentials):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("login failed", zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	httpapi.OK(c, gin.H{"token": token})
}

func (h *UserHandler) Details(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	details, err := h.uc.Details(c.Request.Context(), u.ID)
	if err != nil {
		h.logger.Error("failed to load account details", zap.Int64("user_id", u.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to load details")
		return
	}
	httpapi.OK(c, gin.H{"user": details})
}

func (h *UserHandler) UpdateDetails(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	var input dto.UpdateDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.UpdateDetails(c.Request.Context(), u.ID, &input); err != nil {
		switch {
		case errors.Is(err, user.ErrWeakPassword):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("failed to update account details", zap.Int64("user_id", u.ID), zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "failed to update details")
		}
		return
	}

	httpapi.OK(c, nil)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, user.ErrMissingArguments) {
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
			return
		}
		h.logger.Error("password reset request failed", zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "password reset failed")
		return
	}

	httpapi.OK(c, nil)
}

type passwordResetConfirmRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.ResetPassword(c.Request.Context(), req.Email, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, user.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, user.ErrWeakPassword), errors.Is(err, user.ErrInvalidToken):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("password reset failed", zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "password reset failed")
		}
		return
	}

	httpapi.OK(c, nil)
}

func (h *UserHandler) Contacts(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	contacts, err := h.uc.Contacts(c.Request.Context(), u.ID)
	if err != nil {
		h.logger.Error("failed to list contacts", zap.Int64("user_id", u.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	httpapi.OK(c, gin.H{"contacts": contacts})
}

func (h *UserHandler) CreateContact(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	var input dto.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	if err := h.uc.CreateContact(c.Request.Context(), u.ID, &input); err != nil {
		switch {
		case errors.Is(err, user.ErrMissingArguments):
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		case errors.Is(err, user.ErrDuplicateContact):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("failed to create contact", zap.Int64("user_id", u.ID), zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "failed to create contact")
		}
		return
	}

	httpapi.OK(c, nil)
}

type contactUpdateRequest struct {
	ID json.Number `json:"id"`
	dto.ContactUpdateInput
}

func (h *UserHandler) UpdateContact(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	var req contactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	contactID, err := strconv.ParseInt(req.ID.String(), 10, 64)
	if err != nil || contactID <= 0 {
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		return
	}

	if err := h.uc.UpdateContact(c.Request.Context(), u.ID, contactID, &req.ContactUpdateInput); err != nil {
		switch {
		case errors.Is(err, user.ErrContactNotFound):
			httpapi.Fail(c, http.StatusOK, err.Error())
		default:
			h.logger.Error("failed to update contact", zap.Int64("user_id", u.ID), zap.Error(err))
			httpapi.Fail(c, http.StatusInternalServerError, "failed to update contact")
		}
		return
	}

	httpapi.OK(c, nil)
}

type deleteContactsRequest struct {
	Items string `json:"items"`
}

func (h *UserHandler) DeleteContacts(c *gin.Context) {
	u := httpapi.CurrentUser(c)

	var req deleteContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}

	deleted, err := h.uc.DeleteContacts(c.Request.Context(), u.ID, strings.Split(req.Items, ","))
	if err != nil {
		if errors.Is(err, user.ErrMissingArguments) {
			httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
			return
		}
		h.logger.Error("failed to delete contacts", zap.Int64("user_id", u.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to delete contacts")
		return
	}

	httpapi.OK(c, gin.H{"deleted": deleted})
}
