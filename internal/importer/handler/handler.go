package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"go.uber.org/zap"
)

type PartnerImportHandler struct {
	uc     importer.UseCase
	logger logger.ZapLogger
}

func NewPartnerImportHandler(uc importer.UseCase, log logger.ZapLogger) *PartnerImportHandler {
	return &PartnerImportHandler{uc: uc, logger: log}
}

type updateRequest struct {
	URL string `json:"url"`
}

// Update accepts a price-list URL and dispatches the import to the
// worker. The response carries the job id for polling.
func (h *PartnerImportHandler) Update(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, httpapi.ErrInvalidFormat)
		return
	}
	if req.URL == "" {
		httpapi.Fail(c, http.StatusOK, httpapi.ErrMissingArguments)
		return
	}

	jobID, err := h.uc.Dispatch(c.Request.Context(), req.URL, user.ID)
	if err != nil {
		var verr *importer.ValidationError
		if errors.As(err, &verr) {
			httpapi.Fail(c, http.StatusOK, verr.Error())
			return
		}
		h.logger.Error("failed to dispatch import", zap.Int64("user_id", user.ID), zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to dispatch import")
		return
	}

	httpapi.OK(c, gin.H{"job_id": jobID})
}

// Status reports the state of a dispatched import for its owner.
func (h *PartnerImportHandler) Status(c *gin.Context) {
	user := httpapi.CurrentUser(c)

	job, err := h.uc.JobStatus(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, importer.ErrJobNotFound) {
			httpapi.Fail(c, http.StatusNotFound, "job not found")
			return
		}
		h.logger.Error("failed to load import job", zap.Error(err))
		httpapi.Fail(c, http.StatusInternalServerError, "failed to load import job")
		return
	}

	httpapi.OK(c, gin.H{"job": job})
}
