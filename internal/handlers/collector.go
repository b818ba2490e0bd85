package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/pringinacio/ivxv/api/v1"
	"github.com/pringinacio/ivxv/internal/models"
	"github.com/pringinacio/ivxv/internal/services"
)

// GetCollectorStatus returns the collector state and service counts
// (GET /collector)
func (h *Handler) GetCollectorStatus(c *gin.Context) {
	status, err := h.statusSrv.GetStatus(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	var resp v1.CollectorStatus
	resp.FromModel(status)
	c.JSON(http.StatusOK, resp)
}

// ListServices returns non-removed services, optionally of one type
// (GET /services)
func (h *Handler) ListServices(c *gin.Context, params v1.ListServicesParams) {
	var types []models.ServiceType
	if params.Type != nil {
		t, err := models.ParseServiceType(*params.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid service type"})
			return
		}
		types = append(types, t)
	}

	list, err := h.statusSrv.ListServices(c.Request.Context(), types...)
	if err != nil {
		h.fail(c, err)
		return
	}

	var resp v1.ServiceList
	resp.FromModel(list)
	c.JSON(http.StatusOK, resp)
}

// GetService returns one service record
// (GET /services/:id)
func (h *Handler) GetService(c *gin.Context, id string) {
	svc, err := h.statusSrv.GetService(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	var resp v1.Service
	resp.FromModel(svc)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownService):
		c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
	case errors.Is(err, models.ErrInconsistentState):
		zap.S().Named("handlers").Errorw("inconsistent collector state", "error", err)
		c.JSON(http.StatusConflict, v1.Error{Error: err.Error()})
	default:
		zap.S().Named("handlers").Errorw("failed to read collector state", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to read collector state"})
	}
}
