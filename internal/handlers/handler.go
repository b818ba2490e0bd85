package handlers

import (
	"github.com/pringinacio/ivxv/internal/services"
)

// Handler serves the diagnostics API.
type Handler struct {
	statusSrv *services.StatusService
}

func New(statusSrv *services.StatusService) *Handler {
	return &Handler{statusSrv: statusSrv}
}
