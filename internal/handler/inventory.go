package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/itsupport/helpdesk-api/internal/model"
	"github.com/itsupport/helpdesk-api/internal/repo"
	"github.com/itsupport/helpdesk-api/internal/service"
	"github.com/itsupport/helpdesk-api/pkg/respond"
)

type InventoryHandler struct {
	service *service.InventoryService
	logger  *zap.Logger
}

func NewInventoryHandler(srv *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, items)
}

func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.NewItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, item)
}

func (h *InventoryHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	tr, err := h.service.RecordTransaction(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, tr)
}

func (h *InventoryHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "Item not found")
	case errors.Is(err, repo.ErrorInsufficientStock):
		respond.Error(w, r, http.StatusBadRequest, "Insufficient stock")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, "Missing required fields")
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
