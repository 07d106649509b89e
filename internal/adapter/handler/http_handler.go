package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/core/service"
	"github.com/rl1809/batch-allocation/internal/port"
)

const etaLayout = "2006-01-02"

type HTTPHandler struct {
	allocationService *service.AllocationService
	validate          *validator.Validate
	log               zerolog.Logger
}

type OrderLineHTTPRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	SKU     string `json:"sku" validate:"required"`
	Qty     int    `json:"qty" validate:"gt=0"`
}

type AddBatchHTTPRequest struct {
	Reference string `json:"reference" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Qty       int    `json:"qty" validate:"gt=0"`
	ETA       string `json:"eta,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type AllocationHTTPResponse struct {
	Success  bool   `json:"success"`
	BatchRef string `json:"batch_ref,omitempty"`
	Message  string `json:"message,omitempty"`
}

func NewHTTPHandler(allocationService *service.AllocationService, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		allocationService: allocationService,
		validate:          validator.New(),
		log:               log,
	}
}

// Register mounts the allocation routes on r.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/api/batches", h.AddBatch)
	r.Post("/api/allocations", h.Allocate)
	r.Delete("/api/allocations", h.Deallocate)
}

func (h *HTTPHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	line, ok := h.decodeOrderLine(w, r)
	if !ok {
		return
	}

	ref, err := h.allocationService.Allocate(r.Context(), line)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		if errors.Is(err, domain.ErrOutOfStock) {
			status = http.StatusConflict
			message = err.Error()
		} else if errors.Is(err, port.ErrAllocationConflict) {
			status = http.StatusConflict
			message = "allocation conflict, retry"
		} else {
			h.log.Error().Err(err).Str("order_id", line.OrderID).Msg("allocate failed")
		}

		writeJSON(w, status, AllocationHTTPResponse{Success: false, Message: message})
		return
	}

	writeJSON(w, http.StatusCreated, AllocationHTTPResponse{Success: true, BatchRef: ref})
}

func (h *HTTPHandler) Deallocate(w http.ResponseWriter, r *http.Request) {
	line, ok := h.decodeOrderLine(w, r)
	if !ok {
		return
	}

	ref, err := h.allocationService.Deallocate(r.Context(), line)
	if err != nil {
		h.log.Error().Err(err).Str("order_id", line.OrderID).Msg("deallocate failed")
		writeJSON(w, http.StatusInternalServerError, AllocationHTTPResponse{Success: false, Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, AllocationHTTPResponse{Success: true, BatchRef: ref})
}

func (h *HTTPHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	var req AddBatchHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AllocationHTTPResponse{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, AllocationHTTPResponse{Success: false, Message: err.Error()})
		return
	}

	var eta *time.Time
	if req.ETA != "" {
		t, err := time.Parse(etaLayout, req.ETA)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, AllocationHTTPResponse{Success: false, Message: "invalid eta"})
			return
		}
		eta = &t
	}

	err := h.allocationService.AddBatch(r.Context(), req.Reference, req.SKU, req.Qty, eta)
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		if errors.Is(err, service.ErrInvalidBatch) {
			status = http.StatusBadRequest
			message = err.Error()
		} else if errors.Is(err, port.ErrBatchExists) {
			status = http.StatusConflict
			message = "batch already exists"
		} else {
			h.log.Error().Err(err).Str("batch_ref", req.Reference).Msg("add batch failed")
		}

		writeJSON(w, status, AllocationHTTPResponse{Success: false, Message: message})
		return
	}

	writeJSON(w, http.StatusCreated, AllocationHTTPResponse{Success: true, BatchRef: req.Reference})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) decodeOrderLine(w http.ResponseWriter, r *http.Request) (domain.OrderLine, bool) {
	var req OrderLineHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AllocationHTTPResponse{Success: false, Message: "invalid request body"})
		return domain.OrderLine{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, AllocationHTTPResponse{Success: false, Message: "missing required fields"})
		return domain.OrderLine{}, false
	}
	return domain.OrderLine{OrderID: req.OrderID, SKU: req.SKU, Qty: req.Qty}, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
