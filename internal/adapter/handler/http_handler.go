package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
	"github.com/dmaia/balanco/internal/core/service"
	"github.com/dmaia/balanco/internal/port"
)

type HTTPHandler struct {
	sectors     *service.SectorService
	counts      *service.CountService
	closing     *service.ClosingService
	reconciler  *service.Reconciler
	broadcaster *service.Broadcaster
	products    port.ProductRepository
	identity    port.IdentityProvider
}

func NewHTTPHandler(sectors *service.SectorService, counts *service.CountService,
	closing *service.ClosingService, reconciler *service.Reconciler,
	broadcaster *service.Broadcaster, products port.ProductRepository,
	identity port.IdentityProvider) *HTTPHandler {
	return &HTTPHandler{
		sectors:     sectors,
		counts:      counts,
		closing:     closing,
		reconciler:  reconciler,
		broadcaster: broadcaster,
		products:    products,
		identity:    identity,
	}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("POST /api/sectors/{id}/claim", h.ClaimSector)
	mux.HandleFunc("POST /api/sectors/{id}/release", h.ReleaseSector)
	mux.HandleFunc("POST /api/sectors/{id}/finalize", h.FinalizeSector)
	mux.HandleFunc("POST /api/counts", h.SubmitCount)
	mux.HandleFunc("POST /api/counts/{id}/reconcile", h.ReconcileCount)
	mux.HandleFunc("POST /api/inventories/{id}/close", h.CloseInventory)
	mux.HandleFunc("GET /api/inventories/{id}/closing-status", h.ClosingStatus)
	mux.HandleFunc("GET /api/inventories/{id}/counts/stream", h.StreamCounts)
	mux.HandleFunc("GET /api/inventories/{id}/products", h.ListProducts)
}

type errorBody struct {
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Blockers *domain.Blockers `json:"blockers,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	var blocked *domain.BlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, http.StatusConflict, errorBody{
			Code:     "CLOSING_BLOCKED",
			Message:  blocked.Error(),
			Blockers: &blocked.Blockers,
		})
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrSectorClosed):
		status, code = http.StatusConflict, "SECTOR_CLOSED"
	case errors.Is(err, domain.ErrSectorHeld):
		status, code = http.StatusConflict, "SECTOR_HELD_BY_OTHER"
	case errors.Is(err, domain.ErrAlreadyHolding):
		status, code = http.StatusConflict, "SECTOR_ALREADY_OPEN_ELSEWHERE"
	case errors.Is(err, domain.ErrAlreadyClosed):
		status, code = http.StatusConflict, "ALREADY_CLOSED"
	case errors.Is(err, domain.ErrJustificationRequired):
		status, code = http.StatusUnprocessableEntity, "JUSTIFICATION_REQUIRED"
	case domain.KindOf(err) == domain.KindValidation:
		status, code = http.StatusBadRequest, "VALIDATION"
	case domain.KindOf(err) == domain.KindTransient:
		status, code = http.StatusServiceUnavailable, "TRANSIENT"
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Code != "" {
		code = de.Code
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// caller resolves the operator behind the request. Authentication
// itself lives in front of this service; only the id header reaches us.
func (h *HTTPHandler) caller(r *http.Request) (*domain.Operator, error) {
	id := r.Header.Get("X-Operator-ID")
	if id == "" {
		return nil, domain.Validation("MISSING_OPERATOR", "X-Operator-ID header required")
	}
	op, err := h.identity.Lookup(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.Validation("UNKNOWN_OPERATOR", "operator %s not registered", id)
	}
	return op, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, domain.Validation("INVALID_ID", "invalid id in path")
	}
	return id, nil
}

func (h *HTTPHandler) ClaimSector(w http.ResponseWriter, r *http.Request) {
	op, err := h.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sectorID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.sectors.Claim(r.Context(), sectorID, op.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  result.Sector.Status,
		"heldBy":  result.Sector.HeldBy,
		"warning": result.Warning,
	})
}

func (h *HTTPHandler) ReleaseSector(w http.ResponseWriter, r *http.Request) {
	op, err := h.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sectorID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.sectors.Release(r.Context(), sectorID, op.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

func (h *HTTPHandler) FinalizeSector(w http.ResponseWriter, r *http.Request) {
	if _, err := h.caller(r); err != nil {
		writeError(w, err)
		return
	}
	sectorID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.sectors.Finalize(r.Context(), sectorID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

type submitCountRequest struct {
	SectorID  int64      `json:"sectorId"`
	ProductID int64      `json:"productId"`
	Quantity  int64      `json:"quantity"`
	Batch     string     `json:"batch,omitempty"`
	Expiry    *time.Time `json:"expiry,omitempty"`
}

func (h *HTTPHandler) SubmitCount(w http.ResponseWriter, r *http.Request) {
	op, err := h.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req submitCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validation("INVALID_BODY", "invalid request body"))
		return
	}
	if req.SectorID == 0 || req.ProductID == 0 {
		writeError(w, domain.Validation("MISSING_IDENTIFIERS", "sectorId and productId are required"))
		return
	}

	count, err := h.counts.Submit(r.Context(), domain.CountDraft{
		SectorID:   req.SectorID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Batch:      req.Batch,
		Expiry:     req.Expiry,
		OperatorID: op.ID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, count)
}

func (h *HTTPHandler) ReconcileCount(w http.ResponseWriter, r *http.Request) {
	op, err := h.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !op.Supervisor {
		writeJSON(w, http.StatusForbidden, errorBody{Code: "FORBIDDEN", Message: "supervisor required"})
		return
	}
	if err := h.reconciler.Reconcile(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reconciled"})
}

type closeRequest struct {
	Justification string `json:"justification,omitempty"`
}

func (h *HTTPHandler) CloseInventory(w http.ResponseWriter, r *http.Request) {
	op, err := h.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inventoryID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req closeRequest
	if r.Body != nil {
		// An empty body means no justification, not a malformed request.
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.closing.Close(r.Context(), inventoryID, op.ID, op.Supervisor, req.Justification)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       result.ID,
		"status":   "closed",
		"closedAt": result.ClosedAt,
		"closedBy": result.ClosedBy,
		"bypass":   result.Bypass,
	})
}

func (h *HTTPHandler) ClosingStatus(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	status, err := h.closing.Status(r.Context(), inventoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.products.ListProducts(r.Context(), inventoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// StreamCounts serves the live progress stream as server-sent events.
// The subscription lives exactly as long as the request context: client
// disconnect cancels it and releases the heartbeat timer.
func (h *HTTPHandler) StreamCounts(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	inventoryID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	messages, err := h.broadcaster.Subscribe(ctx, inventoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for msg := range messages {
		payload, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Kind, payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
