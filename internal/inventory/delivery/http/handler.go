package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/batch-inventory/internal/inventory/domain"
	"github.com/tair/batch-inventory/internal/inventory/usecase/command"
	"github.com/tair/batch-inventory/internal/inventory/usecase/query"
	"github.com/tair/batch-inventory/pkg/logger"
)

const maxBodyBytes = 1 << 20

// InventoryHandler handles HTTP requests for products and batches using CQRS pattern
type InventoryHandler struct {
	// Command handlers
	registerProductHandler *command.RegisterProductHandler
	recordEntryHandler     *command.RecordEntryHandler

	// Query handlers
	getProductHandler  *query.GetProductHandler
	findByNameHandler  *query.FindProductByNameHandler
	listHandler        *query.ListProductsHandler
	getBatchHandler    *query.GetBatchHandler
	listBatchesHandler *query.ListBatchesHandler

	repo    domain.ProductRepository
	metrics *Metrics
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	registerProductHandler *command.RegisterProductHandler,
	recordEntryHandler *command.RecordEntryHandler,
	getProductHandler *query.GetProductHandler,
	findByNameHandler *query.FindProductByNameHandler,
	listHandler *query.ListProductsHandler,
	getBatchHandler *query.GetBatchHandler,
	listBatchesHandler *query.ListBatchesHandler,
	repo domain.ProductRepository,
	metrics *Metrics,
) *InventoryHandler {
	return &InventoryHandler{
		registerProductHandler: registerProductHandler,
		recordEntryHandler:     recordEntryHandler,
		getProductHandler:      getProductHandler,
		findByNameHandler:      findByNameHandler,
		listHandler:            listHandler,
		getBatchHandler:        getBatchHandler,
		listBatchesHandler:     listBatchesHandler,
		repo:                   repo,
		metrics:                metrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics
	router.HandleFunc("/api/products", m.instrument("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products", m.instrument("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id}", m.instrument("/api/products/{id}", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/products/{id}/batches", m.instrument("/api/products/{id}/batches", h.ListBatches)).Methods("GET")
	router.HandleFunc("/api/batches", m.instrument("/api/batches", h.RecordEntry)).Methods("POST")
	router.HandleFunc("/api/batches/{id}", m.instrument("/api/batches/{id}", h.GetBatch)).Methods("GET")
}

// CreateProduct handles POST /api/products. The body is either a JSON
// string holding the name or an object with a name field.
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	name, err := decodeProductName(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	ctx := r.Context()
	product, err := h.registerProductHandler.Handle(ctx, command.RegisterProductCommand{Name: name})
	if err != nil {
		logger.Warn(ctx).Err(err).Str("name", name).Msg("Failed to register product")
		respondError(ctx, w, err)
		return
	}

	_ = h.updateProductsMetric(ctx)

	w.Header().Set("Location", fmt.Sprintf("/api/products/%d", product.ID))
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// RecordEntry handles POST /api/batches
func (h *InventoryHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code           *int   `json:"code"`
		ProductID      *int   `json:"product_id"`
		ProductionDate string `json:"production_date"`
		ExpirationDate string `json:"expiration_date"`
		Quantity       *int   `json:"quantity"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.RecordEntryCommand{
		Code:           req.Code,
		ProductID:      req.ProductID,
		ProductionDate: req.ProductionDate,
		ExpirationDate: req.ExpirationDate,
		Quantity:       req.Quantity,
	}

	ctx := r.Context()
	batch, err := h.recordEntryHandler.Handle(ctx, cmd)
	if err != nil {
		h.metrics.entriesRejected.WithLabelValues(rejectionReason(err)).Inc()
		logger.Warn(ctx).Err(err).Msg("Batch entry rejected")
		respondError(ctx, w, err)
		return
	}

	h.metrics.batchesRecorded.Inc()
	h.metrics.unitsReceived.Add(float64(batch.Quantity))

	w.Header().Set("Location", fmt.Sprintf("/api/batches/%d", batch.ID))
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Batch recorded successfully",
		Data: map[string]interface{}{
			"batch":   batch,
			"product": batch.Product,
		},
	})
}

// ListProducts handles GET /api/products. With a name parameter it returns
// the single product carrying that exact name.
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if name := r.URL.Query().Get("name"); name != "" {
		product, err := h.findByNameHandler.Handle(ctx, query.FindProductByNameQuery{Name: name})
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    product,
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.listHandler.Handle(ctx, query.ListProductsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	count, _ := h.repo.Count(ctx)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"products": products,
			"total":    count,
			"limit":    limit,
			"offset":   offset,
		},
	})
}

// GetProduct handles GET /api/products/{id}
func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid product ID")
	if !ok {
		return
	}

	ctx := r.Context()
	product, err := h.getProductHandler.Handle(ctx, query.GetProductQuery{ID: id})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// ListBatches handles GET /api/products/{id}/batches
func (h *InventoryHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid product ID")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	ctx := r.Context()
	batches, err := h.listBatchesHandler.Handle(ctx, query.ListBatchesQuery{
		ProductID: id,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    batches,
	})
}

// GetBatch handles GET /api/batches/{id}
func (h *InventoryHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid batch ID")
	if !ok {
		return
	}

	ctx := r.Context()
	batch, err := h.getBatchHandler.Handle(ctx, query.GetBatchQuery{ID: id})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    batch,
	})
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// SeedMetrics loads gauges that otherwise only move on writes, so a fresh
// process reports existing products before the first registration.
func (h *InventoryHandler) SeedMetrics(ctx context.Context) error {
	return h.updateProductsMetric(ctx)
}

// updateProductsMetric updates the total products gauge
func (h *InventoryHandler) updateProductsMetric(ctx context.Context) error {
	count, err := h.repo.Count(ctx)
	if err != nil {
		return err
	}
	h.metrics.totalProducts.Set(float64(count))
	return nil
}

func decodeProductName(body io.Reader) (string, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return "", err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return "", err
		}
		return req.Name, nil
	}

	// A JSON null leaves name empty and is rejected by the command.
	var name string
	if err := json.Unmarshal(trimmed, &name); err != nil {
		return "", err
	}
	return name, nil
}

func pathID(w http.ResponseWriter, r *http.Request, message string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   message,
		})
		return 0, false
	}
	return uint(id), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBusinessRule):
		return "business_rule"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

// respondError maps a domain error onto its HTTP status. Unexpected errors
// are logged and their message withheld.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(ctx).Err(err).Msg("Unexpected error")
		message = "Internal server error"
	}
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
