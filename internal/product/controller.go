package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"edushare/internal/domain"
	"edushare/internal/dto"
	apperrors "edushare/internal/errors"
)

type Controller struct {
	useCase UseCase
	logger  *zap.Logger
}

func NewController(useCase UseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

type listResponse struct {
	Success bool         `json:"success"`
	Data    []ProductDTO `json:"data"`
	Count   int          `json:"count"`
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter, err := parseFilter(r)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	products, err := c.useCase.ListProducts(r.Context(), filter)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, listResponse{Success: true, Data: products, Count: len(products)})
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.productID(w, r, traceID)
	if !ok {
		return
	}

	p, err := c.useCase.GetProduct(r.Context(), id)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: p})
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req SearchProductsRequest
	if !c.decode(w, r, traceID, &req) {
		return
	}

	resp, err := c.useCase.SearchProducts(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: resp})
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req CreateProductRequest
	if !c.decode(w, r, traceID, &req) {
		return
	}

	p, err := c.useCase.CreateProduct(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	logger.Info("product created", zap.Int("productId", p.ID))
	c.writeJSON(w, http.StatusCreated, dto.Envelope{Success: true, Data: p})
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.productID(w, r, traceID)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !c.decode(w, r, traceID, &req) {
		return
	}

	p, err := c.useCase.UpdateProduct(r.Context(), id, req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: p})
}

func (c *Controller) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.productID(w, r, traceID)
	if !ok {
		return
	}

	if err := c.useCase.DeleteProduct(r.Context(), id); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	logger.Info("product deleted", zap.Int("productId", id))
	c.writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Message: "Product deleted successfully"})
}

func parseFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{Category: q.Get("category")}
	var details []apperrors.ValidationDetail

	parsePrice := func(key string) *decimal.Decimal {
		raw := q.Get(key)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: key, Message: key + " must be a number"})
			return nil
		}
		return &d
	}
	filter.MinPrice = parsePrice("minPrice")
	filter.MaxPrice = parsePrice("maxPrice")

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "limit", Message: "limit must be a positive integer"})
		}
		filter.Limit = limit
	}

	if len(details) > 0 {
		return domain.ProductFilter{}, apperrors.NewValidationError("invalid query parameters", details...)
	}
	return filter, nil
}

func (c *Controller) productID(w http.ResponseWriter, r *http.Request, traceID string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product id", []apperrors.ValidationDetail{{
			Field:   "id",
			Message: "id must be a positive integer",
		}})
		return 0, false
	}
	return id, true
}

// decode reads and validates the JSON body into req, writing a 400 on failure.
func (c *Controller) decode(w http.ResponseWriter, r *http.Request, traceID string, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", []apperrors.ValidationDetail{{
			Field:   "body",
			Message: "request body must be valid JSON",
		}})
		return false
	}
	if err := dto.Validate(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details)
		return false
	}
	return true
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	logger.Error("catalog request failed", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func (c *Controller) writeError(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail) {
	c.writeJSON(w, status, dto.ErrorResponse{
		Success: false,
		TraceID: traceID,
		Code:    code,
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
