package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/cache"
	"github.com/jyotish-back/internal/chart"
	"github.com/jyotish-back/internal/messaging"
	"github.com/jyotish-back/pkg/config"
	"github.com/jyotish-back/pkg/models"
)

// ChartHandler handles natal chart API requests
type ChartHandler struct {
	calc      *chart.Calculator
	cache     *cache.RedisClient
	nats      *messaging.NATSClient
	messaging *config.MessagingConfig
	logger    *logrus.Entry
}

// NewChartHandler creates a new chart handler. cache and nats may be nil;
// the handler then computes every request directly and publishes nothing.
func NewChartHandler(
	calc *chart.Calculator,
	redisCache *cache.RedisClient,
	nats *messaging.NATSClient,
	messagingCfg *config.MessagingConfig,
	logger *logrus.Logger,
) *ChartHandler {
	return &ChartHandler{
		calc:      calc,
		cache:     redisCache,
		nats:      nats,
		messaging: messagingCfg,
		logger:    logger.WithField("component", "chart-api"),
	}
}

// RegisterRoutes registers chart routes
func (h *ChartHandler) RegisterRoutes(router *mux.Router) {
	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/chart", h.ComputeChart).Methods("POST")
}

// ComputeChart handles POST /api/v1/chart
func (h *ChartHandler) ComputeChart(w http.ResponseWriter, r *http.Request) {
	var req models.ChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DatetimeISO == "" {
		h.writeError(w, http.StatusBadRequest, "datetime_iso is required")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		h.writeError(w, http.StatusBadRequest, "latitude out of range")
		return
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		h.writeError(w, http.StatusBadRequest, "longitude out of range")
		return
	}

	if h.cache != nil {
		if cached, err := h.cache.GetChart(r.Context(), &req); err == nil && cached != nil {
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	resp, err := h.calc.Compute(&req)
	if err != nil {
		h.logger.WithError(err).Warn("Chart computation rejected")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.cache != nil {
		if err := h.cache.SetChart(r.Context(), &req, resp); err != nil {
			h.logger.WithError(err).Warn("Failed to cache chart response")
		}
	}

	if h.nats != nil && h.messaging != nil && h.messaging.Enabled {
		if err := h.nats.PublishChartComputed(&req, resp); err != nil {
			h.logger.WithError(err).Warn("Failed to publish chart event")
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *ChartHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *ChartHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
