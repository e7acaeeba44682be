package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/vendsight/internal/domain"
	"github.com/andresuchdata/vendsight/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type VendingHandler struct {
	dashboard *service.DashboardService
}

func NewVendingHandler(dashboard *service.DashboardService) *VendingHandler {
	return &VendingHandler{dashboard: dashboard}
}

// GetSelectors returns the dropdown entries, ALL MACHINES first.
func (h *VendingHandler) GetSelectors(c *gin.Context) {
	selectors, err := h.dashboard.ListSelectors()
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"selectors": selectors})
}

// GetOverallView returns the ALL rollup view.
func (h *VendingHandler) GetOverallView(c *gin.Context) {
	view, err := h.dashboard.GetOverallView(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetMachineView returns the single-machine view for the path selector.
func (h *VendingHandler) GetMachineView(c *gin.Context) {
	selector := strings.TrimSpace(c.Param("selector"))

	view, err := h.dashboard.GetMachineView(c.Request.Context(), selector)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetOrders returns the order table, optionally filtered by ?selector=.
func (h *VendingHandler) GetOrders(c *gin.Context) {
	selector := strings.TrimSpace(c.Query("selector"))

	orders, err := h.dashboard.Orders(selector)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// Reload rebuilds the snapshot from the configured input source. The old
// snapshot keeps serving until the new one is fully built.
func (h *VendingHandler) Reload(c *gin.Context) {
	if err := h.dashboard.Reload(c.Request.Context()); err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) || errors.Is(err, domain.ErrEmptyInput) {
			h.abort(c, http.StatusUnprocessableEntity, err)
			return
		}
		h.abort(c, http.StatusInternalServerError, err)
		return
	}

	snap, err := h.dashboard.Snapshot()
	if err != nil {
		h.abort(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": len(snap.Records),
		"orders":  len(snap.Orders),
	})
}

func (h *VendingHandler) renderError(c *gin.Context, err error) {
	var unknown *domain.UnknownSelectorError
	switch {
	case errors.As(err, &unknown):
		h.abort(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrNotLoaded):
		h.abort(c, http.StatusServiceUnavailable, err)
	default:
		h.abort(c, http.StatusInternalServerError, err)
	}
}

func (h *VendingHandler) abort(c *gin.Context, status int, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("vending request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}
