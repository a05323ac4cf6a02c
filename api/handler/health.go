package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/personalmgr/backend/api/transport"
	"github.com/personalmgr/backend/internal/infrastructure/monitor"
	"github.com/personalmgr/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor     *monitor.Monitor
	environment string
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger, environment string) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		environment: environment,
	}
}

// @Summary API status
// @Tags health
// @Router / [get]
func (h *HealthHandler) Root(ctx *fasthttp.RequestCtx) {
	status := "online"
	if !h.monitor.IsOnline() {
		status = "degraded"
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"status":      status,
		"environment": h.environment,
	})
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"mongodb":     status.MongoDB,
			"redis":       status.Redis,
			"token_store": status.TokenStore,
		},
	}

	if status.MongoDB && status.Redis {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
