/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package health_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/PilotDataPlatform/download/pkg/models"
)

const probeTimeout = 5 * time.Second

// Probe checks one dependency. A nil return means reachable.
type Probe func(ctx context.Context) error

type Handler struct {
	probes map[string]Probe
}

// NewHandler builds the health handler over named dependency probes.
func NewHandler(probes map[string]Probe) *Handler {
	return &Handler{probes: probes}
}

// InitHealthRouters registers the health route with the Gin engine.
func InitHealthRouters(e *gin.Engine, h *Handler) {
	e.GET("/v1/health", h.Health)
}

// Health answers 204 when every dependency is reachable, 503 with a
// per-dependency detail map otherwise.
// GET /v1/health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	detail := make(map[string]string, len(h.probes))
	healthy := true
	for name, probe := range h.probes {
		if err := probe(ctx); err != nil {
			healthy = false
			detail[name] = err.Error()
			klog.ErrorS(err, "health probe failed", "dependency", name)
		} else {
			detail[name] = "ok"
		}
	}
	if healthy {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusServiceUnavailable, models.APIResponse{
		Code:     http.StatusServiceUnavailable,
		Result:   detail,
		ErrorMsg: "service unhealthy",
	})
}
