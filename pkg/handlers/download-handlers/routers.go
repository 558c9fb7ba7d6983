/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package download_handlers

import (
	"github.com/gin-gonic/gin"
)

// InitDownloadRouters registers the download API routes with the Gin
// engine.
func InitDownloadRouters(e *gin.Engine, h *Handler) {
	v1 := e.Group("/v1")
	{
		v1.GET("/download/status/:token", h.Status) // Job status by token
		v1.GET("/download/:token", h.Download)      // Stream archive or redirect
	}
	v2 := e.Group("/v2")
	{
		v2.POST("/download/pre/", h.PreDownload)                     // Prepare file/folder download
		v2.POST("/dataset/download/pre", h.PreDatasetDownload)       // Prepare whole-dataset download
		v2.GET("/dataset/download/:token", h.DatasetVersionDownload) // Redirect to dataset version
	}
}
