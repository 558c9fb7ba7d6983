/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package download_handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PilotDataPlatform/download/pkg/utils"
)

// Status handles looking up a download job by its token.
// GET /v1/download/status/:token
func (h *Handler) Status(c *gin.Context) {
	handle(c, h.status)
}

func (h *Handler) status(c *gin.Context) (interface{}, error) {
	record, err := h.manager.Status(c.Request.Context(), c.Param("token"))
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Download streams the staged archive, or redirects to the presigned
// URL when the job took the single-file shortcut.
// GET /v1/download/:token
func (h *Handler) Download(c *gin.Context) {
	result, err := h.manager.Retrieve(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.AbortWithAPIError(c, err)
		return
	}
	if result.RedirectURL != "" {
		c.Redirect(http.StatusTemporaryRedirect, result.RedirectURL)
		return
	}
	c.FileAttachment(result.FilePath, result.FileName)
}
