/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package download_handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/manager"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// PreDownload handles preparing a file/folder download job.
// POST /v2/download/pre/
func (h *Handler) PreDownload(c *gin.Context) {
	handle(c, h.preDownload)
}

func (h *Handler) preDownload(c *gin.Context) (interface{}, error) {
	var req PreDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewUnprocessableEntity(fmt.Sprintf("invalid request: %v", err))
	}
	itemIDs := make([]string, 0, len(req.Files))
	for _, file := range req.Files {
		itemIDs = append(itemIDs, file.ID)
	}
	result, err := h.manager.PrepareFileOrFolder(credentialed(c), &manager.PrepareRequest{
		ItemIDs:           itemIDs,
		Operator:          req.Operator,
		ContainerCode:     req.ContainerCode,
		ContainerType:     req.ContainerType,
		SessionID:         sessionID(c),
		ApprovalRequestID: req.ApprovalRequestID,
	})
	if err != nil {
		return nil, err
	}
	return result.Record, nil
}

// PreDatasetDownload handles preparing a whole-dataset download job.
// POST /v2/dataset/download/pre
func (h *Handler) PreDatasetDownload(c *gin.Context) {
	handle(c, h.preDatasetDownload)
}

func (h *Handler) preDatasetDownload(c *gin.Context) (interface{}, error) {
	var req DatasetPreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewUnprocessableEntity(fmt.Sprintf("invalid request: %v", err))
	}
	result, err := h.manager.PrepareDataset(credentialed(c), req.DatasetCode, req.Operator, sessionID(c))
	if err != nil {
		return nil, err
	}
	return result.Record, nil
}

// DatasetVersionDownload redirects to the presigned URL of a frozen
// dataset version.
// GET /v2/dataset/download/:token
func (h *Handler) DatasetVersionDownload(c *gin.Context) {
	result, err := h.manager.RetrieveDatasetVersion(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.AbortWithAPIError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, result.RedirectURL)
}
