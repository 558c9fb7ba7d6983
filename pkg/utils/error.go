/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/models"
)

// AbortWithAPIError terminates the request with the error mapped onto
// the response envelope.
func AbortWithAPIError(c *gin.Context, err error) {
	status := errors.HTTPStatusForError(err)
	c.AbortWithStatusJSON(status, models.APIResponse{
		Code:     status,
		ErrorMsg: err.Error(),
	})
}

// OKResponse wraps a successful result into the response envelope.
func OKResponse(result interface{}) *models.APIResponse {
	return &models.APIResponse{Code: http.StatusOK, Result: result}
}
