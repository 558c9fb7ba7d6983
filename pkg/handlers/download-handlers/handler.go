/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package download_handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PilotDataPlatform/download/pkg/manager"
	"github.com/PilotDataPlatform/download/pkg/models"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// sessionCookie is where web callers carry their session id; API callers
// may send the header instead.
const (
	sessionCookie = "sessionId"
	sessionHeader = "Session-ID"
)

// Manager is the download orchestration surface the handlers call into.
type Manager interface {
	PrepareFileOrFolder(ctx context.Context, req *manager.PrepareRequest) (*manager.PrepareResult, error)
	PrepareDataset(ctx context.Context, code, operator, sessionID string) (*manager.PrepareResult, error)
	Status(ctx context.Context, token string) (*models.JobRecord, error)
	Retrieve(ctx context.Context, token string) (*manager.RetrieveResult, error)
	RetrieveDatasetVersion(ctx context.Context, token string) (*manager.RetrieveResult, error)
}

type Handler struct {
	manager Manager
}

func NewHandler(m Manager) *Handler {
	return &Handler{manager: m}
}

type handleFunc func(*gin.Context) (interface{}, error)

// handle executes the handler function and wraps the outcome into the
// response envelope.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		utils.AbortWithAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.OKResponse(response))
}

// sessionID reads the caller's session from cookie or header.
func sessionID(c *gin.Context) string {
	if session, err := c.Cookie(sessionCookie); err == nil && session != "" {
		return session
	}
	return c.GetHeader(sessionHeader)
}

// credentialed attaches the caller's bearer tokens to the request
// context so outbound service calls forward them untouched.
func credentialed(c *gin.Context) context.Context {
	return utils.WithCredentials(c.Request.Context(), utils.Credentials{
		Authorization: c.GetHeader("Authorization"),
		RefreshToken:  c.GetHeader("Refresh-Token"),
	})
}
