/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PilotDataPlatform/download/pkg/activity"
	"github.com/PilotDataPlatform/download/pkg/approval"
	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	download_handlers "github.com/PilotDataPlatform/download/pkg/handlers/download-handlers"
	health_handlers "github.com/PilotDataPlatform/download/pkg/handlers/health-handlers"
	"github.com/PilotDataPlatform/download/pkg/jobstore"
	"github.com/PilotDataPlatform/download/pkg/lock"
	"github.com/PilotDataPlatform/download/pkg/manager"
	"github.com/PilotDataPlatform/download/pkg/metadata"
	"github.com/PilotDataPlatform/download/pkg/objectstore"
	"github.com/PilotDataPlatform/download/pkg/token"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// Clients bundles the long-lived clients the handlers share; the server
// owns their shutdown.
type Clients struct {
	Jobs     *jobstore.Client
	Approval *approval.Client
	Producer *activity.Producer
	Internal *objectstore.Client
	Public   *objectstore.Client
}

// InitHttpHandlers creates the Gin engine, constructs the service
// clients and registers all routes.
func InitHttpHandlers(_ context.Context) (*gin.Engine, *Clients, error) {
	engine := gin.New()
	engine.Use(utils.Logger(), gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		utils.AbortWithAPIError(c, errors.NewBadRequest(c.Request.RequestURI+" not found"))
	})

	jobs := jobstore.NewClient()
	internal, err := objectstore.NewInternalClient()
	if err != nil {
		return nil, nil, err
	}
	public, err := objectstore.NewPublicClient()
	if err != nil {
		return nil, nil, err
	}
	approvalClient, err := approval.NewClient()
	if err != nil {
		return nil, nil, err
	}
	producer := activity.NewProducer()

	mgr := manager.New(manager.Deps{
		Codec: token.NewCodec(commonconfig.GetDownloadSecret(),
			time.Duration(commonconfig.GetTokenExpireSecond())*time.Second),
		Jobs:          jobs,
		Locks:         lock.NewClient(),
		Meta:          metadata.NewClient(),
		Containers:    metadata.NewContainerClient(),
		Internal:      internal,
		Public:        public,
		Approvals:     approvalClient,
		Activity:      producer,
		ScratchRoot:   commonconfig.GetScratchPath(),
		PresignExpire: time.Duration(commonconfig.GetPresignExpireSecond()) * time.Second,
	})
	download_handlers.InitDownloadRouters(engine, download_handlers.NewHandler(mgr))

	health_handlers.InitHealthRouters(engine, health_handlers.NewHandler(map[string]health_handlers.Probe{
		"redis":    jobs.Ping,
		"minio":    internal.Healthy,
		"postgres": approvalClient.Ping,
		"kafka":    producer.Healthy,
	}))

	clients := &Clients{
		Jobs:     jobs,
		Approval: approvalClient,
		Producer: producer,
		Internal: internal,
		Public:   public,
	}
	return engine, clients, nil
}
