/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/handlers"
	commonklog "github.com/PilotDataPlatform/download/pkg/klog"
	"github.com/PilotDataPlatform/download/pkg/options"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	opts       *options.Options
	httpServer *http.Server
	clients    *handlers.Clients
	ctx        context.Context
	isInited   bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s := &Server{
		opts: &options.Options{},
		ctx:  ctx,
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// init performs flag parsing, logging initialization and configuration
// loading, then marks the server as initialized.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = commonklog.Init(s.opts.LogfilePath, s.opts.LogFileSize); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	s.isInited = true
	return nil
}

// Start runs the HTTP server and blocks until a stop signal arrives,
// then shuts everything down.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init the server first")
		return
	}

	klog.Infof("starting download service")
	go func() {
		if err := s.startHttpServer(); err != nil && err != http.ErrServerClosed {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(-1)
		}
	}()

	<-s.ctx.Done()
	s.Stop()
}

// Stop gracefully shuts down the HTTP server and closes the shared
// clients, flushing logs before returning.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	klog.Info("shutting down http server...")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown http server")
		}
	}
	if s.clients != nil {
		if err := s.clients.Producer.Close(); err != nil {
			klog.ErrorS(err, "failed to close activity producer")
		}
		if err := s.clients.Approval.Close(); err != nil {
			klog.ErrorS(err, "failed to close approval db")
		}
		if err := s.clients.Jobs.Close(); err != nil {
			klog.ErrorS(err, "failed to close job store")
		}
	}
	klog.Info("download service is stopped")
	klog.Flush()
}

// initConfig loads the server configuration from the specified config
// file path.
func (s *Server) initConfig() error {
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// startHttpServer initializes the handlers and starts listening.
func (s *Server) startHttpServer() error {
	if commonconfig.GetServerPort() <= 0 {
		return fmt.Errorf("the server port is not defined")
	}
	handler, clients, err := handlers.InitHttpHandlers(s.ctx)
	if err != nil {
		return err
	}
	s.clients = clients
	addr := fmt.Sprintf(":%d", commonconfig.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: handler}
	klog.Infof("http-server listen port: %d", commonconfig.GetServerPort())
	return s.httpServer.ListenAndServe()
}
