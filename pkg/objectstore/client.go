/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/httpclient"
)

// Interface covers the object store operations of the download flow.
// Two instances exist per process: one against the internal endpoint for
// fetching into scratch space, one against the public endpoint for
// presigned URLs handed to browsers.
type Interface interface {
	Download(ctx context.Context, bucket, objectPath, filePath string) error
	PresignGet(ctx context.Context, bucket, objectPath string, expires time.Duration) (string, error)
	Healthy(ctx context.Context) error
}

// Client wraps one minio connection.
type Client struct {
	mc       *minio.Client
	endpoint string
	secure   bool
	http     httpclient.Interface
}

// NewClient connects to the object store at endpoint (host:port, no scheme).
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*Client, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, errors.NewObjectStoreError(err.Error())
	}
	klog.InfoS("init object store client", "endpoint", endpoint, "secure", secure)
	return &Client{
		mc:       mc,
		endpoint: endpoint,
		secure:   secure,
		http:     httpclient.NewHttpClient(),
	}, nil
}

// NewInternalClient builds the client for the in-cluster endpoint.
func NewInternalClient() (*Client, error) {
	return NewClient(commonconfig.GetMinioEndpoint(),
		commonconfig.GetMinioAccessKey(), commonconfig.GetMinioSecretKey(),
		commonconfig.IsMinioHTTPS())
}

// NewPublicClient builds the client for the externally reachable endpoint.
// URLs it presigns stay valid outside the cluster.
func NewPublicClient() (*Client, error) {
	return NewClient(commonconfig.GetMinioPublicEndpoint(),
		commonconfig.GetMinioAccessKey(), commonconfig.GetMinioSecretKey(),
		commonconfig.IsMinioPublicHTTPS())
}

// Download fetches bucket/objectPath into filePath, creating parent
// directories as needed.
func (c *Client) Download(ctx context.Context, bucket, objectPath, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.NewInternalError(err.Error())
	}
	if err := c.mc.FGetObject(ctx, bucket, objectPath, filePath, minio.GetObjectOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return errors.NewObjectNotFound(bucket, objectPath)
		}
		return errors.NewObjectStoreError(err.Error())
	}
	klog.V(4).InfoS("object fetched", "bucket", bucket, "object", objectPath, "file", filePath)
	return nil
}

// PresignGet returns a time-limited GET URL for bucket/objectPath.
func (c *Client) PresignGet(ctx context.Context, bucket, objectPath string, expires time.Duration) (string, error) {
	signed, err := c.mc.PresignedGetObject(ctx, bucket, objectPath, expires, nil)
	if err != nil {
		return "", errors.NewObjectStoreError(err.Error())
	}
	return signed.String(), nil
}

// Healthy probes the object store cluster health endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	scheme := "http"
	if c.secure {
		scheme = "https"
	}
	result, err := c.http.Get(ctx, fmt.Sprintf("%s://%s/minio/health/live", scheme, c.endpoint))
	if err != nil {
		return errors.NewUpstreamUnavailable("object store", err.Error())
	}
	if !result.IsSuccess() {
		return errors.NewUpstreamUnavailable("object store", fmt.Sprintf("health status %d", result.StatusCode))
	}
	return nil
}
