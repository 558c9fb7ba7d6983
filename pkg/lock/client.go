/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package lock

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/httpclient"
)

// Mode is the lock operation requested on a set of resource keys.
type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)

// Bulk lock calls cover whole download selections and may block behind
// writers, so they carry a much longer deadline than regular calls.
const lockCallTimeout = 3600 * time.Second

// Interface acquires and releases bulk read locks on the resources a
// download job touches.
type Interface interface {
	Acquire(ctx context.Context, keys []string, mode Mode) error
	Release(ctx context.Context, keys []string, mode Mode) error
}

type bulkLockRequest struct {
	ResourceKeys []string `json:"resource_keys"`
	Operation    Mode     `json:"operation"`
}

// Client talks to the dataops resource lock API.
type Client struct {
	endpoint string
	http     httpclient.Interface
}

// NewClient builds a lock client against the configured dataops service.
func NewClient() *Client {
	return &Client{
		endpoint: commonconfig.GetDataopsServiceEndpoint(),
		http:     httpclient.NewHttpClient(),
	}
}

// NewClientWith builds a lock client against an explicit endpoint, used
// by tests.
func NewClientWith(endpoint string, http httpclient.Interface) *Client {
	return &Client{endpoint: endpoint, http: http}
}

// Acquire takes locks on all keys at once. Failure of any key fails the
// whole call and leaves nothing held.
func (c *Client) Acquire(ctx context.Context, keys []string, mode Mode) error {
	return c.call(ctx, "POST", keys, mode)
}

// Release drops locks previously taken by Acquire with the same mode.
func (c *Client) Release(ctx context.Context, keys []string, mode Mode) error {
	return c.call(ctx, "DELETE", keys, mode)
}

func (c *Client) call(ctx context.Context, method string, keys []string, mode Mode) error {
	if len(keys) == 0 {
		return nil
	}
	url := c.endpoint + "/v2/resource/lock/bulk"
	body := bulkLockRequest{ResourceKeys: keys, Operation: mode}
	result, err := c.http.Request(ctx, method, url, body, lockCallTimeout)
	if err != nil {
		return errors.NewUpstreamUnavailable("lock service", err.Error())
	}
	if !result.IsSuccess() {
		klog.ErrorS(nil, "bulk lock call rejected",
			"method", method, "mode", mode, "keys", len(keys), "status", result.StatusCode)
		return errors.NewResourceLocked(keys)
	}
	klog.V(4).InfoS("bulk lock call done", "method", method, "mode", mode, "keys", len(keys))
	return nil
}
