/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"k8s.io/klog/v2"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/httpclient"
	"github.com/PilotDataPlatform/download/pkg/models"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// authHeaders forwards the caller's tokens, when present, to the
// upstream service untouched.
func authHeaders(ctx context.Context) []string {
	if creds, ok := utils.CredentialsFrom(ctx); ok {
		return creds.HeaderPairs()
	}
	return nil
}

// Interface resolves file and folder descriptors from the metadata
// service.
type Interface interface {
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	ListRecursive(ctx context.Context, containerCode, containerType, owner string, zone int, parentPath string) ([]models.Item, error)
}

// Client queries the metadata service REST API.
type Client struct {
	endpoint string
	http     httpclient.Interface
}

// NewClient builds a metadata client against the configured endpoint.
func NewClient() *Client {
	return &Client{
		endpoint: commonconfig.GetMetadataServiceEndpoint(),
		http:     httpclient.NewHttpClient(),
	}
}

// NewClientWith builds a metadata client against an explicit endpoint,
// used by tests.
func NewClientWith(endpoint string, http httpclient.Interface) *Client {
	return &Client{endpoint: endpoint, http: http}
}

type itemResponse struct {
	Result *models.Item `json:"result"`
}

type itemListResponse struct {
	Result []models.Item `json:"result"`
}

// GetItemByID fetches one item descriptor. Unknown ids map onto
// ItemNotFound regardless of how the upstream phrases it.
func (c *Client) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	result, err := c.http.Get(ctx, fmt.Sprintf("%s/v1/item/%s/", c.endpoint, id), authHeaders(ctx)...)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable("metadata service", err.Error())
	}
	if result.StatusCode == http.StatusNotFound {
		return nil, errors.NewItemNotFound(id)
	}
	if !result.IsSuccess() {
		return nil, errors.NewUpstreamUnavailable("metadata service", result.String())
	}
	var rsp itemResponse
	if err := result.Decode(&rsp); err != nil {
		return nil, errors.NewUpstreamUnavailable("metadata service", err.Error())
	}
	if rsp.Result == nil || rsp.Result.ID == "" {
		return nil, errors.NewItemNotFound(id)
	}
	return rsp.Result, nil
}

// ListRecursive returns every non-archived file item below parentPath.
// Folder items are excluded upstream via type=file.
func (c *Client) ListRecursive(ctx context.Context, containerCode, containerType, owner string, zone int, parentPath string) ([]models.Item, error) {
	params := url.Values{}
	params.Set("container_code", containerCode)
	params.Set("container_type", containerType)
	params.Set("zone", strconv.Itoa(zone))
	params.Set("recursive", "true")
	params.Set("archived", "false")
	params.Set("type", models.ItemTypeFile)
	if parentPath != "" {
		params.Set("parent_path", parentPath)
	}
	if owner != "" {
		params.Set("owner", owner)
	}
	result, err := c.http.Get(ctx, fmt.Sprintf("%s/v1/items/search/?%s", c.endpoint, params.Encode()), authHeaders(ctx)...)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable("metadata service", err.Error())
	}
	if !result.IsSuccess() {
		return nil, errors.NewUpstreamUnavailable("metadata service", result.String())
	}
	var rsp itemListResponse
	if err := result.Decode(&rsp); err != nil {
		return nil, errors.NewUpstreamUnavailable("metadata service", err.Error())
	}
	klog.V(4).InfoS("recursive item listing",
		"container", containerCode, "parent", parentPath, "items", len(rsp.Result))
	return rsp.Result, nil
}
