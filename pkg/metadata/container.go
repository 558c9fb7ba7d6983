/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/httpclient"
	"github.com/PilotDataPlatform/download/pkg/models"
)

// Container is a project or dataset descriptor. Only the fields the
// download flow needs are decoded.
type Container struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Schema is one dataset schema document attached to a dataset.
type Schema struct {
	Name     string          `json:"name"`
	Content  json.RawMessage `json:"content"`
	Standard string          `json:"standard"`
}

// ContainerInterface checks container existence and lists dataset
// schemas for staging into version archives.
type ContainerInterface interface {
	CheckProject(ctx context.Context, code string) (*Container, error)
	CheckDataset(ctx context.Context, code string) (*Container, error)
	ListSchemas(ctx context.Context, datasetID, standard string) ([]Schema, error)
}

// ContainerClient queries the project and dataset services.
type ContainerClient struct {
	projectEndpoint string
	datasetEndpoint string
	http            httpclient.Interface
}

// NewContainerClient builds a container client from configuration.
func NewContainerClient() *ContainerClient {
	return &ContainerClient{
		projectEndpoint: commonconfig.GetProjectServiceEndpoint(),
		datasetEndpoint: commonconfig.GetDatasetServiceEndpoint(),
		http:            httpclient.NewHttpClient(),
	}
}

// NewContainerClientWith builds a container client against explicit
// endpoints, used by tests.
func NewContainerClientWith(projectEndpoint, datasetEndpoint string, http httpclient.Interface) *ContainerClient {
	return &ContainerClient{
		projectEndpoint: projectEndpoint,
		datasetEndpoint: datasetEndpoint,
		http:            http,
	}
}

// CheckProject verifies the project exists and returns its descriptor.
func (c *ContainerClient) CheckProject(ctx context.Context, code string) (*Container, error) {
	return c.check(ctx, fmt.Sprintf("%s/v1/projects/%s", c.projectEndpoint, code),
		models.ContainerTypeProject, code)
}

// CheckDataset verifies the dataset exists and returns its descriptor.
func (c *ContainerClient) CheckDataset(ctx context.Context, code string) (*Container, error) {
	return c.check(ctx, fmt.Sprintf("%s/v1/datasets/%s", c.datasetEndpoint, code),
		models.ContainerTypeDataset, code)
}

func (c *ContainerClient) check(ctx context.Context, url, containerType, code string) (*Container, error) {
	result, err := c.http.Get(ctx, url, authHeaders(ctx)...)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable(containerType+" service", err.Error())
	}
	if result.StatusCode == http.StatusNotFound {
		return nil, errors.NewContainerNotFound(containerType, code)
	}
	if !result.IsSuccess() {
		return nil, errors.NewUpstreamUnavailable(containerType+" service", result.String())
	}
	var container Container
	if err := result.Decode(&container); err != nil {
		return nil, errors.NewUpstreamUnavailable(containerType+" service", err.Error())
	}
	if container.Code == "" {
		container.Code = code
	}
	return &container, nil
}

type schemaListRequest struct {
	DatasetGeid string `json:"dataset_geid"`
	Standard    string `json:"standard"`
	IsDraft     bool   `json:"is_draft"`
}

type schemaListResponse struct {
	Result []Schema `json:"result"`
}

// ListSchemas returns the published schemas of one dataset for the given
// standard ("default" or "open_minds").
func (c *ContainerClient) ListSchemas(ctx context.Context, datasetID, standard string) ([]Schema, error) {
	body := schemaListRequest{DatasetGeid: datasetID, Standard: standard, IsDraft: false}
	result, err := c.http.Post(ctx, c.datasetEndpoint+"/v1/schema/list", body, authHeaders(ctx)...)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable("dataset service", err.Error())
	}
	if !result.IsSuccess() {
		return nil, errors.NewUpstreamUnavailable("dataset service", result.String())
	}
	var rsp schemaListResponse
	if err := result.Decode(&rsp); err != nil {
		return nil, errors.NewUpstreamUnavailable("dataset service", err.Error())
	}
	return rsp.Result, nil
}
