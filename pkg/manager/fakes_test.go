/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PilotDataPlatform/download/pkg/activity"
	"github.com/PilotDataPlatform/download/pkg/approval"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/lock"
	"github.com/PilotDataPlatform/download/pkg/metadata"
	"github.com/PilotDataPlatform/download/pkg/models"
)

type fakeJobs struct {
	records map[string]models.JobRecord
	// history keeps every status written per key, in order.
	history map[string][]models.JobStatus
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		records: map[string]models.JobRecord{},
		history: map[string][]models.JobStatus{},
	}
}

func (f *fakeJobs) Set(_ context.Context, key string, record *models.JobRecord) error {
	f.records[key] = *record
	f.history[key] = append(f.history[key], record.Status)
	return nil
}

func (f *fakeJobs) ScanByPrefix(_ context.Context, prefix string) ([]models.JobRecord, error) {
	var out []models.JobRecord
	for key, record := range f.records {
		if strings.HasPrefix(key, prefix) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeJobs) DeleteByPrefix(_ context.Context, prefix string) error {
	for key := range f.records {
		if strings.HasPrefix(key, prefix) {
			delete(f.records, key)
		}
	}
	return nil
}

func (f *fakeJobs) Ping(context.Context) error { return nil }

func (f *fakeJobs) single() models.JobRecord {
	for _, record := range f.records {
		return record
	}
	return models.JobRecord{}
}

type fakeLocks struct {
	failAcquire bool
	acquired    [][]string
	released    [][]string
}

func (f *fakeLocks) Acquire(_ context.Context, keys []string, _ lock.Mode) error {
	if f.failAcquire {
		return errors.NewResourceLocked(keys)
	}
	f.acquired = append(f.acquired, keys)
	return nil
}

func (f *fakeLocks) Release(_ context.Context, keys []string, _ lock.Mode) error {
	f.released = append(f.released, keys)
	return nil
}

type fakeMeta struct {
	items    map[string]models.Item
	children map[string][]models.Item
}

func (f *fakeMeta) GetItemByID(_ context.Context, id string) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errors.NewItemNotFound(id)
	}
	return &item, nil
}

func (f *fakeMeta) ListRecursive(_ context.Context, _, _, _ string, _ int, parentPath string) ([]models.Item, error) {
	return f.children[parentPath], nil
}

type fakeContainers struct {
	projects map[string]bool
	datasets map[string]string // code -> id
	schemas  map[string][]metadata.Schema
}

func (f *fakeContainers) CheckProject(_ context.Context, code string) (*metadata.Container, error) {
	if !f.projects[code] {
		return nil, errors.NewContainerNotFound(models.ContainerTypeProject, code)
	}
	return &metadata.Container{Code: code}, nil
}

func (f *fakeContainers) CheckDataset(_ context.Context, code string) (*metadata.Container, error) {
	id, ok := f.datasets[code]
	if !ok {
		return nil, errors.NewContainerNotFound(models.ContainerTypeDataset, code)
	}
	return &metadata.Container{ID: id, Code: code}, nil
}

func (f *fakeContainers) ListSchemas(_ context.Context, _, standard string) ([]metadata.Schema, error) {
	return f.schemas[standard], nil
}

type fakeStore struct {
	downloads []string // "bucket/objectPath"
	presigns  []string
	failWith  error
}

func (f *fakeStore) Download(_ context.Context, bucket, objectPath, filePath string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.downloads = append(f.downloads, bucket+"/"+objectPath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte("content of "+objectPath), 0o644)
}

func (f *fakeStore) PresignGet(_ context.Context, bucket, objectPath string, _ time.Duration) (string, error) {
	url := fmt.Sprintf("https://minio.example.com/%s/%s?signed", bucket, objectPath)
	f.presigns = append(f.presigns, url)
	return url, nil
}

func (f *fakeStore) Healthy(context.Context) error { return nil }

type fakeApprovals struct {
	entities map[uuid.UUID]map[string]approval.ApprovalEntity
}

func (f *fakeApprovals) GetApprovalEntities(_ context.Context, requestID uuid.UUID) (map[string]approval.ApprovalEntity, error) {
	return f.entities[requestID], nil
}

func (f *fakeApprovals) Ping(context.Context) error { return nil }

type fakeActivity struct {
	items    []activity.ItemActivity
	datasets []activity.DatasetActivity
}

func (f *fakeActivity) PublishItemDownload(_ context.Context, act *activity.ItemActivity) error {
	f.items = append(f.items, *act)
	return nil
}

func (f *fakeActivity) PublishDatasetDownload(_ context.Context, act *activity.DatasetActivity) error {
	f.datasets = append(f.datasets, *act)
	return nil
}

func (f *fakeActivity) Healthy(context.Context) error { return nil }

func (f *fakeActivity) Close() error { return nil }
