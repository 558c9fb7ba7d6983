/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package manager

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/metadata"
	"github.com/PilotDataPlatform/download/pkg/models"
)

func TestWorkerLockFailureCancels(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")
	e.addFile("b", "admin", "b.txt")
	e.locks.failAcquire = true

	_, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a", "b"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	// prepare itself succeeds; the worker fails afterwards
	require.NoError(t, err)

	record := e.jobs.single()
	assert.Equal(t, models.StatusCancelled, record.Status)
	assert.Contains(t, record.Payload[models.PayloadErrorMsg], "already in used")
	// nothing was acquired, so nothing may be released
	assert.Empty(t, e.locks.released)
	assert.Empty(t, e.internal.downloads)
}

func TestWorkerFetchFailureReleasesLocks(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")
	e.addFile("b", "admin", "b.txt")
	e.internal.failWith = errors.NewObjectNotFound("gr-testproj", "admin/a.txt")

	_, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a", "b"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	record := e.jobs.single()
	assert.Equal(t, models.StatusCancelled, record.Status)
	assert.Contains(t, record.Payload[models.PayloadErrorMsg], "does not exist")
	// locks released exactly once even though assembly failed
	require.Len(t, e.locks.acquired, 1)
	require.Len(t, e.locks.released, 1)
	assert.Equal(t, e.locks.acquired[0], e.locks.released[0])
}

func TestDatasetDownloadStagesSchemas(t *testing.T) {
	e := newEnv(t)
	// no files at all: the archive carries schemas only
	e.containers.schemas["default"] = []metadata.Schema{
		{Name: "essential.schema.json", Content: json.RawMessage(`{"dataset_code":"dstest"}`), Standard: "default"},
	}
	e.containers.schemas["open_minds"] = []metadata.Schema{
		{Name: "person.jsonld", Content: json.RawMessage(`{"givenName":"Ærø"}`), Standard: "open_minds"},
	}

	result, err := e.m.PrepareDataset(context.Background(), "dstest", "erik", "sess-1")
	require.NoError(t, err)

	record := e.jobs.single()
	assert.Equal(t, models.StatusReady, record.Status)

	entries := zipEntries(t, result.Record.Source)
	assert.Contains(t, entries, "default_essential.schema.json")
	assert.Contains(t, entries, "openMINDS_person.jsonld")
	assert.Contains(t, entries, "data/")

	// the worker announces the staged archive on the dataset stream
	require.Len(t, e.activity.datasets, 1)
	assert.Equal(t, "dstest", e.activity.datasets[0].ContainerCode)
	assert.Equal(t, "erik", e.activity.datasets[0].User)
	require.NotNil(t, e.activity.datasets[0].TargetName)
	assert.Equal(t, "datasetdstest_1613507376.zip", *e.activity.datasets[0].TargetName)
	assert.Empty(t, e.activity.items)
}

func TestDatasetRetrieveDoesNotRepublish(t *testing.T) {
	e := newEnv(t)
	result, err := e.m.PrepareDataset(context.Background(), "dstest", "erik", "sess-1")
	require.NoError(t, err)
	require.Len(t, e.activity.datasets, 1)

	_, err = e.m.Retrieve(context.Background(), result.Token)
	require.NoError(t, err)

	// one dataset message per download, emitted at READY, never at retrieve
	assert.Len(t, e.activity.datasets, 1)
	assert.Empty(t, e.activity.items)
}

func TestDatasetDownloadWithFiles(t *testing.T) {
	e := newEnv(t)
	e.meta.children[""] = []models.Item{
		{
			ID: "d1", ParentPath: "folder1", Type: models.ItemTypeFile,
			Zone: models.ZoneCore, Name: "obs.csv", Owner: "erik",
			ContainerCode: "dstest", ContainerType: models.ContainerTypeDataset,
			Storage: models.ItemStorage{
				LocationURI: "minio://http://minio:9000/dstest/folder1/obs.csv",
			},
		},
	}

	result, err := e.m.PrepareDataset(context.Background(), "dstest", "erik", "sess-1")
	require.NoError(t, err)

	// dataset buckets have no zone prefix
	require.Len(t, e.locks.acquired, 1)
	assert.Equal(t, []string{"dstest/folder1/obs.csv"}, e.locks.acquired[0])
	assert.Contains(t, zipEntries(t, result.Record.Source), "data/folder1/obs.csv")
}

func TestDatasetDownloadUnknownCode(t *testing.T) {
	e := newEnv(t)
	_, err := e.m.PrepareDataset(context.Background(), "ghost", "erik", "sess-1")
	require.Error(t, err)
	assert.Equal(t, errors.ContainerNotFound, errors.CodeForError(err))
}

func TestJobStatusTransitions(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")
	e.addFile("b", "admin", "b.txt")

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a", "b"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	_, err = e.m.Retrieve(context.Background(), result.Token)
	require.NoError(t, err)

	// one key, strictly forward transitions
	require.Len(t, e.jobs.history, 1)
	for _, history := range e.jobs.history {
		assert.Equal(t, []models.JobStatus{
			models.StatusZipping,
			models.StatusReady,
			models.StatusSucceed,
		}, history)
	}
}
