/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package manager

import (
	"archive/zip"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PilotDataPlatform/download/pkg/approval"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/metadata"
	"github.com/PilotDataPlatform/download/pkg/models"
	"github.com/PilotDataPlatform/download/pkg/token"
)

type env struct {
	m          *Manager
	jobs       *fakeJobs
	locks      *fakeLocks
	meta       *fakeMeta
	containers *fakeContainers
	internal   *fakeStore
	public     *fakeStore
	approvals  *fakeApprovals
	activity   *fakeActivity
}

func newEnv(t *testing.T) *env {
	e := &env{
		jobs:  newFakeJobs(),
		locks: &fakeLocks{},
		meta: &fakeMeta{
			items:    map[string]models.Item{},
			children: map[string][]models.Item{},
		},
		containers: &fakeContainers{
			projects: map[string]bool{"testproj": true},
			datasets: map[string]string{"dstest": "ds-uuid-1"},
			schemas:  map[string][]metadata.Schema{},
		},
		internal:  &fakeStore{},
		public:    &fakeStore{},
		approvals: &fakeApprovals{entities: map[uuid.UUID]map[string]approval.ApprovalEntity{}},
		activity:  &fakeActivity{},
	}
	e.m = New(Deps{
		Codec:         token.NewCodec("unit-test-secret", time.Hour),
		Jobs:          e.jobs,
		Locks:         e.locks,
		Meta:          e.meta,
		Containers:    e.containers,
		Internal:      e.internal,
		Public:        e.public,
		Approvals:     e.approvals,
		Activity:      e.activity,
		ScratchRoot:   t.TempDir(),
		PresignExpire: time.Hour,
	})
	// run workers inline so every test observes the final job state
	e.m.spawn = func(fn func()) { fn() }
	e.m.now = func() time.Time { return time.Unix(1613507376, 0) }
	return e
}

func (e *env) addFile(id, parentPath, name string) {
	e.meta.items[id] = models.Item{
		ID:            id,
		ParentPath:    parentPath,
		Type:          models.ItemTypeFile,
		Zone:          models.ZoneGreen,
		Name:          name,
		Owner:         "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		Storage: models.ItemStorage{
			LocationURI: "minio://http://minio:9000/gr-testproj/" + parentPath + "/" + name,
		},
	}
}

func zipEntries(t *testing.T, zipPath string) []string {
	t.Helper()
	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()
	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	return names
}

func TestPrepareSingleFilePresigned(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	// the single-file shortcut presigns instead of staging a zip
	assert.True(t, strings.HasPrefix(result.Record.Source, "https://"))
	assert.Len(t, e.public.presigns, 1)
	assert.Empty(t, e.internal.downloads)

	// the worker still locks the resource and reaches READY
	require.Len(t, e.locks.acquired, 1)
	assert.Equal(t, []string{"gr-testproj/admin/a.txt"}, e.locks.acquired[0])
	require.Len(t, e.locks.released, 1)
	assert.Equal(t, models.StatusReady, e.jobs.single().Status)

	claims, err := e.m.Codec.VerifyDownload(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Record.Source, claims[token.ClaimFilePath])
}

func TestPrepareFolderForcesZip(t *testing.T) {
	e := newEnv(t)
	e.meta.items["folder1"] = models.Item{
		ID: "folder1", ParentPath: "admin", Type: models.ItemTypeFolder,
		Zone: models.ZoneGreen, Name: "folder1", Owner: "erik",
		ContainerCode: "testproj", ContainerType: models.ContainerTypeProject,
	}
	child := models.Item{
		ID: "c1", ParentPath: "admin.folder1", Type: models.ItemTypeFile,
		Zone: models.ZoneGreen, Name: "c.txt", Owner: "erik",
		ContainerCode: "testproj", ContainerType: models.ContainerTypeProject,
		Storage: models.ItemStorage{
			LocationURI: "minio://http://minio:9000/gr-testproj/admin/folder1/c.txt",
		},
	}
	e.meta.children["admin.folder1"] = []models.Item{child}

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"folder1"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	// one file, but a folder selection forces the zip path
	assert.True(t, strings.HasSuffix(result.Record.Source, ".zip"))
	assert.Empty(t, e.public.presigns)
	assert.Equal(t, []string{"gr-testproj/admin/folder1/c.txt"}, e.internal.downloads)
	assert.Equal(t, models.StatusReady, e.jobs.single().Status)
	assert.Contains(t, zipEntries(t, result.Record.Source), "folder1/c.txt")
}

func TestPrepareEmptyProjectSelection(t *testing.T) {
	e := newEnv(t)
	e.meta.items["folder1"] = models.Item{
		ID: "folder1", Type: models.ItemTypeFolder, Name: "folder1",
		Zone: models.ZoneGreen, ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
	}

	_, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"folder1"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.Error(t, err)
	assert.True(t, errors.IsEmptySelection(err))
	assert.Contains(t, err.Error(), "Invalid file amount")
	assert.Empty(t, e.jobs.records)
}

func TestPrepareApprovalFilter(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")
	e.addFile("b", "admin", "b.txt")
	requestID := uuid.New()
	e.approvals.entities[requestID] = map[string]approval.ApprovalEntity{
		"a": {EntityID: "a", ReviewStatus: approval.ReviewApproved},
	}

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:           []string{"a", "b"},
		Operator:          "erik",
		ContainerCode:     "testproj",
		ContainerType:     models.ContainerTypeProject,
		SessionID:         "sess-1",
		ApprovalRequestID: &requestID,
	})
	require.NoError(t, err)

	// only the approved file survives; one file without a folder selection
	// still presigns
	assert.True(t, strings.HasPrefix(result.Record.Source, "https://"))
	require.Len(t, e.locks.acquired, 1)
	assert.Equal(t, []string{"gr-testproj/admin/a.txt"}, e.locks.acquired[0])
}

func TestPrepareContainerMissing(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")

	_, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a"},
		Operator:      "erik",
		ContainerCode: "ghost",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ContainerNotFound, errors.CodeForError(err))
}

func TestStatusReturnsRecord(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	record, err := e.m.Status(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, record.Status)
	assert.Equal(t, "data-download-1613507376", record.JobID)
}

func TestStatusUnknownJob(t *testing.T) {
	e := newEnv(t)
	signed, err := e.m.Codec.Issue(map[string]interface{}{
		token.ClaimFilePath:      "/tmp/nothing.zip",
		token.ClaimSessionID:     "sess-x",
		token.ClaimJobID:         "data-download-0",
		token.ClaimContainerCode: "testproj",
		token.ClaimOperator:      "erik",
	})
	require.NoError(t, err)

	_, err = e.m.Status(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, errors.JobNotFound, errors.CodeForError(err))
}

func TestRetrievePresignedRedirect(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	got, err := e.m.Retrieve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Record.Source, got.RedirectURL)
	assert.Equal(t, models.StatusSucceed, e.jobs.single().Status)

	require.Len(t, e.activity.items, 1)
	require.NotNil(t, e.activity.items[0].ItemID)
	assert.Equal(t, "a", *e.activity.items[0].ItemID)
	assert.Equal(t, "a.txt", e.activity.items[0].ItemName)
}

func TestRetrieveStagedArchive(t *testing.T) {
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

	got, err := e.m.Retrieve(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Empty(t, got.RedirectURL)
	assert.Equal(t, result.Record.Source, got.FilePath)
	assert.Equal(t, "projecttestproj_1613507376.zip", got.FileName)

	// a multi-file archive is not attributed to any single item
	require.Len(t, e.activity.items, 1)
	assert.Nil(t, e.activity.items[0].ItemID)
	assert.Equal(t, "projecttestproj_1613507376.zip", e.activity.items[0].ItemName)
}

func TestRetrieveMissingFile(t *testing.T) {
	e := newEnv(t)
	signed, err := e.m.Codec.Issue(map[string]interface{}{
		token.ClaimFilePath:      "/nowhere/projecttestproj_0.zip",
		token.ClaimSessionID:     "sess-1",
		token.ClaimJobID:         "data-download-0",
		token.ClaimContainerCode: "testproj",
		token.ClaimOperator:      "erik",
	})
	require.NoError(t, err)

	_, err = e.m.Retrieve(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, errors.FileNotFound, errors.CodeForError(err))
	assert.Empty(t, e.activity.items)
}

func TestRetrieveDatasetVersion(t *testing.T) {
	e := newEnv(t)
	signed, err := e.m.Codec.Issue(map[string]interface{}{
		token.ClaimLocation: "minio://http://minio:9000/dstest/versions/dstest_1.0.zip",
	})
	require.NoError(t, err)

	got, err := e.m.RetrieveDatasetVersion(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.example.com/dstest/versions/dstest_1.0.zip?signed", got.RedirectURL)
}

func TestPrepareRecordIsolatedFromWorker(t *testing.T) {
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

	// the inline worker already finished; the caller's record still holds
	// the snapshot taken at prepare time
	assert.Equal(t, models.StatusZipping, result.Record.Status)
	assert.Equal(t, models.StatusReady, e.jobs.single().Status)
}

func TestPrepareRecordPayloadIsolatedOnFailure(t *testing.T) {
	e := newEnv(t)
	e.addFile("a", "admin", "a.txt")
	e.addFile("b", "admin", "b.txt")
	e.locks.failAcquire = true

	result, err := e.m.PrepareFileOrFolder(context.Background(), &PrepareRequest{
		ItemIDs:       []string{"a", "b"},
		Operator:      "erik",
		ContainerCode: "testproj",
		ContainerType: models.ContainerTypeProject,
		SessionID:     "sess-1",
	})
	require.NoError(t, err)

	// the worker writes its failure into its own payload map
	assert.NotContains(t, result.Record.Payload, models.PayloadErrorMsg)
	assert.Contains(t, e.jobs.single().Payload, models.PayloadErrorMsg)
}

func TestZoneLabel(t *testing.T) {
	assert.Equal(t, "greenroom", zoneLabel(models.ZoneGreen))
	assert.Equal(t, "core", zoneLabel(models.ZoneCore))
}

func TestRelUnder(t *testing.T) {
	child := models.Item{ParentPath: "admin.folder1.sub", Name: "b.txt"}
	assert.Equal(t, "folder1/sub/b.txt", relUnder("admin", &child))

	top := models.Item{ParentPath: "", Name: "top.txt"}
	assert.Equal(t, "top.txt", relUnder("", &top))

	dataset := models.Item{ParentPath: "folder1", Name: "a.txt"}
	assert.Equal(t, "folder1/a.txt", relUnder("", &dataset))
}
