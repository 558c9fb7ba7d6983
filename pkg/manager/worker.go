/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/PilotDataPlatform/download/pkg/activity"
	"github.com/PilotDataPlatform/download/pkg/archive"
	"github.com/PilotDataPlatform/download/pkg/jobstore"
	"github.com/PilotDataPlatform/download/pkg/lock"
	"github.com/PilotDataPlatform/download/pkg/models"
	"github.com/PilotDataPlatform/download/pkg/objectstore"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// stagedFile is one file of a download selection together with its
// path inside the archive.
type stagedFile struct {
	Item    models.Item
	RelPath string
}

// archiveJob is the ephemeral context of one background assembly run.
// The worker owns it exclusively; job progress visible to callers lives
// only in the persisted record.
type archiveJob struct {
	record    *models.JobRecord
	files     []stagedFile
	tmpFolder string

	// zipRequired is false only for the single-file presigned shortcut,
	// which skips fetch and zip but still locks its resource.
	zipRequired bool

	// datasetID, when set, triggers schema staging before the zip step.
	datasetID string

	// creds are the caller's tokens, forwarded to upstream services for
	// the lifetime of the background task.
	creds utils.Credentials
}

// runWorker drives one job from ZIPPING to READY_FOR_DOWNLOADING, or to
// CANCELLED on the first failure. Locks are held across assembly and
// released on every exit path that acquired them.
func (m *Manager) runWorker(job *archiveJob) {
	ctx := utils.WithCredentials(context.Background(), job.creds)

	keys := make([]string, 0, len(job.files))
	for i := range job.files {
		keys = append(keys, lock.KeyFor(&job.files[i].Item))
	}
	if err := m.Locks.Acquire(ctx, keys, lock.ModeRead); err != nil {
		m.failJob(ctx, job, err)
		return
	}

	assembleErr := m.assemble(ctx, job)
	if err := m.Locks.Release(ctx, keys, lock.ModeRead); err != nil {
		klog.ErrorS(err, "lock release failed", "job_id", job.record.JobID, "keys", len(keys))
	}
	if assembleErr != nil {
		m.failJob(ctx, job, assembleErr)
		return
	}

	m.setJobStatus(ctx, job, models.StatusReady)
	if job.datasetID != "" {
		m.publishDatasetReady(ctx, job)
	}
	klog.InfoS("download job ready", "job_id", job.record.JobID, "source", job.record.Source)
}

// publishDatasetReady emits the dataset activity event once the archive
// is staged. Failures are logged; the job stays READY.
func (m *Manager) publishDatasetReady(ctx context.Context, job *archiveJob) {
	name := filepath.Base(job.record.Source)
	err := m.Activity.PublishDatasetDownload(ctx, &activity.DatasetActivity{
		ContainerCode: job.record.ContainerCode,
		TargetName:    &name,
		User:          job.record.Operator,
	})
	if err != nil {
		klog.ErrorS(err, "dataset activity not published", "job_id", job.record.JobID)
	}
}

// assemble fetches the selection into scratch space, stages dataset
// schemas when asked, and zips. Presigned single-file jobs do nothing
// here.
func (m *Manager) assemble(ctx context.Context, job *archiveJob) error {
	if !job.zipRequired {
		return nil
	}
	if err := os.MkdirAll(job.tmpFolder, 0o755); err != nil {
		return err
	}
	for _, f := range job.files {
		bucket, objectPath, err := objectstore.ParseLocation(f.Item.Location)
		if err != nil {
			return err
		}
		target := filepath.Join(job.tmpFolder, filepath.FromSlash(f.RelPath))
		if err := m.Internal.Download(ctx, bucket, objectPath, target); err != nil {
			return err
		}
	}
	if job.datasetID != "" {
		if err := m.stageSchemas(ctx, job); err != nil {
			return err
		}
	}
	if _, err := archive.ZipDirectory(job.tmpFolder); err != nil {
		return err
	}
	return nil
}

// stageSchemas writes the dataset's schema documents next to the data
// and guarantees the data/ subdirectory exists even when the dataset
// holds no files.
func (m *Manager) stageSchemas(ctx context.Context, job *archiveJob) error {
	if err := os.MkdirAll(filepath.Join(job.tmpFolder, "data"), 0o755); err != nil {
		return err
	}
	standards := []struct {
		standard string
		prefix   string
	}{
		{"default", "default_"},
		{"open_minds", "openMINDS_"},
	}
	for _, s := range standards {
		schemas, err := m.Containers.ListSchemas(ctx, job.datasetID, s.standard)
		if err != nil {
			return err
		}
		for _, schema := range schemas {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, schema.Content, "", "    "); err != nil {
				return err
			}
			target := filepath.Join(job.tmpFolder, s.prefix+schema.Name)
			if err := os.WriteFile(target, pretty.Bytes(), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// failJob moves the record to CANCELLED carrying the failure reason.
func (m *Manager) failJob(ctx context.Context, job *archiveJob, cause error) {
	klog.ErrorS(cause, "download job cancelled", "job_id", job.record.JobID)
	job.record.Payload[models.PayloadErrorMsg] = cause.Error()
	m.setJobStatus(ctx, job, models.StatusCancelled)
}

func (m *Manager) setJobStatus(ctx context.Context, job *archiveJob, status models.JobStatus) {
	job.record.Status = status
	job.record.UpdateTimestamp = m.timestamp()
	key := jobstore.JobKey(job.record.SessionID, job.record.JobID, job.record.Action,
		job.record.ContainerCode, job.record.Operator, job.record.Source)
	if err := m.Jobs.Set(ctx, key, job.record); err != nil {
		klog.ErrorS(err, "cannot persist job status", "job_id", job.record.JobID, "status", status)
	}
}
