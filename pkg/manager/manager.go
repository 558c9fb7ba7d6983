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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/PilotDataPlatform/download/pkg/activity"
	"github.com/PilotDataPlatform/download/pkg/approval"
	commonconfig "github.com/PilotDataPlatform/download/pkg/config"
	"github.com/PilotDataPlatform/download/pkg/errors"
	"github.com/PilotDataPlatform/download/pkg/jobstore"
	"github.com/PilotDataPlatform/download/pkg/lock"
	"github.com/PilotDataPlatform/download/pkg/metadata"
	"github.com/PilotDataPlatform/download/pkg/models"
	"github.com/PilotDataPlatform/download/pkg/objectstore"
	"github.com/PilotDataPlatform/download/pkg/token"
	"github.com/PilotDataPlatform/download/pkg/utils"
)

// Keys inside the token payload claim describing what the job covers.
// Set at prepare time, read back at retrieve time to attribute the
// activity event.
const (
	payloadItemID         = "item_id"
	payloadItemType       = "item_type"
	payloadItemName       = "item_name"
	payloadItemParentPath = "item_parent_path"
)

// Deps are the collaborators one Manager orchestrates.
type Deps struct {
	Codec      *token.Codec
	Jobs       jobstore.Interface
	Locks      lock.Interface
	Meta       metadata.Interface
	Containers metadata.ContainerInterface

	// Internal fetches objects into scratch space; Public mints URLs the
	// caller follows directly.
	Internal objectstore.Interface
	Public   objectstore.Interface

	Approvals approval.Interface
	Activity  activity.Interface

	ScratchRoot   string
	PresignExpire time.Duration
}

// Manager owns the download pipelines: prepare (file/folder and whole
// dataset), status lookup, and retrieval. One background worker per
// prepared job assembles the archive.
type Manager struct {
	Deps

	// spawn runs the background worker; tests replace it to run inline.
	spawn func(func())
	now   func() time.Time
}

// New builds a Manager over its collaborators.
func New(deps Deps) *Manager {
	return &Manager{
		Deps:  deps,
		spawn: func(fn func()) { go fn() },
		now:   time.Now,
	}
}

// PrepareRequest is one file/folder download request after HTTP-level
// validation.
type PrepareRequest struct {
	ItemIDs           []string
	Operator          string
	ContainerCode     string
	ContainerType     string
	SessionID         string
	ApprovalRequestID *uuid.UUID
}

// PrepareResult carries the new job record and its download token.
type PrepareResult struct {
	Record *models.JobRecord
	Token  string
}

// RetrieveResult is either a redirect target or a local file to stream.
type RetrieveResult struct {
	RedirectURL string
	FilePath    string
	FileName    string
}

// PrepareFileOrFolder validates the selection, resolves it to a list of
// files, decides between a presigned single-file download and a zipped
// archive, records the job and spawns its worker.
func (m *Manager) PrepareFileOrFolder(ctx context.Context, req *PrepareRequest) (*PrepareResult, error) {
	if err := m.checkContainer(ctx, req.ContainerType, req.ContainerCode); err != nil {
		return nil, err
	}

	var allowed map[string]approval.ApprovalEntity
	if req.ApprovalRequestID != nil {
		var err error
		allowed, err = m.Approvals.GetApprovalEntities(ctx, *req.ApprovalRequestID)
		if err != nil {
			return nil, err
		}
	}

	folderDownload := false
	var files []stagedFile
	for _, id := range req.ItemIDs {
		item, err := m.Meta.GetItemByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if item.IsFolder() {
			folderDownload = true
			parent := item.Name
			if item.ParentPath != "" {
				parent = item.ParentPath + "." + item.Name
			}
			children, err := m.Meta.ListRecursive(ctx, req.ContainerCode, req.ContainerType, "", item.Zone, parent)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				files = append(files, newStagedFile(child, relUnder(item.ParentPath, &child)))
			}
		} else {
			files = append(files, newStagedFile(*item, item.Name))
		}
	}

	if allowed != nil {
		kept := files[:0]
		for _, f := range files {
			if _, ok := allowed[f.Item.ID]; ok {
				kept = append(kept, f)
			}
		}
		files = kept
	}

	if len(files) == 0 && req.ContainerType == models.ContainerTypeProject {
		return nil, errors.NewEmptySelection()
	}

	zipRequired := folderDownload || len(files) != 1

	now := m.now()
	jobID := fmt.Sprintf("data-download-%d", now.Unix())
	tmpFolder := filepath.Join(m.ScratchRoot,
		fmt.Sprintf("%s%s_%d", req.ContainerType, req.ContainerCode, now.Unix()))

	var source string
	if zipRequired {
		source = tmpFolder + ".zip"
	} else {
		bucket, objectPath, err := objectstore.ParseLocation(files[0].Item.Location)
		if err != nil {
			return nil, err
		}
		url, err := m.Public.PresignGet(ctx, bucket, objectPath, m.PresignExpire)
		if err != nil {
			return nil, err
		}
		source = url
	}

	tokenPayload := map[string]interface{}{
		payloadItemType: models.ItemTypeFile,
	}
	if len(files) > 0 {
		tokenPayload[models.PayloadZone] = files[0].Item.Zone
	}
	if zipRequired {
		tokenPayload[payloadItemName] = filepath.Base(source)
		tokenPayload[payloadItemParentPath] = ""
	} else {
		tokenPayload[payloadItemID] = files[0].Item.ID
		tokenPayload[payloadItemName] = files[0].Item.Name
		tokenPayload[payloadItemParentPath] = files[0].Item.ParentPath
	}

	signed, record, err := m.issueAndRecord(ctx, req, jobID, source, tokenPayload)
	if err != nil {
		return nil, err
	}

	creds, _ := utils.CredentialsFrom(ctx)
	// the worker mutates its own copy; the returned record stays at the
	// ZIPPING snapshot handed to the caller
	job := &archiveJob{
		record:      record.Clone(),
		files:       files,
		tmpFolder:   tmpFolder,
		zipRequired: zipRequired,
		creds:       creds,
	}
	m.spawn(func() { m.runWorker(job) })

	zone := models.ZoneCore
	if len(files) > 0 {
		zone = files[0].Item.Zone
	}
	klog.InfoS("download job prepared",
		"job_id", jobID, "container", req.ContainerCode, "zone", zoneLabel(zone),
		"files", len(files), "folder_download", folderDownload, "zip", zipRequired)
	return &PrepareResult{Record: record, Token: signed}, nil
}

// PrepareDataset stages a whole-dataset download: every file of the
// dataset plus its schema documents, always zipped. An empty dataset is
// allowed; the archive then carries schemas only.
func (m *Manager) PrepareDataset(ctx context.Context, code, operator, sessionID string) (*PrepareResult, error) {
	container, err := m.Containers.CheckDataset(ctx, code)
	if err != nil {
		return nil, err
	}

	items, err := m.Meta.ListRecursive(ctx, code, models.ContainerTypeDataset, operator, models.ZoneCore, "")
	if err != nil {
		return nil, err
	}
	files := make([]stagedFile, 0, len(items))
	for _, item := range items {
		rel := "data/" + relUnder("", &item)
		files = append(files, newStagedFile(item, rel))
	}

	now := m.now()
	jobID := fmt.Sprintf("data-download-%d", now.Unix())
	tmpFolder := filepath.Join(m.ScratchRoot,
		fmt.Sprintf("%s%s_%d", models.ContainerTypeDataset, code, now.Unix()))
	source := tmpFolder + ".zip"

	req := &PrepareRequest{
		Operator:      operator,
		ContainerCode: code,
		ContainerType: models.ContainerTypeDataset,
		SessionID:     sessionID,
	}
	tokenPayload := map[string]interface{}{
		models.PayloadZone:    models.ZoneCore,
		payloadItemType:       models.ItemTypeFile,
		payloadItemName:       filepath.Base(source),
		payloadItemParentPath: "",
	}
	signed, record, err := m.issueAndRecord(ctx, req, jobID, source, tokenPayload)
	if err != nil {
		return nil, err
	}

	creds, _ := utils.CredentialsFrom(ctx)
	job := &archiveJob{
		record:      record.Clone(),
		files:       files,
		tmpFolder:   tmpFolder,
		zipRequired: true,
		datasetID:   container.ID,
		creds:       creds,
	}
	m.spawn(func() { m.runWorker(job) })

	klog.InfoS("dataset download job prepared",
		"job_id", jobID, "dataset", code, "zone", zoneLabel(models.ZoneCore),
		"files", len(files))
	return &PrepareResult{Record: record, Token: signed}, nil
}

// Status verifies the token and returns the freshest job record it
// refers to.
func (m *Manager) Status(ctx context.Context, tokenString string) (*models.JobRecord, error) {
	claims, err := m.Codec.VerifyDownload(tokenString)
	if err != nil {
		return nil, err
	}
	record, err := m.latestRecord(ctx, claims)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Retrieve verifies the token and resolves it to either a presigned
// redirect or a staged file on disk. Both outcomes mark the job SUCCEED
// and publish the download activity.
func (m *Manager) Retrieve(ctx context.Context, tokenString string) (*RetrieveResult, error) {
	claims, err := m.Codec.VerifyDownload(tokenString)
	if err != nil {
		return nil, err
	}
	filePath := claimString(claims, token.ClaimFilePath)

	var result *RetrieveResult
	if strings.HasPrefix(filePath, "http") {
		result = &RetrieveResult{RedirectURL: filePath}
	} else {
		if _, err := os.Stat(filePath); err != nil {
			return nil, errors.NewFileNotFound(filePath)
		}
		result = &RetrieveResult{FilePath: filePath, FileName: filepath.Base(filePath)}
	}

	m.markSucceed(ctx, claims)
	m.publishDownload(ctx, claims)
	return result, nil
}

// RetrieveDatasetVersion resolves a dataset-version token (issued by the
// dataset service over the same secret) into a presigned redirect.
func (m *Manager) RetrieveDatasetVersion(ctx context.Context, tokenString string) (*RetrieveResult, error) {
	claims, err := m.Codec.VerifyDatasetVersion(tokenString)
	if err != nil {
		return nil, err
	}
	location := claimString(claims, token.ClaimLocation)
	bucket, objectPath, err := objectstore.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	url, err := m.Public.PresignGet(ctx, bucket, objectPath, m.PresignExpire)
	if err != nil {
		return nil, err
	}
	return &RetrieveResult{RedirectURL: url}, nil
}

func (m *Manager) checkContainer(ctx context.Context, containerType, code string) error {
	switch containerType {
	case models.ContainerTypeProject:
		_, err := m.Containers.CheckProject(ctx, code)
		return err
	case models.ContainerTypeDataset:
		_, err := m.Containers.CheckDataset(ctx, code)
		return err
	default:
		return errors.NewBadRequest("unknown container type " + containerType)
	}
}

// issueAndRecord signs the download token, persists the initial ZIPPING
// record and returns both.
func (m *Manager) issueAndRecord(ctx context.Context, req *PrepareRequest, jobID, source string,
	tokenPayload map[string]interface{}) (string, *models.JobRecord, error) {
	signed, err := m.Codec.Issue(map[string]interface{}{
		token.ClaimFilePath:      source,
		token.ClaimContainerCode: req.ContainerCode,
		token.ClaimContainerType: req.ContainerType,
		token.ClaimOperator:      req.Operator,
		token.ClaimSessionID:     req.SessionID,
		token.ClaimJobID:         jobID,
		token.ClaimPayload:       tokenPayload,
	})
	if err != nil {
		return "", nil, err
	}

	payload := map[string]interface{}{models.PayloadHashCode: signed}
	if zone, ok := tokenPayload[models.PayloadZone]; ok {
		payload[models.PayloadZone] = zone
	}
	record := &models.JobRecord{
		SessionID:       req.SessionID,
		JobID:           jobID,
		Source:          source,
		Action:          models.JobAction,
		Status:          models.StatusZipping,
		ContainerCode:   req.ContainerCode,
		Operator:        req.Operator,
		Payload:         payload,
		UpdateTimestamp: m.timestamp(),
	}
	key := jobstore.JobKey(record.SessionID, record.JobID, record.Action,
		record.ContainerCode, record.Operator, record.Source)
	if err := m.Jobs.Set(ctx, key, record); err != nil {
		return "", nil, err
	}
	return signed, record, nil
}

// latestRecord scans the job records the claims point at and returns
// the freshest one.
func (m *Manager) latestRecord(ctx context.Context, claims map[string]interface{}) (*models.JobRecord, error) {
	prefix := jobstore.StatusPrefix(
		claimString(claims, token.ClaimSessionID),
		claimString(claims, token.ClaimJobID),
		models.JobAction,
		claimString(claims, token.ClaimContainerCode),
		claimString(claims, token.ClaimOperator))
	records, err := m.Jobs.ScanByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewJobNotFound()
	}
	latest := &records[0]
	for i := 1; i < len(records); i++ {
		if recordTime(&records[i]) > recordTime(latest) {
			latest = &records[i]
		}
	}
	return latest, nil
}

// markSucceed moves the job the claims point at to SUCCEED. Lookup
// failures only log; the caller is already streaming.
func (m *Manager) markSucceed(ctx context.Context, claims map[string]interface{}) {
	record, err := m.latestRecord(ctx, claims)
	if err != nil {
		klog.ErrorS(err, "cannot mark job succeeded", "job_id", claimString(claims, token.ClaimJobID))
		return
	}
	record.Status = models.StatusSucceed
	record.UpdateTimestamp = m.timestamp()
	key := jobstore.JobKey(record.SessionID, record.JobID, record.Action,
		record.ContainerCode, record.Operator, record.Source)
	if err := m.Jobs.Set(ctx, key, record); err != nil {
		klog.ErrorS(err, "cannot persist SUCCEED", "job_id", record.JobID)
	}
}

// publishDownload emits the item activity event of one successful
// download. Dataset jobs already published from the worker when the
// archive went READY, so they are skipped here. Publish failures are
// logged and swallowed; the download itself has already succeeded.
func (m *Manager) publishDownload(ctx context.Context, claims map[string]interface{}) {
	containerType := claimString(claims, token.ClaimContainerType)
	if containerType == models.ContainerTypeDataset {
		return
	}
	payload, _ := claims[token.ClaimPayload].(map[string]interface{})
	itemName, _ := payload[payloadItemName].(string)

	act := &activity.ItemActivity{
		ItemType:      models.ItemTypeFile,
		ItemName:      itemName,
		ContainerCode: claimString(claims, token.ClaimContainerCode),
		ContainerType: containerType,
		User:          claimString(claims, token.ClaimOperator),
	}
	if id, ok := payload[payloadItemID].(string); ok {
		act.ItemID = &id
	}
	if pp, ok := payload[payloadItemParentPath].(string); ok {
		act.ItemParentPath = pp
	}
	if zone, ok := payload[models.PayloadZone].(float64); ok {
		act.Zone = int(zone)
	}
	if err := m.Activity.PublishItemDownload(ctx, act); err != nil {
		klog.ErrorS(err, "download activity not published",
			"container_type", containerType, "item", itemName)
	}
}

func (m *Manager) timestamp() string {
	return strconv.FormatInt(m.now().Unix(), 10)
}

func recordTime(record *models.JobRecord) int64 {
	ts, err := strconv.ParseInt(record.UpdateTimestamp, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

// zoneLabel renders a numeric zone as its configured display label.
func zoneLabel(zone int) string {
	if zone == models.ZoneGreen {
		return commonconfig.GetGreenZoneLabel()
	}
	return commonconfig.GetCoreZoneLabel()
}

func claimString(claims map[string]interface{}, name string) string {
	val, _ := claims[name].(string)
	return val
}

// relUnder computes the zip-relative path of child below the selection
// root whose parent path is rootParent. Dotted ancestry becomes
// directory separators.
func relUnder(rootParent string, child *models.Item) string {
	parent := child.ParentPath
	if rootParent != "" {
		parent = strings.TrimPrefix(parent, rootParent+".")
	}
	if parent == "" {
		return child.Name
	}
	return strings.ReplaceAll(parent, ".", "/") + "/" + child.Name
}

func newStagedFile(item models.Item, relPath string) stagedFile {
	item.Location = item.Storage.LocationURI
	return stagedFile{Item: item, RelPath: relPath}
}
