/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package download_handlers

import "github.com/google/uuid"

// FileRef selects one item of a download request by id.
type FileRef struct {
	ID string `json:"id" binding:"required"`
}

// PreDownloadRequest is the body of POST /v2/download/pre/.
type PreDownloadRequest struct {
	Files             []FileRef  `json:"files" binding:"required,min=1,dive"`
	Operator          string     `json:"operator" binding:"required"`
	ContainerCode     string     `json:"container_code" binding:"required"`
	ContainerType     string     `json:"container_type" binding:"required,oneof=project dataset"`
	ApprovalRequestID *uuid.UUID `json:"approval_request_id"`
}

// DatasetPreRequest is the body of POST /v2/dataset/download/pre.
type DatasetPreRequest struct {
	DatasetCode string `json:"dataset_code" binding:"required"`
	Operator    string `json:"operator" binding:"required"`
}
