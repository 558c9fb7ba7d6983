/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package approval

import (
	"time"

	"github.com/google/uuid"
)

// EntityType mirrors the metadata item types inside an approval request.
type EntityType string

const (
	EntityTypeFile   EntityType = "file"
	EntityTypeFolder EntityType = "folder"
)

// ReviewStatus is the reviewer's decision on one entity.
type ReviewStatus string

const (
	ReviewDenied   ReviewStatus = "denied"
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
)

// CopyStatus tracks whether an approved entity was copied to its
// destination zone.
type CopyStatus string

const (
	CopyPending CopyStatus = "pending"
	CopyCopied  CopyStatus = "copied"
)

// ApprovalEntity is one row of the approval_entity table. EntityID is
// the metadata item the row refers to.
type ApprovalEntity struct {
	ID           uuid.UUID    `db:"id"`
	RequestID    uuid.UUID    `db:"request_id"`
	EntityID     string       `db:"entity_id"`
	EntityType   EntityType   `db:"entity_type"`
	ReviewStatus ReviewStatus `db:"review_status"`
	CopyStatus   CopyStatus   `db:"copy_status"`
	Name         string       `db:"name"`
	CreatedAt    time.Time    `db:"created_at"`
}
