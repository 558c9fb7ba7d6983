/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package models

// JobStatus is the lifecycle state of one download job.
type JobStatus string

const (
	StatusInit      JobStatus = "INIT"
	StatusZipping   JobStatus = "ZIPPING"
	StatusReady     JobStatus = "READY_FOR_DOWNLOADING"
	StatusSucceed   JobStatus = "SUCCEED"
	StatusCancelled JobStatus = "CANCELLED"
)

// JobAction is the action label shared by every download job record.
const JobAction = "data_download"

// Payload keys carried inside a job record.
const (
	PayloadHashCode = "hash_code"
	PayloadErrorMsg = "error_msg"
	PayloadZone     = "zone"
)

// JobRecord is the persisted progress record of one download job. Every
// update overwrites the full record; there is no read-modify-write.
type JobRecord struct {
	SessionID       string                 `json:"session_id"`
	JobID           string                 `json:"job_id"`
	Source          string                 `json:"source"`
	Action          string                 `json:"action"`
	Status          JobStatus              `json:"status"`
	ContainerCode   string                 `json:"container_code"`
	Operator        string                 `json:"operator"`
	Payload         map[string]interface{} `json:"payload"`
	UpdateTimestamp string                 `json:"update_timestamp"`
}

// Clone returns a deep copy of the record; the payload map is copied
// too, so the copy can be mutated independently.
func (r *JobRecord) Clone() *JobRecord {
	clone := *r
	clone.Payload = make(map[string]interface{}, len(r.Payload))
	for key, val := range r.Payload {
		clone.Payload[key] = val
	}
	return &clone
}

// IsTerminal returns whether the status allows no further transition.
func (s JobStatus) IsTerminal() bool {
	return s == StatusSucceed || s == StatusCancelled
}
