/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const DownloadPrefix = "Download."

/*
   5-digit Error Code Convention: [xx][yyy]
   [xx] Business ID (00-99), used to distinguish errors from different concerns.
   00: General errors
   01: Token errors
   02: Resource lookup errors
   03: Worker-side errors
   [yyy] Error code range (000-999)
*/

// public: 00xxx
const (
	InternalError       = DownloadPrefix + "00001"
	BadRequest          = DownloadPrefix + "00002"
	Unauthorized        = DownloadPrefix + "00003"
	UnprocessableEntity = DownloadPrefix + "00004"
	UpstreamUnavailable = DownloadPrefix + "00005"
)

// token: 01xxx
const (
	TokenInvalid = DownloadPrefix + "01001"
	TokenExpired = DownloadPrefix + "01002"
)

// lookup: 02xxx
const (
	ItemNotFound      = DownloadPrefix + "02001"
	JobNotFound       = DownloadPrefix + "02002"
	FileNotFound      = DownloadPrefix + "02003"
	ContainerNotFound = DownloadPrefix + "02004"
	EmptySelection    = DownloadPrefix + "02005"
)

// worker: 03xxx
const (
	ResourceLocked   = DownloadPrefix + "03001"
	ObjectNotFound   = DownloadPrefix + "03002"
	ObjectStoreError = DownloadPrefix + "03003"
)

// ServiceError carries the HTTP status, the service error code and a
// human readable message through the call stack up to the API layer.
type ServiceError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newError(status int, code, message string) *ServiceError {
	return &ServiceError{HTTPStatus: status, Code: code, Message: message}
}

// CodeForError returns the service error code of err, or an empty string
// when err does not carry one.
func CodeForError(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

// HTTPStatusForError maps err onto the HTTP status it should surface as.
// Errors without a service code surface as 500.
func HTTPStatusForError(err error) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsTokenInvalid(err error) bool {
	return CodeForError(err) == TokenInvalid
}

func IsTokenExpired(err error) bool {
	return CodeForError(err) == TokenExpired
}

func IsNotFound(err error) bool {
	switch CodeForError(err) {
	case ItemNotFound, JobNotFound, FileNotFound, ContainerNotFound:
		return true
	}
	return false
}

func IsEmptySelection(err error) bool {
	return CodeForError(err) == EmptySelection
}

func IsResourceLocked(err error) bool {
	return CodeForError(err) == ResourceLocked
}

func IsObjectNotFound(err error) bool {
	return CodeForError(err) == ObjectNotFound
}

func NewInternalError(message string) *ServiceError {
	return newError(http.StatusInternalServerError, InternalError, fmt.Sprintf("Internal error. %s", message))
}

func NewBadRequest(message string) *ServiceError {
	return newError(http.StatusBadRequest, BadRequest, fmt.Sprintf("Bad request. %s", message))
}

func NewUnprocessableEntity(message string) *ServiceError {
	return newError(http.StatusUnprocessableEntity, UnprocessableEntity, message)
}

func NewUpstreamUnavailable(service, message string) *ServiceError {
	return newError(http.StatusInternalServerError, UpstreamUnavailable,
		fmt.Sprintf("%s unavailable: %s", service, message))
}

func NewTokenInvalid(message string) *ServiceError {
	return newError(http.StatusBadRequest, TokenInvalid, message)
}

func NewTokenExpired(message string) *ServiceError {
	return newError(http.StatusUnauthorized, TokenExpired, message)
}

func NewItemNotFound(id string) *ServiceError {
	return newError(http.StatusNotFound, ItemNotFound, fmt.Sprintf("resource %s does not exist", id))
}

func NewJobNotFound() *ServiceError {
	return newError(http.StatusNotFound, JobNotFound, "Job ID not found")
}

func NewFileNotFound(path string) *ServiceError {
	return newError(http.StatusNotFound, FileNotFound, fmt.Sprintf("File not found %s", path))
}

func NewContainerNotFound(containerType, code string) *ServiceError {
	return newError(http.StatusNotFound, ContainerNotFound, fmt.Sprintf("%s %s not found", containerType, code))
}

func NewEmptySelection() *ServiceError {
	return newError(http.StatusBadRequest, EmptySelection, "[Invalid file amount] must greater than 0")
}

func NewResourceLocked(keys []string) *ServiceError {
	return newError(http.StatusConflict, ResourceLocked, fmt.Sprintf("resource %v already in used", keys))
}

func NewObjectNotFound(bucket, objectPath string) *ServiceError {
	return newError(http.StatusNotFound, ObjectNotFound, fmt.Sprintf("object %s/%s does not exist", bucket, objectPath))
}

func NewObjectStoreError(message string) *ServiceError {
	return newError(http.StatusInternalServerError, ObjectStoreError, message)
}
