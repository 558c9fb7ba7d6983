/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package objectstore

import (
	"strings"

	"github.com/PilotDataPlatform/download/pkg/errors"
)

// ParseLocation splits a storage location URI of the form
// <scheme>://<endpoint>/<bucket>/<object_path> into bucket and object
// path. The object path may itself contain slashes. Nested schemes such
// as minio://http://host/bucket/path resolve from the last "//".
func ParseLocation(location string) (string, string, error) {
	rest := location
	if idx := strings.LastIndex(location, "//"); idx >= 0 {
		rest = location[idx+2:]
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return "", "", errors.NewInternalError("malformed storage location: " + location)
	}
	return parts[1], parts[2], nil
}
