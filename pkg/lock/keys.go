/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package lock

import (
	"fmt"

	"github.com/PilotDataPlatform/download/pkg/models"
)

// BucketFor maps an item onto its object store bucket. Project buckets
// carry a zone prefix; dataset buckets are the bare dataset code.
func BucketFor(item *models.Item) string {
	if item.ContainerType == models.ContainerTypeDataset {
		return item.ContainerCode
	}
	if item.Zone == models.ZoneGreen {
		return "gr-" + item.ContainerCode
	}
	return "core-" + item.ContainerCode
}

// ResourceKey builds the lock key of one item. Items at bucket root have
// no parent path segment.
func ResourceKey(bucket, parentPath, name string) string {
	if parentPath == "" {
		return fmt.Sprintf("%s/%s", bucket, name)
	}
	return fmt.Sprintf("%s/%s/%s", bucket, parentPath, name)
}

// KeyFor builds the lock key of item directly.
func KeyFor(item *models.Item) string {
	return ResourceKey(BucketFor(item), item.ParentPath, item.Name)
}
