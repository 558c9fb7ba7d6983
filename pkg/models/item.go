/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package models

const (
	ItemTypeFile   = "file"
	ItemTypeFolder = "folder"

	ContainerTypeProject = "project"
	ContainerTypeDataset = "dataset"

	ZoneGreen = 0
	ZoneCore  = 1
)

// ItemStorage holds the object store location of a file item. Folders
// never carry a location URI.
type ItemStorage struct {
	LocationURI string `json:"location_uri"`
}

// Item is one file or folder descriptor as returned by the metadata
// service. ParentPath is the dotted ancestry; empty for top level items.
type Item struct {
	ID            string      `json:"id"`
	ParentPath    string      `json:"parent_path"`
	Type          string      `json:"type"`
	Zone          int         `json:"zone"`
	Name          string      `json:"name"`
	Owner         string      `json:"owner"`
	ContainerCode string      `json:"container_code"`
	ContainerType string      `json:"container_type"`
	Archived      bool        `json:"archived"`
	Storage       ItemStorage `json:"storage"`

	// Location is the flattened Storage.LocationURI, filled in when the
	// item is queued for download.
	Location string `json:"location,omitempty"`
}

// IsFolder returns whether the item is a folder.
func (i *Item) IsFolder() bool {
	return i.Type == ItemTypeFolder
}

// IsFile returns whether the item is a file.
func (i *Item) IsFile() bool {
	return i.Type == ItemTypeFile
}
