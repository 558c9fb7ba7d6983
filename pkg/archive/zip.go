/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/PilotDataPlatform/download/pkg/errors"
)

// ZipDirectory packs srcDir into srcDir+".zip", preserving the relative
// layout inside the directory. The source directory is left in place.
func ZipDirectory(srcDir string) (string, error) {
	zipPath := srcDir + ".zip"
	out, err := os.Create(zipPath)
	if err != nil {
		return "", errors.NewInternalError(err.Error())
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	walkErr := filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if entry.IsDir() {
			_, err = writer.Create(rel + "/")
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate
		dst, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(dst, src)
		return err
	})
	if walkErr != nil {
		writer.Close()
		os.Remove(zipPath)
		return "", errors.NewInternalError(walkErr.Error())
	}
	if err := writer.Close(); err != nil {
		os.Remove(zipPath)
		return "", errors.NewInternalError(err.Error())
	}
	klog.V(4).InfoS("directory archived", "dir", srcDir, "zip", zipPath)
	return zipPath, nil
}
