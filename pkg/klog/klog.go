/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package klog

import (
	"flag"
	"strconv"

	"k8s.io/klog/v2"
)

// Init configures klog for this service on a private flag set. With a
// log file the service logs to both file and stderr; without one it
// logs to stderr only. Headers are skipped either way.
func Init(logfilePath string, logFileSize int) error {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)

	settings := map[string]string{
		"skip_log_headers": "true",
	}
	if logfilePath == "" {
		settings["logtostderr"] = "true"
	} else {
		settings["log_file"] = logfilePath
		settings["logtostderr"] = "false"
		settings["alsologtostderr"] = "true"
	}
	if logFileSize > 0 {
		settings["log_file_max_size"] = strconv.Itoa(logFileSize)
	}

	for name, value := range settings {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
