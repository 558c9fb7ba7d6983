/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package jobstore

import "fmt"

// Job records share one cache namespace. Callers never assemble keys by
// hand; the helpers below are the only places the format lives.
const keyNamespace = "dataaction"

// JobKey returns the full cache key of one job record.
func JobKey(sessionID, jobID, action, containerCode, operator, source string) string {
	return fmt.Sprintf("%s:%s:Container:%s:%s:%s:%s:%s",
		keyNamespace, sessionID, jobID, action, containerCode, operator, source)
}

// StatusPrefix returns the scan prefix matching every record of one job
// regardless of its source path.
func StatusPrefix(sessionID, jobID, action, containerCode, operator string) string {
	return fmt.Sprintf("%s:%s:Container:%s:%s:%s:%s",
		keyNamespace, sessionID, jobID, action, containerCode, operator)
}

// SessionPrefix returns the prefix matching every record of one session.
func SessionPrefix(sessionID string) string {
	return fmt.Sprintf("%s:%s", keyNamespace, sessionID)
}
