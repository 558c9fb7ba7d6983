/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package models

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Code     int         `json:"code"`
	Result   interface{} `json:"result"`
	ErrorMsg string      `json:"error_msg"`
}
