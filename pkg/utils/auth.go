/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import "context"

// Credentials are the caller-provided tokens forwarded as-is to the
// upstream services. No validation happens here.
type Credentials struct {
	Authorization string
	RefreshToken  string
}

type credentialsKey struct{}

// WithCredentials attaches the caller credentials to the context.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom extracts caller credentials attached by
// WithCredentials, if any.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// HeaderPairs flattens the credentials into header key/value pairs for
// the HTTP client, skipping empty values.
func (c Credentials) HeaderPairs() []string {
	var pairs []string
	if c.Authorization != "" {
		pairs = append(pairs, "Authorization", c.Authorization)
	}
	if c.RefreshToken != "" {
		pairs = append(pairs, "Refresh-Token", c.RefreshToken)
	}
	return pairs
}
