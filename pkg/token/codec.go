/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package token

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PilotDataPlatform/download/pkg/errors"
)

// Claim names used by download tokens.
const (
	ClaimFilePath      = "file_path"
	ClaimLocation      = "location"
	ClaimContainerCode = "container_code"
	ClaimContainerType = "container_type"
	ClaimOperator      = "operator"
	ClaimSessionID     = "session_id"
	ClaimJobID         = "job_id"
	ClaimPayload       = "payload"
	ClaimIssuedAt      = "iat"
	ClaimExpiresAt     = "exp"
)

// Codec signs and verifies download tokens with a shared symmetric
// secret. Download tokens require a file_path claim; dataset version
// tokens (issued by the dataset service with the same secret) require a
// location claim instead.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret and issuing tokens valid
// for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs the given claims, filling iat and exp.
func (c *Codec) Issue(claims map[string]interface{}) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims[ClaimIssuedAt] = now.Unix()
	mapClaims[ClaimExpiresAt] = now.Add(c.ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(c.secret)
	if err != nil {
		return "", errors.NewInternalError(err.Error())
	}
	return signed, nil
}

// VerifyDownload validates a download token and returns its claims.
func (c *Codec) VerifyDownload(tokenString string) (map[string]interface{}, error) {
	return c.verify(tokenString, ClaimFilePath)
}

// VerifyDatasetVersion validates a dataset version token and returns its
// claims.
func (c *Codec) VerifyDatasetVersion(tokenString string) (map[string]interface{}, error) {
	return c.verify(tokenString, ClaimLocation)
}

func (c *Codec) verify(tokenString, requiredClaim string) (map[string]interface{}, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewTokenExpired("token expired")
		}
		return nil, errors.NewTokenInvalid("invalid token: " + err.Error())
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewTokenInvalid("invalid token claims")
	}
	// a token without the required claim is probably forged
	if _, ok := claims[requiredClaim]; !ok {
		return nil, errors.NewTokenInvalid("required claim " + requiredClaim + " missing")
	}
	return claims, nil
}
