// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package csp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// nonceBytes yields a 128-bit token.
const nonceBytes = 16

type ctxKey struct{}

// NewNonce returns a fresh base64 nonce drawn from the system CSPRNG.
func NewNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ContextWithNonce stores the response nonce in ctx.
func ContextWithNonce(ctx context.Context, nonce string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, nonce)
}

// NonceFromContext returns the response nonce, or "" when none was issued.
func NonceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
