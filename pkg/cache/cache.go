// Package cache holds computed validation results keyed by workflow and graph content.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Cache stores serialized results. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key and whether it was found and still fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Invalidate drops every entry that belongs to a workflow.
	Invalidate(ctx context.Context, workflowID string) error
	// Purge drops expired entries and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}

// Key derives a cache key from the workflow id, the operation and a content hash of payload. The
// same snapshot and options always map to the same key.
func Key(workflowID, operation string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to hash cache payload: %w", err)
	}

	sum := sha256.Sum256(data)

	return workflowPrefix(workflowID) + operation + ":" + hex.EncodeToString(sum[:]), nil
}

// WorkflowOf returns the workflow id a key was derived for.
func WorkflowOf(key string) string {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return ""
	}

	rest := key[:i]

	j := strings.LastIndex(rest, ":")
	if j < 0 {
		return ""
	}

	return rest[:j]
}

func workflowPrefix(workflowID string) string {
	return workflowID + ":"
}
