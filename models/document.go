package models

import (
	"encoding/json"
	"fmt"
)

// MaxBatchWrites is the largest number of writes one atomic batch may carry.
const MaxBatchWrites = 50

// SubscriptionTarget selects what a live subscription follows.
type SubscriptionTarget string

const (
	TargetConfig        SubscriptionTarget = "config"
	TargetInstitutions  SubscriptionTarget = CollectionInstitutions
	TargetBeneficiaries SubscriptionTarget = CollectionBeneficiaries
)

// ParseSubscriptionTarget validates a target received over the wire.
func ParseSubscriptionTarget(s string) (SubscriptionTarget, error) {
	switch t := SubscriptionTarget(s); t {
	case TargetConfig, TargetInstitutions, TargetBeneficiaries:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
}

// Document is one remote document of a collection.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// WriteOp is one element of a batched write. Data is merged into the
// existing document unless Delete is set.
type WriteOp struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data,omitempty"`
	Delete     bool            `json:"delete,omitempty"`
}

// BatchRequest is the body of a batched write.
type BatchRequest struct {
	Writes []WriteOp `json:"writes"`
}

// ChangeEvent is a snapshot delivered by a live subscription. Config is set
// for [TargetConfig], Documents for collection targets.
type ChangeEvent struct {
	Target    SubscriptionTarget `json:"target"`
	Config    json.RawMessage    `json:"config,omitempty"`
	Documents []Document         `json:"documents,omitempty"`
}

// APIKeyHeader carries the project API key on every document-store request.
const APIKeyHeader = "X-API-Key"

// BodyHashHeader carries the hex HMAC-SHA256 of a write request body when
// body signing is configured.
const BodyHashHeader = "HashSHA256"
