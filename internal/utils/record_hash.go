package utils

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxhash64 of the JSON encoding of v. encoding/json
// sorts map keys, so equal values always hash equally.
func ContentHash(v any) (uint64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("error encoding value for hashing: %w", err)
	}

	return xxhash.Sum64(data), nil
}

// HashBytes returns the xxhash64 of data.
func HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
