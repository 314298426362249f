// Package snapshot reads and writes the JSON file other tooling consumes.
// Field names and ordering inside a snapshot are part of the contract.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cryptomax/internal/rates"
)

// DefaultPath is where a collection run lands unless overridden.
const DefaultPath = "staking_rates.json"

// Write persists the aggregate to path, creating parent directories as
// needed. Records keep their aggregate order.
func Write(path string, records []rates.RateRecord) error {
	if path == "" {
		path = DefaultPath
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Read loads a previously written snapshot.
func Read(path string) ([]rates.RateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var records []rates.RateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return records, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
