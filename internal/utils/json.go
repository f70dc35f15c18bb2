package utils

import (
	"encoding/json"
	"log/slog"
)

// DeserializeFromJSON unmarshals message payloads, logging decode failures
// so malformed messages can be skipped instead of crashing a consumer.
func DeserializeFromJSON[T any](data []byte, out *T) error {
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("[Utils] Failed to deserialize message",
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
