// Package codec is the wire format of a dataset: a JSON object mapping
// category key to an array of {question, answer, detail}, pretty printed
// with a two space indent.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
)

// ContentType of encoded snapshots.
const ContentType = "application/json"

// Encode renders a snapshot. HTML characters are written verbatim.
func Encode(s aggregates.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a snapshot. The top level value must be an object.
func Decode(data []byte) (aggregates.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return aggregates.Snapshot{}, fmt.Errorf("decode snapshot: expected a JSON object")
	}
	var s aggregates.Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
