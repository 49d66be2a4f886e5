package catalog

import (
	"encoding/binary"
	"encoding/json"
)

// RunRecord is the BoltDB value for one ingestion run.
type RunRecord struct {
	ID string `json:"id"`
	// Microseconds since epoch
	StartedAt int64 `json:"started_at"`

	Format string `json:"format,omitempty"`
	Out    string `json:"out,omitempty"`

	Files    int `json:"files"`
	Failed   int `json:"failed,omitempty"`
	Skipped  int `json:"skipped,omitempty"`
	Rows     int `json:"rows"`
	Filtered int `json:"filtered,omitempty"`
}

// Encode serializes the RunRecord to JSON bytes.
func (r *RunRecord) Encode() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}

func DecodeRunRecord(data []byte) *RunRecord {
	if len(data) == 0 {
		return nil
	}
	var r RunRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}

// FileRecord is the BoltDB value for one ingested source file, keyed by path.
type FileRecord struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id"`
	Checksum  string `json:"checksum"`
	Rows      int    `json:"rows"`
	Status    string `json:"status"`
	RunID     string `json:"run_id"`
	// Microseconds since epoch
	IngestedAt int64 `json:"ingested_at"`
}

// Encode serializes the FileRecord to JSON bytes.
func (r *FileRecord) Encode() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}

func DecodeFileRecord(data []byte) *FileRecord {
	if len(data) == 0 {
		return nil
	}
	var r FileRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	return &r
}

// EncodeUint64 converts a uint64 to big-endian bytes for BoltDB keys.
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// DecodeUint64 converts big-endian bytes back to uint64.
func DecodeUint64(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}
