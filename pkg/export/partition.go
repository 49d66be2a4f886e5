package export

import (
	"github.com/twmb/murmur3"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// Shard assigns a session to one of n shards. Every row of a session lands
// in the same shard, so per-session analysis never crosses output files.
// Bucketing follows the Iceberg convention: murmur3 x86 32-bit with seed 0,
// sign bit cleared, modulo the shard count.
func Shard(sessionID string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(murmur3.StringSum32(sessionID)&0x7FFFFFFF) % n
}

// PartitionDataset splits a dataset into n shard datasets by session hash.
// Row order within a shard follows the input. Shards may be empty.
func PartitionDataset(ds *telemetry.Dataset, n int) []*telemetry.Dataset {
	if n < 1 {
		n = 1
	}

	shards := make([]*telemetry.Dataset, n)
	for i := range shards {
		shards[i] = &telemetry.Dataset{}
	}
	for _, row := range ds.Rows {
		s := Shard(row.SessionID, n)
		shards[s].Rows = append(shards[s].Rows, row)
	}
	return shards
}
