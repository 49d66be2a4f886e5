package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardRange(t *testing.T) {
	for n := 1; n <= 8; n++ {
		s := Shard("morning", n)
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, n)
		assert.Equal(t, s, Shard("morning", n))
	}
	assert.Equal(t, 0, Shard("anything", 1))
	assert.Equal(t, 0, Shard("anything", 0))
}

func TestPartitionDatasetKeepsSessionsTogether(t *testing.T) {
	ds := sampleDataset()
	shards := PartitionDataset(ds, 4)
	require.Len(t, shards, 4)

	total := 0
	seen := map[string]int{}
	for i, shard := range shards {
		total += len(shard.Rows)
		for _, row := range shard.Rows {
			if prev, ok := seen[row.SessionID]; ok {
				assert.Equal(t, prev, i, "session %s split across shards", row.SessionID)
			}
			seen[row.SessionID] = i
		}
	}
	assert.Equal(t, len(ds.Rows), total)

	morning := shards[Shard("morning", 4)]
	assert.Equal(t, "00:02:10.5", morning.Rows[0].SplitGPS)
	assert.Equal(t, "00:02:11.0", morning.Rows[1].SplitGPS)
}

func TestPartitionDatasetSingleShard(t *testing.T) {
	shards := PartitionDataset(sampleDataset(), 0)
	require.Len(t, shards, 1)
	assert.Len(t, shards[0].Rows, 3)
}
