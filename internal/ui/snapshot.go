package ui

import (
	"github.com/keilerkonzept/creature-dash/internal/aggregate"
	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// Snapshot is a loaded collection together with everything derived from it.
// It is built once per load and never changed afterwards.
type Snapshot struct {
	Records []creature.Record
	Buckets []aggregate.Bucket
	Tallest []creature.Record
	Types   []aggregate.TypeCount

	byID map[int]int
}

// NewSnapshot derives the chart data for records.
func NewSnapshot(records []creature.Record, topN, topTypes int) *Snapshot {
	s := &Snapshot{
		Records: records,
		Buckets: aggregate.BucketizeByWeightRatio(records),
		Tallest: aggregate.TopNByHeight(records, topN),
		Types:   aggregate.TypeLeaderboard(records, topTypes),
		byID:    make(map[int]int, len(records)),
	}
	for i, r := range records {
		s.byID[r.ID] = i
	}
	return s
}

// Lookup returns the record with the given id, pointing into Records.
func (s *Snapshot) Lookup(id int) *creature.Record {
	if s == nil {
		return nil
	}
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return &s.Records[i]
}
