package models

import "fmt"

// MetricPair holds the most recent and the previous value of one metric.
type MetricPair struct {
	New int `json:"new"`
	Old int `json:"old"`
}

// MetricsRecord describes a user's practice state: the lesson group being
// worked on plus the speed (WPM), accuracy (percent) and score pairs.
// It is a plain value; persistence lives in the store package.
type MetricsRecord struct {
	LessonIdx int
	Speed     MetricPair
	Accuracy  MetricPair
	Score     MetricPair
}

// DefaultRecord is the state of a fresh account or a first-time visitor.
func DefaultRecord() MetricsRecord {
	return MetricsRecord{}
}

// Validate checks the record against the domain invariants. maxLessonIdx is
// the index of the final lesson group.
func (r MetricsRecord) Validate(maxLessonIdx int) error {
	if r.LessonIdx < 0 || r.LessonIdx > maxLessonIdx {
		return fmt.Errorf("lessonIdx %d out of range [0, %d]", r.LessonIdx, maxLessonIdx)
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{"speed.new", r.Speed.New}, {"speed.old", r.Speed.Old},
		{"score.new", r.Score.New}, {"score.old", r.Score.Old},
	} {
		if p.value < 0 {
			return fmt.Errorf("%s must not be negative", p.name)
		}
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{"accuracy.new", r.Accuracy.New}, {"accuracy.old", r.Accuracy.Old},
	} {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%s must be a percentage in [0, 100]", p.name)
		}
	}
	return nil
}

// ClientMetrics is the nested metrics object of the browser-storage layout.
type ClientMetrics struct {
	Speed    MetricPair `json:"speed"`
	Accuracy MetricPair `json:"accuracy"`
	Score    MetricPair `json:"score"`
}

// ClientRecord is the wire and browser-storage representation of a
// MetricsRecord: {"lessonIdx": n, "metrics": {"speed": {...}, ...}}.
type ClientRecord struct {
	LessonIdx int           `json:"lessonIdx"`
	Metrics   ClientMetrics `json:"metrics"`
}

// Client converts the record to its wire representation.
func (r MetricsRecord) Client() ClientRecord {
	return ClientRecord{
		LessonIdx: r.LessonIdx,
		Metrics: ClientMetrics{
			Speed:    r.Speed,
			Accuracy: r.Accuracy,
			Score:    r.Score,
		},
	}
}

// Record converts the wire representation back to the value type.
func (c ClientRecord) Record() MetricsRecord {
	return MetricsRecord{
		LessonIdx: c.LessonIdx,
		Speed:     c.Metrics.Speed,
		Accuracy:  c.Metrics.Accuracy,
		Score:     c.Metrics.Score,
	}
}
