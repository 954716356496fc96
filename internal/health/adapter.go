package health

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"aquatrack/internal/metrics"
)

// DataType selects which sample series to query from the platform.
type DataType string

const (
	DataWater DataType = "water"
	DataSteps DataType = "steps"
)

// Sample is one raw reading from the health platform. Water values are
// expressed in liters, steps as a count.
type Sample struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SampleSource is the platform bridge the adapter queries. Implemented
// by the native health integration; tests use an in-memory fake.
type SampleSource interface {
	Samples(ctx context.Context, dataType DataType, rangeStart, rangeEnd time.Time) ([]Sample, error)
}

// Adapter converts raw platform samples into the day's totals. Any query
// failure resolves to 0 so callers only ever branch on magnitude; missing
// health data degrades the recommendation instead of blocking it.
type Adapter struct {
	src    SampleSource
	logger zerolog.Logger
	now    func() time.Time
}

// NewAdapter creates an adapter over a platform sample source.
func NewAdapter(src SampleSource, logger zerolog.Logger) *Adapter {
	return &Adapter{src: src, logger: logger, now: time.Now}
}

// WaterIntakeMl returns today's total water intake in milliliters.
func (a *Adapter) WaterIntakeMl(ctx context.Context) int {
	samples, err := a.query(ctx, DataWater)
	if err != nil {
		return 0
	}

	var liters float64
	for _, s := range samples {
		liters += s.Value
	}
	return int(math.Round(liters * 1000))
}

// StepCount returns today's step count.
func (a *Adapter) StepCount(ctx context.Context) int {
	samples, err := a.query(ctx, DataSteps)
	if err != nil {
		return 0
	}

	var steps float64
	for _, s := range samples {
		steps += s.Value
	}
	return int(math.Round(steps))
}

func (a *Adapter) query(ctx context.Context, dt DataType) ([]Sample, error) {
	now := a.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	samples, err := a.src.Samples(ctx, dt, dayStart, now)
	if err != nil {
		a.logger.Debug().Err(err).Str("data_type", string(dt)).Msg("health query failed, using zero")
		metrics.IncHealthQueryFailure(string(dt))
		return nil, err
	}
	return samples, nil
}
