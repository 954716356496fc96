package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// dropFile is the document the native bridge writes for the current day.
type dropFile struct {
	Day         string    `json:"day"` // YYYY-MM-DD
	WaterLiters []float64 `json:"water_liters"`
	Steps       float64   `json:"steps"`
}

// FileSource reads samples from a drop file maintained by the platform
// bridge. Stale files (a different day) yield no samples.
type FileSource struct {
	path string
}

// NewFileSource creates a sample source over a bridge drop file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Samples implements SampleSource.
func (f *FileSource) Samples(_ context.Context, dataType DataType, rangeStart, _ time.Time) ([]Sample, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read samples file: %w", err)
	}

	var doc dropFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode samples file: %w", err)
	}

	if doc.Day != rangeStart.Format("2006-01-02") {
		return nil, nil
	}

	switch dataType {
	case DataWater:
		samples := make([]Sample, 0, len(doc.WaterLiters))
		for _, l := range doc.WaterLiters {
			samples = append(samples, Sample{Value: l, Unit: "L"})
		}
		return samples, nil
	case DataSteps:
		return []Sample{{Value: doc.Steps, Unit: "count"}}, nil
	default:
		return nil, fmt.Errorf("unknown data type %q", dataType)
	}
}
