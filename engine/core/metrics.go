package core

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const AVG_COUNT uint8 = 30

// FrameMetrics keeps a rolling frame time average and an FPS counter, and
// mirrors per-frame pass outcomes into OpenTelemetry instruments.
type FrameMetrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64

	frameDuration metric.Float64Histogram
	passExecuted  metric.Int64Counter
	passSkipped   metric.Int64Counter
	passFailed    metric.Int64Counter
}

func NewFrameMetrics(meter metric.Meter) (*FrameMetrics, error) {
	frameDuration, err := meter.Float64Histogram("frame.duration",
		metric.WithDescription("Duration of a rendered frame"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame.duration histogram: %w", err)
	}
	passExecuted, err := meter.Int64Counter("pass.executed",
		metric.WithDescription("Render passes executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pass.executed counter: %w", err)
	}
	passSkipped, err := meter.Int64Counter("pass.skipped",
		metric.WithDescription("Render passes skipped because a sink did not resolve"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pass.skipped counter: %w", err)
	}
	passFailed, err := meter.Int64Counter("pass.failed",
		metric.WithDescription("Render passes whose execution returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pass.failed counter: %w", err)
	}
	return &FrameMetrics{
		frameDuration: frameDuration,
		passExecuted:  passExecuted,
		passSkipped:   passSkipped,
		passFailed:    passFailed,
	}, nil
}

// Update folds the elapsed seconds of the last frame into the averages.
func (m *FrameMetrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.frameDuration.Record(context.Background(), frameElapsedTime)
}

// RecordPasses adds the outcome of one frame's passes to the counters.
func (m *FrameMetrics) RecordPasses(executed, skipped, failed []string) {
	ctx := context.Background()
	for _, name := range executed {
		m.passExecuted.Add(ctx, 1, metric.WithAttributes(attribute.String("pass", name)))
	}
	for _, name := range skipped {
		m.passSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("pass", name)))
	}
	for _, name := range failed {
		m.passFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("pass", name)))
	}
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the last AVG_COUNT frames.
func (m *FrameMetrics) FrameTime() float64 {
	return m.msAvg
}

func (m *FrameMetrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
