package tts

import (
	"context"
	"fmt"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"strings"
	"time"
)

const mockSampleRate = 8000

// MockTTSEngine synthesizes silence sized to the text, for offline runs and tests.
type MockTTSEngine struct {
	voice string
	rate  int
}

func NewMockTTSEngine(c Config) *MockTTSEngine {
	rate := c.Rate
	if rate <= 0 {
		rate = voice.DefaultRate
	}
	return &MockTTSEngine{
		voice: c.Voice,
		rate:  rate,
	}
}

func (m *MockTTSEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	return []voice.Voice{
		{ID: "Alex", Name: "Alex", Lang: []string{"en_US"}},
		{ID: "Daniel", Name: "Daniel", Lang: []string{"en_GB"}},
		{ID: "Amelie", Name: "Amelie", Lang: []string{"fr_CA"}},
	}, nil
}

func (m *MockTTSEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rate := req.Rate
	if rate <= 0 {
		rate = m.rate
	}

	// words / (words per minute), capped so demos stay short
	words := len(strings.Fields(req.Text))
	duration := time.Duration(float64(words) / float64(rate) * float64(time.Minute))
	if duration > 2*time.Second {
		duration = 2 * time.Second
	}

	samples := make([]int16, int(duration.Seconds()*mockSampleRate))
	return &speech.Audio{
		Data:        speech.EncodeWAV(samples, mockSampleRate),
		ContentType: "audio/wav",
	}, nil
}
