//go:build !darwin

package tts

import (
	"context"
	"fmt"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
)

type SayEngine struct{}

func newSayEngine(config Config) *SayEngine {
	return &SayEngine{}
}

func (s *SayEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	return nil, fmt.Errorf("say engine only supports macOS")
}

func (s *SayEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	return nil, fmt.Errorf("say engine only supports macOS")
}
