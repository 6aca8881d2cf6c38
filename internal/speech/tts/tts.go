// internal/speech/tts/tts.go
package tts

import (
	"context"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
)

type Config struct {
	Type      string
	Voice     string
	Rate      int
	CachePath string
}

// Engine turns text into playable audio and lists the voices it can use
type Engine interface {
	Voices(ctx context.Context) ([]voice.Voice, error)
	Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error)
}

// CacheableEngine extends Engine with cache management capabilities
type CacheableEngine interface {
	Engine
	GetCacheStats() (map[string]interface{}, error)
	ClearCache() error
}
