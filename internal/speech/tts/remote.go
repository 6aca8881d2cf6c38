package tts

import (
	"context"
	"quicknote/internal/api"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
)

// RemoteEngine delegates voices and synthesis to the QuickNote backend
type RemoteEngine struct {
	client *api.Client
}

func NewRemoteEngine(client *api.Client) *RemoteEngine {
	return &RemoteEngine{client: client}
}

func (r *RemoteEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	return r.client.Voices(ctx)
}

func (r *RemoteEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	return r.client.Synthesize(ctx, req)
}
