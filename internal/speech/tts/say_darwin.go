//go:build darwin

package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"strconv"
	"strings"
)

// SayEngine uses the macOS 'say' command, writing WAV to a temporary file
type SayEngine struct {
	config Config
}

func newSayEngine(config Config) *SayEngine {
	return &SayEngine{config: config}
}

func (s *SayEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	dir, err := os.MkdirTemp("", "quicknote-say")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "speech.wav")

	args := []string{"--file-format=WAVE", "--data-format=LEI16@22050", "-o", path}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = s.config.Voice
	}
	if voiceID != "" && voiceID != "default" {
		args = append(args, "-v", voiceID)
	}

	rate := req.Rate
	if rate <= 0 {
		rate = voice.DefaultRate
	}
	args = append(args, "-r", strconv.Itoa(rate), "-f", "-")

	cmd := exec.CommandContext(ctx, "say", args...)
	cmd.Stdin = strings.NewReader(req.Text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("say failed: %w: %s", err, out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	return &speech.Audio{Data: data, ContentType: "audio/wav"}, nil
}

func (s *SayEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	output, err := exec.CommandContext(ctx, "say", "-v", "?").Output()
	if err != nil {
		return nil, err
	}

	return parseSayVoices(string(output)), nil
}
