// Cross-platform eSpeak implementation
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"strconv"
	"strings"
)

// ESpeakEngine implements TTS using eSpeak/eSpeak-NG, reading WAV from stdout
type ESpeakEngine struct {
	config     Config
	espeakPath string
}

// newESpeakEngine creates a new eSpeak TTS engine
func newESpeakEngine(config Config) (*ESpeakEngine, error) {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return nil, fmt.Errorf("eSpeak not found: %w", err)
	}

	engine := &ESpeakEngine{
		config:     config,
		espeakPath: espeakPath,
	}

	if err := engine.testInstallation(); err != nil {
		return nil, fmt.Errorf("eSpeak test failed: %w", err)
	}

	return engine, nil
}

func findESpeakExecutable() (string, error) {
	candidates := []string{"espeak-ng", "espeak"}

	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func (e *ESpeakEngine) testInstallation() error {
	return exec.Command(e.espeakPath, "--version").Run()
}

func (e *ESpeakEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	cmd := exec.CommandContext(ctx, e.espeakPath, e.args(req)...)
	cmd.Stdin = strings.NewReader(req.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("eSpeak failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return &speech.Audio{Data: stdout.Bytes(), ContentType: "audio/wav"}, nil
}

// args builds the command line. Text goes through stdin; rate is words per minute.
func (e *ESpeakEngine) args(req speech.Request) []string {
	args := []string{"--stdout", "--stdin"}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = e.config.Voice
	}
	if voiceID != "" && voiceID != "default" {
		args = append(args, "-v", voiceID)
	}

	rate := req.Rate
	if rate <= 0 {
		rate = voice.DefaultRate
	}
	return append(args, "-s", strconv.Itoa(rate))
}

func (e *ESpeakEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	output, err := exec.CommandContext(ctx, e.espeakPath, "--voices").Output()
	if err != nil {
		return nil, err
	}

	return parseESpeakVoices(string(output)), nil
}

func parseESpeakVoices(output string) []voice.Voice {
	lines := strings.Split(output, "\n")
	voices := make([]voice.Voice, 0)

	for i, line := range lines {
		// Skip header line
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		// Pty Language Age/Gender VoiceName          File          Other Languages
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			voices = append(voices, voice.Voice{
				ID:   fields[1],
				Name: strings.ReplaceAll(fields[3], "_", " "),
				Lang: []string{fields[1]},
			})
		}
	}

	return voices
}
