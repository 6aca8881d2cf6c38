package tts

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"strings"

	"cloud.google.com/go/texttospeech/apiv1"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

const (
	googleDefaultVoice = "en-GB-Chirp3-HD-Umbriel"
	googleChunkLimit   = 4800 // a little under 5000 to be safe
)

type GoogleClassicTTSEngine struct {
	client       *texttospeech.Client
	cacheRootDir string
}

func newGoogleClassicTTSEngine(cacheDir string) (*GoogleClassicTTSEngine, error) {
	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir: %w", err)
		}
	}

	return &GoogleClassicTTSEngine{
		client:       client,
		cacheRootDir: cacheDir,
	}, nil
}

func (g *GoogleClassicTTSEngine) Voices(ctx context.Context) ([]voice.Voice, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}

	voices := make([]voice.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, voice.Voice{
			ID:   v.Name,
			Name: v.Name,
			Lang: v.LanguageCodes,
		})
	}
	return voices, nil
}

func (g *GoogleClassicTTSEngine) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	voiceName := req.VoiceID
	if voiceName == "" || voiceName == "default" {
		voiceName = googleDefaultVoice
	}

	cachePath := g.cacheFile(req.Text, voiceName, req.Rate)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			logrus.WithField("file", cachePath).Debug("Using cached audio")
			return &speech.Audio{Data: data, ContentType: "audio/mpeg"}, nil
		}
	}

	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}

	// Chirp voices don't support speakingRate, skip it for them
	if !strings.Contains(strings.ToLower(voiceName), "chirp") {
		audioCfg.SpeakingRate = speakingRate(req.Rate)
	}

	// MP3 frames concatenate cleanly, so chunks are joined into one payload
	var audio bytes.Buffer
	chunks := splitIntoChunks(req.Text, googleChunkLimit)
	for chunkIndex, chunk := range chunks {
		resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: languageCode(voiceName),
				Name:         voiceName,
			},
			AudioConfig: audioCfg,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize chunk %d: %w", chunkIndex, err)
		}
		audio.Write(resp.AudioContent)
	}

	if cachePath != "" {
		if err := os.WriteFile(cachePath, audio.Bytes(), 0644); err != nil {
			logrus.WithError(err).WithField("file", cachePath).Warn("Failed to cache audio")
		} else {
			logrus.WithFields(logrus.Fields{
				"file":   cachePath,
				"chunks": len(chunks),
			}).Debug("Cached audio")
		}
	}

	return &speech.Audio{Data: audio.Bytes(), ContentType: "audio/mpeg"}, nil
}

// cacheFile names the cache entry for one text, voice and rate combination.
func (g *GoogleClassicTTSEngine) cacheFile(text, voiceName string, rate int) string {
	if g.cacheRootDir == "" {
		return ""
	}
	contentHash := md5Sum(fmt.Sprintf("%s|%s|%d", text, voiceName, rate))[:16]
	return filepath.Join(g.cacheRootDir, "google_classic_"+contentHash+".mp3")
}

// GetCacheStats returns cache statistics for the current engine
func (g *GoogleClassicTTSEngine) GetCacheStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalFiles int64
	var totalSize int64

	if g.cacheRootDir != "" {
		err := filepath.Walk(g.cacheRootDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // Continue walking despite errors
			}

			if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".mp3") {
				totalFiles++
				totalSize += info.Size()
			}
			return nil
		})
		if err != nil {
			return stats, err
		}
	}

	stats["cache_directory"] = g.cacheRootDir
	stats["cached_files"] = totalFiles
	stats["total_size_mb"] = float64(totalSize) / (1024 * 1024)

	return stats, nil
}

// ClearCache removes all cached files
func (g *GoogleClassicTTSEngine) ClearCache() error {
	if g.cacheRootDir == "" {
		return nil
	}
	return os.RemoveAll(g.cacheRootDir)
}

// speakingRate maps words per minute onto Google's 0.25..4.0 multiplier,
// with the default rate as 1.0.
func speakingRate(rate int) float64 {
	if rate <= 0 {
		return 1.0
	}
	r := float64(rate) / float64(voice.DefaultRate)
	if r < 0.25 {
		return 0.25
	}
	if r > 4.0 {
		return 4.0
	}
	return r
}

// languageCode extracts "en-US" from a voice name such as "en-US-Wavenet-D".
func languageCode(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) < 2 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}

func md5Sum(s string) string {
	h := md5.New()
	io.WriteString(h, s)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func splitIntoChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text) // safe for UTF-8
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
