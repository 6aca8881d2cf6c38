package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"quicknote/internal/domain/speech"
	"testing"
)

func TestVoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tts-voices" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"Alex","name":"Alex","lang":["en_US"]},{"id":"Kyoko","name":"Kyoko","lang":["ja_JP"]}]`))
	}))
	defer ts.Close()

	voices, err := NewClient(ts.URL+"/", 0).Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if len(voices) != 2 || voices[1].ID != "Kyoko" || voices[1].Language() != "ja_JP" {
		t.Errorf("Voices() = %+v", voices)
	}
}

func TestProcess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("missing Content-Type header")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["text"] != "Meeting notes..." {
			t.Errorf("text = %q", body["text"])
		}
		w.Write([]byte(`{"summary":"Team syncs weekly.","action_items":["Send the deck"]}`))
	}))
	defer ts.Close()

	result, err := NewClient(ts.URL, 0).Process(context.Background(), "Meeting notes...")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Summary != "Team syncs weekly." || len(result.ActionItems) != 1 {
		t.Errorf("Process() = %+v", result)
	}
}

func TestProcessServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, 0).Process(context.Background(), "x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Process() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
}

func TestProcessBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	if _, err := NewClient(ts.URL, 0).Process(context.Background(), "x"); err == nil {
		t.Fatal("Process() should fail on malformed JSON")
	}
}

func TestSynthesize(t *testing.T) {
	wav := speech.EncodeWAV([]int16{1, 2, 3}, 8000)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["voice_id"] != "en-US-1" || body["rate"] != "175" || body["text"] != "Team syncs weekly." {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(wav)
	}))
	defer ts.Close()

	audio, err := NewClient(ts.URL, 0).Synthesize(context.Background(), speech.Request{
		Text:    "Team syncs weekly.",
		VoiceID: "en-US-1",
		Rate:    175,
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(audio.Data) != len(wav) || audio.Format() != speech.FormatWAV {
		t.Errorf("Synthesize() returned %d bytes, format %q", len(audio.Data), audio.Format())
	}
}

func TestSynthesizeFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, 0).Synthesize(context.Background(), speech.Request{Text: "x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("Synthesize() error = %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(ts.URL, 0).Voices(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Voices() error = %v, want context.Canceled", err)
	}
}
