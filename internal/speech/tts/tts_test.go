package tts

import (
	"context"
	"quicknote/internal/api"
	"quicknote/internal/domain/speech"
	"reflect"
	"strings"
	"testing"
)

func TestNewEngine(t *testing.T) {
	client := api.NewClient("http://localhost:5000", 0)

	tests := []struct {
		name    string
		config  Config
		client  *api.Client
		want    string
		wantErr bool
	}{
		{name: "remote", config: Config{Type: "remote"}, client: client, want: "*tts.RemoteEngine"},
		{name: "remote without client", config: Config{Type: "remote"}, wantErr: true},
		{name: "mock", config: Config{Type: "mock"}, want: "*tts.MockTTSEngine"},
		{name: "unknown", config: Config{Type: "festival"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.config, tt.client)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && reflect.TypeOf(engine).String() != tt.want {
				t.Errorf("NewEngine() = %T, want %s", engine, tt.want)
			}
		})
	}
}

func TestMockSynthesize(t *testing.T) {
	engine := NewMockTTSEngine(Config{})

	audio, err := engine.Synthesize(context.Background(), speech.Request{Text: "Team syncs weekly.", Rate: 175})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if audio.Format() != speech.FormatWAV {
		t.Errorf("Format() = %q", audio.Format())
	}
	if len(audio.Data) <= 44 {
		t.Errorf("expected samples after the header, got %d bytes", len(audio.Data))
	}

	if _, err := engine.Synthesize(context.Background(), speech.Request{Text: "  "}); err == nil {
		t.Error("Synthesize() of blank text should fail")
	}
}

func TestParseESpeakVoices(t *testing.T) {
	output := `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  en-us           --/M      English_(America)  gmw/en-US            (en 10)
 5  fr-fr           --/M      French_(France)    roa/fr               (fr 5)
`
	voices := parseESpeakVoices(output)
	if len(voices) != 3 {
		t.Fatalf("got %d voices, want 3", len(voices))
	}
	if voices[1].ID != "en-us" || voices[1].Name != "English (America)" || voices[1].Language() != "en-us" {
		t.Errorf("voices[1] = %+v", voices[1])
	}
}

func TestParseSayVoices(t *testing.T) {
	output := `Alex                en_US    # Most people recognize me by my voice.
Bad News            en_US    # The light you see at the end of the tunnel is the headlamp of a fast approaching train.
Kyoko               ja_JP    # こんにちは、私の名前はKyokoです。
garbage line
`
	voices := parseSayVoices(output)
	if len(voices) != 3 {
		t.Fatalf("got %d voices, want 3", len(voices))
	}
	if voices[1].ID != "Bad News" || voices[1].Language() != "en_US" {
		t.Errorf("voices[1] = %+v", voices[1])
	}
}

func TestESpeakArgs(t *testing.T) {
	e := &ESpeakEngine{config: Config{Voice: "en-us"}}

	got := e.args(speech.Request{Text: "hello", Rate: 210})
	want := []string{"--stdout", "--stdin", "-v", "en-us", "-s", "210"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args() = %v, want %v", got, want)
	}

	got = e.args(speech.Request{Text: "hello", VoiceID: "fr-fr"})
	if !strings.Contains(strings.Join(got, " "), "-v fr-fr -s 175") {
		t.Errorf("args() = %v", got)
	}
}

func TestSpeakingRate(t *testing.T) {
	tests := map[int]float64{0: 1.0, 175: 1.0, 350: 2.0, 10: 0.25, 1000: 4.0}
	for rate, want := range tests {
		if got := speakingRate(rate); got != want {
			t.Errorf("speakingRate(%d) = %v, want %v", rate, got, want)
		}
	}
}

func TestLanguageCode(t *testing.T) {
	if got := languageCode("en-GB-Chirp3-HD-Umbriel"); got != "en-GB" {
		t.Errorf("languageCode() = %q", got)
	}
	if got := languageCode("odd"); got != "en-US" {
		t.Errorf("languageCode() = %q", got)
	}
}

func TestSplitIntoChunks(t *testing.T) {
	chunks := splitIntoChunks(strings.Repeat("é", 10), 4)
	if len(chunks) != 3 || chunks[2] != "éé" {
		t.Errorf("splitIntoChunks() = %q", chunks)
	}
}
