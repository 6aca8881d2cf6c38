package playback

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"quicknote/internal/domain/speech"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedFormat is returned for payloads the player cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player starts playback of synthesized audio
type Player interface {
	// Play starts playing audio right away. onDone runs on its own goroutine
	// when playback reaches the end, never after Release.
	Play(audio *speech.Audio, onDone func()) (Session, error)
}

// Session is one playing audio resource
type Session interface {
	Pause()
	Resume()
	IsPlaying() bool
	// Release stops playback and frees the decoder. Safe to call more than once.
	Release() error
}

// SpeakerPlayer plays audio on the default output device
type SpeakerPlayer struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{}
}

func (p *SpeakerPlayer) Play(audio *speech.Audio, onDone func()) (Session, error) {
	streamer, format, err := Decode(audio)
	if err != nil {
		return nil, err
	}

	if err := p.init(format.SampleRate); err != nil {
		streamer.Close()
		return nil, err
	}

	var source beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		source = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	s := newSpeakerSession(streamer, source)
	speaker.Play(s.stream(onDone))

	logrus.WithFields(logrus.Fields{
		"format":      audio.Format(),
		"sample_rate": format.SampleRate,
	}).Debug("Started playback")

	return s, nil
}

// init opens the speaker once, at the rate of the first clip.
func (p *SpeakerPlayer) init(rate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sampleRate != 0 {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}
	p.sampleRate = rate
	return nil
}

// Decode opens a synthesized payload as a beep stream.
func Decode(audio *speech.Audio) (beep.StreamSeekCloser, beep.Format, error) {
	switch f := audio.Format(); f {
	case speech.FormatMP3:
		s, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio.Data)))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("failed to decode MP3: %w", err)
		}
		return s, format, nil

	case speech.FormatWAV:
		s, format, err := wav.Decode(bytes.NewReader(audio.Data))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("failed to decode WAV: %w", err)
		}
		return s, format, nil

	case speech.FormatAIFF:
		s, format, err := decodeAIFF(audio.Data)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("failed to decode AIFF: %w", err)
		}
		return s, format, nil

	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, f, audio.ContentType)
	}
}

type speakerSession struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl

	// guarded by the speaker lock
	finished bool
	released bool

	once sync.Once
}

func newSpeakerSession(streamer beep.StreamSeekCloser, source beep.Streamer) *speakerSession {
	return &speakerSession{
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: source},
	}
}

// stream is what the speaker plays: the clip, then the completion callback.
// A released session drains straight to the callback, which then skips onDone.
func (s *speakerSession) stream(onDone func()) beep.Streamer {
	return beep.Seq(s.ctrl, beep.Callback(func() {
		// runs under the speaker lock, so hand off before touching anything else
		s.finished = true
		if onDone != nil {
			go func() {
				if !s.isReleased() {
					onDone()
				}
			}()
		}
	}))
}

func (s *speakerSession) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *speakerSession) Resume() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *speakerSession) IsPlaying() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return !s.ctrl.Paused && !s.finished && !s.released
}

func (s *speakerSession) isReleased() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return s.released
}

func (s *speakerSession) Release() error {
	var err error
	s.once.Do(func() {
		speaker.Lock()
		s.released = true
		s.ctrl.Streamer = nil
		speaker.Unlock()
		err = s.streamer.Close()
	})
	return err
}
