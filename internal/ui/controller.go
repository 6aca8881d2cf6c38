package ui

import (
	"context"
	"errors"
	"fmt"
	"quicknote/internal/domain/note"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"quicknote/internal/playback"
	"sync"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Texts shown by the controls.
const (
	LabelListen  = "Listen"
	LabelPause   = "Pause"
	LabelLoading = "Loading..."

	ProcessFailedMessage = "Failed to process text. See console for details."
	AudioFailedMessage   = "Could not generate audio."
)

// ErrStale is returned by Process when a newer call took over before the
// response arrived. The response was discarded.
var ErrStale = errors.New("superseded by a newer request")

// View renders controller state. Calls happen with the controller locked, so a
// view must not call back into the controller.
type View interface {
	Render(State)
	// Alert shows a message the user has to notice.
	Alert(msg string)
}

// Processor summarizes text
type Processor interface {
	Process(ctx context.Context, text string) (*note.Result, error)
}

// Synthesizer turns text into audio
type Synthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error)
}

// VoiceLoader provides the voice catalog once per session
type VoiceLoader interface {
	Load(ctx context.Context) voice.Catalog
}

// State is everything a view shows
type State struct {
	Search        string
	Options       []voice.Voice
	SelectedVoice string

	Rate      int
	RateLabel string

	Input       string
	Summary     string
	ActionItems []string

	Loading         bool
	SettingsVisible bool
	ListenEnabled   bool
	ListenLabel     string
}

// Controller owns the client state: the voice catalog, the current process
// request and the current audio session. It lives from Init until Close.
type Controller struct {
	mu sync.Mutex

	voices      VoiceLoader
	processor   Processor
	synthesizer Synthesizer
	player      playback.Player
	view        View

	state   State
	catalog voice.Catalog
	result  *note.Result

	// token identifies the process call allowed to update state
	token  string
	cancel context.CancelFunc

	// listenSeq identifies the latest Listen request, which owns the control
	listenSeq uint64

	audio     playback.Session
	audioID   uint64
	audioDone chan struct{}
}

func NewController(voices VoiceLoader, processor Processor, synthesizer Synthesizer, player playback.Player, view View) *Controller {
	return &Controller{
		voices:      voices,
		processor:   processor,
		synthesizer: synthesizer,
		player:      player,
		view:        view,
		state: State{
			Rate:        voice.DefaultRate,
			RateLabel:   voice.RateLabel(voice.DefaultRate),
			ListenLabel: LabelListen,
		},
	}
}

// Init loads the voice catalog and renders the unfiltered voice list.
func (c *Controller) Init(ctx context.Context) {
	catalog := c.voices.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = catalog
	c.filterLocked("")
	c.renderLocked()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Result returns the last successful process result, if any.
func (c *Controller) Result() *note.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Search re-filters the voice list for a new search term.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filterLocked(term)
	c.renderLocked()
}

// SelectVoice picks one of the displayed voices.
func (c *Controller) SelectVoice(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := voice.Catalog(c.state.Options).Find(id); !ok {
		return fmt.Errorf("voice %q is not in the list", id)
	}
	c.state.SelectedVoice = id
	c.renderLocked()
	return nil
}

// SetRate moves the rate slider.
func (c *Controller) SetRate(rate int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rate = voice.ClampRate(rate)
	c.state.Rate = rate
	c.state.RateLabel = voice.RateLabel(rate)
	c.renderLocked()
}

// SetInput replaces the text to process.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = text
}

// Process submits the input text and shows the summary and action items.
// A call started later wins: this call's response is then dropped and
// ErrStale returned.
func (c *Controller) Process(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	token := xid.New().String()
	c.token = token
	c.cancel = cancel

	c.state.ListenEnabled = false
	c.state.SettingsVisible = false
	c.stopAudioLocked()
	c.state.Loading = true
	c.state.Summary = ""
	c.state.ActionItems = nil
	c.result = nil
	text := c.state.Input
	c.renderLocked()
	c.mu.Unlock()

	result, err := c.processor.Process(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != token {
		logrus.WithField("request", token).Debug("Dropping stale process response")
		return ErrStale
	}
	defer func() {
		c.state.Loading = false
		c.cancel = nil
		c.renderLocked()
	}()

	if err != nil {
		logrus.WithError(err).WithField("request", token).Error("Failed to process text")
		c.state.Summary = ProcessFailedMessage
		return err
	}

	c.result = result
	c.state.Summary = result.Summary
	c.state.ActionItems = result.DisplayItems()

	if result.HasSummary() {
		c.state.ListenEnabled = true
		c.state.SettingsVisible = true
	}
	return nil
}

// Listen toggles playback of the summary. A playing session is paused without
// a new request; otherwise the summary is synthesized with the selected voice
// and rate and played.
func (c *Controller) Listen(ctx context.Context) error {
	c.mu.Lock()

	if c.state.Summary == "" || !c.state.ListenEnabled {
		c.mu.Unlock()
		return nil
	}

	if c.audio != nil && c.audio.IsPlaying() {
		c.audio.Pause()
		c.state.ListenLabel = LabelListen
		c.renderLocked()
		c.mu.Unlock()
		return nil
	}

	c.state.ListenEnabled = false
	c.state.ListenLabel = LabelLoading
	c.renderLocked()

	c.listenSeq++
	seq := c.listenSeq
	token := c.token
	req := speech.Request{
		Text:    c.state.Summary,
		VoiceID: c.state.SelectedVoice,
		Rate:    c.state.Rate,
	}
	c.mu.Unlock()

	audio, err := c.synthesizer.Synthesize(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listenSeq != seq {
		logrus.Debug("Newer listen request in flight, dropping audio")
		return nil
	}

	defer func() {
		// re-enable, unless a process call has since taken the summary away
		c.state.ListenEnabled = c.result != nil && c.result.HasSummary() && !c.state.Loading
		c.renderLocked()
	}()

	if err == nil && c.token != token {
		logrus.Debug("Summary changed while synthesizing, dropping audio")
		c.state.ListenLabel = LabelListen
		return nil
	}

	if err == nil {
		err = c.playLocked(audio)
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"voice": req.VoiceID,
			"rate":  req.Rate,
		}).Error("TTS failed")
		if c.view != nil {
			c.view.Alert(AudioFailedMessage)
		}
		c.state.ListenLabel = LabelListen
		return err
	}

	c.state.ListenLabel = LabelPause
	return nil
}

// WaitPlayback blocks until the current audio session ends or is replaced.
func (c *Controller) WaitPlayback(ctx context.Context) error {
	c.mu.Lock()
	done := c.audioDone
	c.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the in-flight request and releases the audio session.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.token = ""
	c.releaseAudioLocked()
}

// playLocked replaces the current session with a new one for audio.
func (c *Controller) playLocked(audio *speech.Audio) error {
	c.releaseAudioLocked()

	c.audioID++
	id := c.audioID

	// the callback goroutine blocks on mu until the session is recorded
	session, err := c.player.Play(audio, func() { c.playbackFinished(id) })
	if err != nil {
		return err
	}

	c.audio = session
	c.audioDone = make(chan struct{})
	return nil
}

func (c *Controller) playbackFinished(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.audioID || c.audio == nil {
		return
	}
	c.releaseAudioLocked()
	c.state.ListenLabel = LabelListen
	c.renderLocked()
}

func (c *Controller) stopAudioLocked() {
	if c.audio == nil {
		return
	}
	c.audio.Pause()
	c.releaseAudioLocked()
	c.state.ListenLabel = LabelListen
}

func (c *Controller) releaseAudioLocked() {
	if c.audio != nil {
		if err := c.audio.Release(); err != nil {
			logrus.WithError(err).Warn("Failed to release audio")
		}
		c.audio = nil
	}
	if c.audioDone != nil {
		close(c.audioDone)
		c.audioDone = nil
	}
}

func (c *Controller) filterLocked(term string) {
	c.state.Search = term
	c.state.Options = c.catalog.Filter(term)

	// like a <select>, keep the current pick if it survived, else take the first
	if _, ok := voice.Catalog(c.state.Options).Find(c.state.SelectedVoice); ok {
		return
	}
	c.state.SelectedVoice = ""
	if len(c.state.Options) > 0 {
		c.state.SelectedVoice = c.state.Options[0].ID
	}
}

func (c *Controller) renderLocked() {
	if c.view != nil {
		c.view.Render(c.snapshotLocked())
	}
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Options = append([]voice.Voice(nil), c.state.Options...)
	s.ActionItems = append([]string(nil), c.state.ActionItems...)
	return s
}
