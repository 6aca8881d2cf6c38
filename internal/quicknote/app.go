package quicknote

import (
	"context"
	"fmt"
	"io"
	"os"
	"quicknote/internal/api"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/config"
	"quicknote/internal/domain/voice/catalog"
	"quicknote/internal/playback"
	"quicknote/internal/speech/tts"
	"quicknote/internal/ui"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// QuickNote main application structure
type QuickNote struct {
	cfg    config.Config
	client *api.Client
	Tts    tts.Engine
	voices *catalog.Cache
	player playback.Player

	in  io.Reader
	out io.Writer

	mu         sync.Mutex
	controller *ui.Controller

	ctx    context.Context
	Cancel context.CancelFunc
}

func NewQuickNote() *QuickNote {
	ctx, cancel := context.WithCancel(context.Background())
	return &QuickNote{
		in:     os.Stdin,
		out:    os.Stdout,
		ctx:    ctx,
		Cancel: cancel,
	}
}

// Configure connects the app to the backend and speech engine named in cfg.
// It runs once the command line and config file have been read.
func (qn *QuickNote) Configure(cfg config.Config) error {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	engine, err := tts.NewEngine(tts.Config{
		Type:      cfg.TTS.Engine,
		Voice:     cfg.TTS.Voice,
		Rate:      cfg.TTS.Rate,
		CachePath: cfg.TTS.CachePath,
	}, client)
	if err != nil {
		return fmt.Errorf("failed to create tts engine: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"api":    cfg.API.BaseURL,
		"engine": cfg.TTS.Engine,
	}).Debug("Starting QuickNote")

	qn.cfg = cfg
	qn.client = client
	qn.Tts = engine
	qn.voices = catalog.NewCache(engine, cfg.Voices.CacheDir, cfg.Voices.MaxAge)
	qn.player = playback.NewSpeakerPlayer()
	return nil
}

// Close stops playback and cancels whatever is in flight.
func (qn *QuickNote) Close() {
	qn.Cancel()

	qn.mu.Lock()
	defer qn.mu.Unlock()
	if qn.controller != nil {
		qn.controller.Close()
	}
}

// newController wires a controller to the backend, the engine and a view.
func (qn *QuickNote) newController(view ui.View) *ui.Controller {
	c := ui.NewController(qn.voices, qn.client, qn.Tts, qn.player, view)
	c.SetRate(qn.cfg.TTS.Rate)

	qn.mu.Lock()
	qn.controller = c
	qn.mu.Unlock()
	return c
}

// selectVoice applies the --voice flag, falling back to the configured voice.
// The configured voice is only a preference; an explicit flag must match.
func (qn *QuickNote) selectVoice(c *ui.Controller, flagVoice string) error {
	if flagVoice != "" {
		return c.SelectVoice(flagVoice)
	}
	if qn.cfg.TTS.Voice != "" {
		if err := c.SelectVoice(qn.cfg.TTS.Voice); err != nil {
			logrus.WithField("voice", qn.cfg.TTS.Voice).Warn("Configured voice not available, using the first one")
		}
	}
	return nil
}

func (qn *QuickNote) ShowWelcome(cmd *cobra.Command, args []string) {
	fmt.Fprintln(qn.out)
	colours.Title.Fprintln(qn.out, "🌟 Welcome to QuickNote! 🌟")
	fmt.Fprintln(qn.out)
	colours.Info.Fprintln(qn.out, "📚 Available commands:")
	fmt.Fprintln(qn.out, "  • quicknote process [file]  - Summarize notes and extract action items")
	fmt.Fprintln(qn.out, "  • quicknote speak [text]    - Read any text aloud")
	fmt.Fprintln(qn.out, "  • quicknote voices [search] - Browse available voices")
	fmt.Fprintln(qn.out, "  • quicknote shell           - Interactive session")
	fmt.Fprintln(qn.out, "  • quicknote engines         - Show speech engines")
	fmt.Fprintln(qn.out, "  • quicknote cache           - Manage local caches")
	fmt.Fprintln(qn.out)
	colours.Prompt.Fprintf(qn.out, "✨ Talking to %s ✨\n", qn.cfg.API.BaseURL)
}

func (qn *QuickNote) ListVoices(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}

	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	voices := qn.voices.Load(qn.ctx)
	return writeVoices(qn.out, voices.Filter(search), format)
}

func (qn *QuickNote) ListEngines(cmd *cobra.Command, args []string) {
	fmt.Fprintln(qn.out)
	colours.Title.Fprintln(qn.out, "🔊 Speech Engines")
	fmt.Fprintln(qn.out)

	for _, engine := range tts.GetAvailableEngines() {
		marker := " "
		if engine.String() == qn.cfg.TTS.Engine {
			marker = "*"
		}
		fmt.Fprintf(qn.out, " %s %s\n", marker, engine)
	}
}

// ShowCacheStatus displays information about the voice snapshot and audio cache
func (qn *QuickNote) ShowCacheStatus(cmd *cobra.Command, args []string) error {
	colours.Title.Fprintln(qn.out, "📊 Voice Catalog Cache")

	info, err := qn.voices.GetCacheInfo()
	if err != nil {
		return fmt.Errorf("failed to get cache info: %w", err)
	}

	switch {
	case info["enabled"] != true:
		colours.Warning.Fprintln(qn.out, "⚪ Disabled")
		colours.Info.Fprintln(qn.out, "💡 Set voices.cache_dir to keep a copy of the catalog")
	case info["exists"] == true:
		colours.Success.Fprintln(qn.out, "✅ Cache exists")
		colours.Info.Fprintf(qn.out, "📁 Location: %s\n", info["file"])
		colours.Info.Fprintf(qn.out, "📏 Size: %d bytes\n", info["size"].(int64))
		colours.Info.Fprintf(qn.out, "🕐 Last modified: %s\n", info["last_modified"].(time.Time).Format("2006-01-02 15:04:05"))
		if info["is_fresh"] == true {
			colours.Success.Fprintln(qn.out, "🔄 Cache is fresh")
		} else {
			colours.Warning.Fprintln(qn.out, "⏰ Cache is stale")
		}
	default:
		colours.Warning.Fprintln(qn.out, "❌ Cache does not exist yet")
	}

	cacheable, ok := qn.Tts.(tts.CacheableEngine)
	if !ok {
		return nil
	}

	fmt.Fprintln(qn.out)
	colours.Title.Fprintln(qn.out, "📊 Audio Cache")
	stats, err := cacheable.GetCacheStats()
	if err != nil {
		return fmt.Errorf("failed to get audio cache stats: %w", err)
	}
	colours.Info.Fprintf(qn.out, "📁 Location: %s\n", stats["cache_directory"])
	colours.Info.Fprintf(qn.out, "🎵 Files: %d (%.1f MB)\n", stats["cached_files"], stats["total_size_mb"])
	return nil
}

// ClearCaches removes the voice snapshot and any cached audio
func (qn *QuickNote) ClearCaches(cmd *cobra.Command, args []string) error {
	if err := qn.voices.ClearCache(); err != nil {
		return err
	}
	if cacheable, ok := qn.Tts.(tts.CacheableEngine); ok {
		if err := cacheable.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear audio cache: %w", err)
		}
	}
	colours.Success.Fprintln(qn.out, "✅ Caches cleared")
	return nil
}

// AddCommands registers every QuickNote command on the root command
func (qn *QuickNote) AddCommands(rootCmd *cobra.Command) {
	processCmd := &cobra.Command{
		Use:   "process [file]",
		Short: "📝 Summarize notes",
		Long:  "Summarize text from a file or stdin and list its action items",
		Args:  cobra.MaximumNArgs(1),
		RunE:  qn.ProcessNotes,
	}
	processCmd.Flags().StringP("output", "o", FormatText, "Output format: text, json or yaml")
	processCmd.Flags().BoolP("listen", "l", false, "Read the summary aloud after processing")
	processCmd.Flags().StringP("voice", "v", "", "Voice ID to read with. See 'quicknote voices'")
	processCmd.Flags().IntP("rate", "r", 0, "Speech rate in words per minute (100-300)")
	processCmd.Flags().BoolP("watch", "w", false, "Process the file again whenever it changes")

	speakCmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "🔊 Read text aloud",
		Long:  "Synthesize text from the arguments or stdin and play it",
		RunE:  qn.Speak,
	}
	speakCmd.Flags().StringP("voice", "v", "", "Voice ID to read with. See 'quicknote voices'")
	speakCmd.Flags().IntP("rate", "r", 0, "Speech rate in words per minute (100-300)")

	voicesCmd := &cobra.Command{
		Use:   "voices [search]",
		Short: "🎤 List available voices",
		Long:  "List the voice catalog, optionally filtered by name or language",
		Args:  cobra.MaximumNArgs(1),
		RunE:  qn.ListVoices,
	}
	voicesCmd.Flags().StringP("output", "o", FormatText, "Output format: text, json or yaml")

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "💬 Interactive session",
		Long:  "Search voices, process notes and listen to summaries interactively",
		RunE:  qn.Shell,
	}

	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "🔊 List speech engines",
		Run:   qn.ListEngines,
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "🗄️ Manage local caches",
		Long:  "Inspect or clear the voice catalog snapshot and synthesized audio",
	}
	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "📊 Show cache status",
			RunE:  qn.ShowCacheStatus,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "🧹 Clear caches",
			RunE:  qn.ClearCaches,
		},
	)

	rootCmd.AddCommand(processCmd, speakCmd, voicesCmd, shellCmd, enginesCmd, cacheCmd)
}
