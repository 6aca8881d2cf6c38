package quicknote

import (
	"fmt"
	"io"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/ui"
)

// terminalView prints what changed between two controller states.
type terminalView struct {
	out         io.Writer
	interactive bool

	prev    ui.State
	started bool
}

func newTerminalView(out io.Writer, interactive bool) *terminalView {
	return &terminalView{out: out, interactive: interactive}
}

func (v *terminalView) Render(s ui.State) {
	prev := v.prev
	first := !v.started
	v.prev = s
	v.started = true

	if v.interactive && (first || s.Search != prev.Search || len(s.Options) != len(prev.Options)) {
		printVoiceList(v.out, s.Options, s.SelectedVoice)
	}
	if v.interactive && !first && s.SelectedVoice != prev.SelectedVoice && s.SelectedVoice != "" {
		colours.Info.Fprintf(v.out, "🎤 Voice: %s\n", s.SelectedVoice)
	}
	if v.interactive && !first && s.Rate != prev.Rate {
		colours.Info.Fprintf(v.out, "🎚️  Rate: %d (%s)\n", s.Rate, s.RateLabel)
	}

	if s.Loading && !prev.Loading {
		colours.Warning.Fprintln(v.out, "⏳ Processing...")
	}
	if !s.Loading && prev.Loading {
		v.printOutput(s)
	}

	if v.interactive && s.SettingsVisible && !prev.SettingsVisible {
		colours.Prompt.Fprintf(v.out, "🎧 Ready to listen with %s at %d (%s). Type 'listen'.\n",
			orDefault(s.SelectedVoice), s.Rate, s.RateLabel)
	}

	if s.ListenLabel != prev.ListenLabel && !first {
		switch s.ListenLabel {
		case ui.LabelLoading:
			colours.Warning.Fprintln(v.out, "🎧 Loading...")
		case ui.LabelPause:
			colours.Success.Fprintln(v.out, "▶️  Playing")
		case ui.LabelListen:
			if prev.ListenLabel == ui.LabelPause {
				colours.Warning.Fprintln(v.out, "⏸️  Stopped")
			}
		}
	}
}

func (v *terminalView) Alert(msg string) {
	colours.Error.Fprintf(v.out, "❌ %s\n", msg)
}

func (v *terminalView) printOutput(s ui.State) {
	if s.Summary == ui.ProcessFailedMessage {
		colours.Error.Fprintf(v.out, "❌ %s\n", s.Summary)
		return
	}

	fmt.Fprintln(v.out)
	colours.Title.Fprintln(v.out, "📝 Summary")
	fmt.Fprintf(v.out, "  %s\n", s.Summary)
	fmt.Fprintln(v.out)
	colours.Title.Fprintln(v.out, "✅ Action Items")
	for _, item := range s.ActionItems {
		fmt.Fprintf(v.out, "  • %s\n", item)
	}
	fmt.Fprintln(v.out)
}

func orDefault(voiceID string) string {
	if voiceID == "" {
		return "the default voice"
	}
	return voiceID
}
