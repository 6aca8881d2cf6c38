package quicknote

import (
	"bufio"
	"fmt"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"quicknote/internal/playback"
	"strings"

	"github.com/spf13/cobra"
)

func (qn *QuickNote) Speak(cmd *cobra.Command, args []string) error {
	voiceID, _ := cmd.Flags().GetString("voice")
	rate, _ := cmd.Flags().GetInt("rate")

	// stdin carries the text when there are no arguments, so it can't take commands too
	interactive := len(args) > 0
	text := strings.Join(args, " ")
	if !interactive {
		var err error
		if text, err = readInput(nil, qn.in); err != nil {
			return err
		}
	}

	if voiceID == "" {
		voiceID = qn.cfg.TTS.Voice
	}
	if rate == 0 {
		rate = qn.cfg.TTS.Rate
	}
	rate = voice.ClampRate(rate)

	colours.Warning.Fprintf(qn.out, "🎧 Loading... (%s, %d wpm, %s)\n", orDefault(voiceID), rate, voice.RateLabel(rate))

	audio, err := qn.Tts.Synthesize(qn.ctx, speech.Request{
		Text:    text,
		VoiceID: voiceID,
		Rate:    rate,
	})
	if err != nil {
		return fmt.Errorf("could not generate audio: %w", err)
	}

	done := make(chan struct{})
	session, err := qn.player.Play(audio, func() { close(done) })
	if err != nil {
		return fmt.Errorf("could not play audio: %w", err)
	}
	defer session.Release()

	colours.Success.Fprintln(qn.out, "🎵 Playing... 🎵")
	fmt.Fprintln(qn.out, "💡 Press Ctrl+C to stop anytime")

	return qn.waitForUserInput(session, done, interactive)
}

// waitForUserInput blocks until playback ends, offering pause/resume and stop
// on stdin when it is free.
func (qn *QuickNote) waitForUserInput(session playback.Session, done <-chan struct{}, interactive bool) error {
	var lines chan string
	if interactive {
		lines = make(chan string)
		stop := make(chan struct{})
		defer close(stop)

		// The reader stays blocked in Scan after we return and exits only at
		// EOF. Fine for a one-shot command; don't call this from the shell.
		go func() {
			scanner := bufio.NewScanner(qn.in)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-stop:
					return
				}
			}
			close(lines)
		}()

		fmt.Fprint(qn.out, "\n⏸️  Press 'p' to pause/resume, 's' to stop: ")
	}

	for {
		select {
		case <-done:
			fmt.Fprintln(qn.out)
			colours.Success.Fprintln(qn.out, "✅ Finished!")
			return nil

		case <-qn.ctx.Done():
			return qn.ctx.Err()

		case input, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}

			switch strings.TrimSpace(strings.ToLower(input)) {
			case "p", "pause":
				if session.IsPlaying() {
					session.Pause()
					colours.Warning.Fprintln(qn.out, "⏸️  Paused")
				} else {
					session.Resume()
					colours.Success.Fprintln(qn.out, "▶️  Resumed")
				}
			case "s", "stop":
				colours.Warning.Fprintln(qn.out, "⏹️  Stopped")
				return nil
			case "":
				continue
			default:
				colours.Info.Fprintln(qn.out, "ℹ️  Use 'p' for pause/resume, 's' to stop")
			}
		}
	}
}
