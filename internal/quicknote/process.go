package quicknote

import (
	"fmt"
	"io"
	"os"
	"quicknote/internal/cli/scheme/colours"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (qn *QuickNote) ProcessNotes(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	listen, _ := cmd.Flags().GetBool("listen")
	watch, _ := cmd.Flags().GetBool("watch")
	voiceID, _ := cmd.Flags().GetString("voice")
	rate, _ := cmd.Flags().GetInt("rate")

	if err := checkFormat(format); err != nil {
		return err
	}
	if watch && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--watch needs a file")
	}

	var viewOut io.Writer = qn.out
	if format != FormatText {
		viewOut = io.Discard
	}
	c := qn.newController(newTerminalView(viewOut, false))

	if listen {
		c.Init(qn.ctx)
		if err := qn.selectVoice(c, voiceID); err != nil {
			return err
		}
		if rate != 0 {
			c.SetRate(rate)
		}
	}

	run := func() error {
		text, err := readInput(args, qn.in)
		if err != nil {
			return err
		}

		c.SetInput(text)
		if err := c.Process(qn.ctx); err != nil {
			return err
		}

		if format != FormatText {
			if err := writeResult(qn.out, c.Result(), format); err != nil {
				return err
			}
		}

		if listen && c.State().ListenEnabled {
			if err := c.Listen(qn.ctx); err != nil {
				return err
			}
			return c.WaitPlayback(qn.ctx)
		}
		return nil
	}

	if !watch {
		return run()
	}

	if err := run(); err != nil {
		colours.Error.Fprintf(qn.out, "❌ %v\n", err)
	}
	colours.Info.Fprintf(qn.out, "👀 Watching %s for changes (Ctrl+C to stop)\n", args[0])

	return WatchFile(qn.ctx, args[0], func() {
		logrus.WithField("file", args[0]).Info("Notes changed, processing again")
		if err := run(); err != nil {
			colours.Error.Fprintf(qn.out, "❌ %v\n", err)
		}
	})
}

// readInput returns the text of the file named in args, or stdin when there
// is no file or it is "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)

	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read notes: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text to process")
	}
	return text, nil
}
