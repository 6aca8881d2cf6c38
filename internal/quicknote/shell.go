package quicknote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/ui"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// shell is an interactive session around one controller. Process and listen
// run in the background so the prompt stays usable while they are in flight.
type shell struct {
	c       *ui.Controller
	scanner *bufio.Scanner
	out     io.Writer
	ctx     context.Context

	wg sync.WaitGroup
}

func (qn *QuickNote) Shell(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(qn.ctx)

	c := qn.newController(newTerminalView(qn.out, true))
	sh := &shell{
		c:       c,
		scanner: bufio.NewScanner(qn.in),
		out:     qn.out,
		ctx:     ctx,
	}
	sh.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	defer func() {
		cancel()
		sh.wg.Wait()
		c.Close()
	}()

	colours.Title.Fprintln(qn.out, "💬 QuickNote shell. Type 'help' for commands.")
	c.Init(ctx)
	if err := qn.selectVoice(c, ""); err != nil {
		return err
	}

	return sh.run()
}

func (sh *shell) run() error {
	for {
		colours.Prompt.Fprint(sh.out, "quicknote> ")
		if !sh.scanner.Scan() {
			fmt.Fprintln(sh.out)
			return sh.scanner.Err()
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(sh.scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(name) {
		case "":
		case "search", "find":
			sh.c.Search(arg)
		case "voices":
			s := sh.c.State()
			printVoiceList(sh.out, s.Options, s.SelectedVoice)
		case "select", "voice":
			sh.selectVoice(arg)
		case "rate":
			rate, err := strconv.Atoi(arg)
			if err != nil {
				colours.Error.Fprintf(sh.out, "❌ Rate must be a number, got %q\n", arg)
				continue
			}
			sh.c.SetRate(rate)
		case "text":
			sh.c.SetInput(sh.readText())
		case "load":
			if arg == "" || arg == "-" {
				colours.Warning.Fprintln(sh.out, "📄 Usage: load <file>")
				continue
			}
			text, err := readInput([]string{arg}, nil)
			if err != nil {
				colours.Error.Fprintf(sh.out, "❌ %v\n", err)
				continue
			}
			sh.c.SetInput(text)
			colours.Success.Fprintf(sh.out, "📄 Loaded %d characters\n", len(text))
		case "process":
			if strings.TrimSpace(sh.c.State().Input) == "" {
				colours.Warning.Fprintln(sh.out, "✍️  Nothing to process yet. Use 'text' or 'load <file>'.")
				continue
			}
			sh.background("process", sh.c.Process)
		case "listen", "pause":
			sh.background("listen", sh.c.Listen)
		case "show":
			sh.show()
		case "help", "?":
			sh.help()
		case "quit", "exit", "q":
			return nil
		default:
			colours.Warning.Fprintf(sh.out, "🤔 Unknown command %q. Type 'help'.\n", name)
		}
	}
}

// background runs fn without blocking the prompt. Failures already reach the
// user through the view, so they are only logged here.
func (sh *shell) background(name string, fn func(context.Context) error) {
	sh.wg.Add(1)
	go func() {
		defer sh.wg.Done()
		err := fn(sh.ctx)
		if err != nil && !errors.Is(err, ui.ErrStale) && !errors.Is(err, context.Canceled) {
			logrus.WithError(err).WithField("command", name).Debug("Shell command failed")
		}
	}()
}

// selectVoice accepts a position in the displayed list or a voice ID.
func (sh *shell) selectVoice(arg string) {
	if arg == "" {
		colours.Warning.Fprintln(sh.out, "🎤 Usage: select <number|voice id>")
		return
	}

	id := arg
	if n, err := strconv.Atoi(arg); err == nil {
		options := sh.c.State().Options
		if n < 1 || n > len(options) {
			colours.Error.Fprintf(sh.out, "❌ Pick a number between 1 and %d\n", len(options))
			return
		}
		id = options[n-1].ID
	}

	if err := sh.c.SelectVoice(id); err != nil {
		colours.Error.Fprintf(sh.out, "❌ %v\n", err)
	}
}

// readText collects lines until one holding a single ".".
func (sh *shell) readText() string {
	colours.Info.Fprintln(sh.out, "✍️  Enter your notes. Finish with a line containing only '.'")

	var lines []string
	for sh.scanner.Scan() {
		line := sh.scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (sh *shell) show() {
	s := sh.c.State()

	colours.Info.Fprintf(sh.out, "🎤 Voice: %s\n", orDefault(s.SelectedVoice))
	colours.Info.Fprintf(sh.out, "🎚️  Rate: %d (%s)\n", s.Rate, s.RateLabel)
	colours.Info.Fprintf(sh.out, "📄 Input: %d characters\n", len(s.Input))
	switch {
	case s.Loading:
		colours.Warning.Fprintln(sh.out, "⏳ Processing...")
	case s.Summary != "":
		colours.Title.Fprintln(sh.out, "📝 Summary")
		fmt.Fprintf(sh.out, "  %s\n", s.Summary)
		for _, item := range s.ActionItems {
			fmt.Fprintf(sh.out, "  • %s\n", item)
		}
	}
	if s.SettingsVisible {
		colours.Muted.Fprintf(sh.out, "🔊 %s\n", s.ListenLabel)
	}
}

func (sh *shell) help() {
	colours.Title.Fprintln(sh.out, "📚 Commands")
	fmt.Fprintln(sh.out, "  search <term>      Filter voices by name or language")
	fmt.Fprintln(sh.out, "  voices             Show the filtered voice list")
	fmt.Fprintln(sh.out, "  select <n|id>      Pick a voice")
	fmt.Fprintln(sh.out, "  rate <100-300>     Set the speech rate")
	fmt.Fprintln(sh.out, "  text               Type notes, ending with '.'")
	fmt.Fprintln(sh.out, "  load <file>        Read notes from a file")
	fmt.Fprintln(sh.out, "  process            Summarize the notes")
	fmt.Fprintln(sh.out, "  listen             Play or pause the summary")
	fmt.Fprintln(sh.out, "  show               Show the current state")
	fmt.Fprintln(sh.out, "  quit               Leave the shell")
}
