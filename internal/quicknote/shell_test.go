package quicknote

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runShell(t *testing.T, sh *shell, script string) {
	t.Helper()

	sh.scanner = bufio.NewScanner(strings.NewReader(script))
	if err := sh.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	sh.wg.Wait()
}

func newTestShell(t *testing.T, qn *QuickNote) *shell {
	t.Helper()

	c := qn.newController(newTerminalView(qn.out, true))
	c.Init(qn.ctx)
	return &shell{c: c, out: qn.out, ctx: qn.ctx}
}

func TestShellSession(t *testing.T) {
	qn, be, player, out := newTestApp(t, "")
	sh := newTestShell(t, qn)

	runShell(t, sh, "search en_\nselect 2\nrate 250\ntext\nfirst line\nsecond line\n.\nprocess\n")

	s := sh.c.State()
	if len(s.Options) != 2 {
		t.Errorf("options = %d, want 2", len(s.Options))
	}
	if s.SelectedVoice != "us-alex" {
		t.Errorf("selected = %q, want us-alex", s.SelectedVoice)
	}
	if s.Rate != 250 || s.RateLabel != "Fast" {
		t.Errorf("rate = %d (%s)", s.Rate, s.RateLabel)
	}
	if len(be.processed) != 1 || be.processed[0] != "first line\nsecond line" {
		t.Errorf("backend got %q", be.processed)
	}
	if s.Summary != "Ship on Friday." || !s.ListenEnabled {
		t.Errorf("state after process = %+v", s)
	}

	runShell(t, sh, "listen\n")

	if player.count() != 1 {
		t.Errorf("plays = %d, want 1", player.count())
	}
	if len(be.spoken) != 1 || be.spoken[0]["voice_id"] != "us-alex" || be.spoken[0]["rate"] != "250" {
		t.Errorf("tts requests = %v", be.spoken)
	}
	if !strings.Contains(out.String(), "Ready to listen") {
		t.Errorf("output misses the listen prompt:\n%s", out)
	}
}

func TestShellLoad(t *testing.T) {
	qn, be, _, _ := newTestApp(t, "")
	sh := newTestShell(t, qn)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("nothing to do"), 0644); err != nil {
		t.Fatal(err)
	}

	runShell(t, sh, "load "+path+"\nprocess\n")

	if len(be.processed) != 1 || be.processed[0] != "nothing to do" {
		t.Errorf("backend got %q", be.processed)
	}
	s := sh.c.State()
	if s.Summary != "Nothing much." || len(s.ActionItems) != 1 || s.ActionItems[0] != "No action items found." {
		t.Errorf("state = %+v", s)
	}
}

func TestShellRejectsBadInput(t *testing.T) {
	qn, be, _, out := newTestApp(t, "")
	sh := newTestShell(t, qn)

	runShell(t, sh, "process\nrate fast\nselect 9\nselect nobody\nload\ndance\nlisten\n")

	if len(be.processed) != 0 {
		t.Error("process ran without input")
	}
	if len(be.spoken) != 0 {
		t.Error("listen ran without a summary")
	}

	for _, want := range []string{"Nothing to process", "Rate must be a number", "between 1 and 3", "not in the list", "Usage: load", "Unknown command"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output misses %q", want)
		}
	}
}

func TestShellQuit(t *testing.T) {
	qn, _, _, _ := newTestApp(t, "")
	sh := newTestShell(t, qn)

	runShell(t, sh, "quit\nrate 120\n")

	if sh.c.State().Rate == 120 {
		t.Error("commands after quit were run")
	}
}
