package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"quicknote/internal/domain/voice"
	"testing"
	"time"
)

type fakeSource struct {
	voices []voice.Voice
	err    error
	calls  int
}

func (f *fakeSource) Voices(ctx context.Context) ([]voice.Voice, error) {
	f.calls++
	return f.voices, f.err
}

func TestLoadFetchesOnce(t *testing.T) {
	src := &fakeSource{voices: []voice.Voice{{ID: "Alex", Name: "Alex", Lang: []string{"en_US"}}}}
	c := NewCache(src, "", 0)

	first := c.Load(context.Background())
	second := c.Load(context.Background())

	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if len(first) != 1 || len(second) != 1 || len(c.Voices()) != 1 {
		t.Errorf("Load() = %v then %v", first, second)
	}
}

func TestLoadFailureLeavesEmpty(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	c := NewCache(src, "", 0)

	if got := c.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
	c.Load(context.Background())
	if src.calls != 1 {
		t.Errorf("failed fetch was retried: %d calls", src.calls)
	}
}

func TestSnapshotFallback(t *testing.T) {
	dir := t.TempDir()
	voices := []voice.Voice{{ID: "Kyoko", Name: "Kyoko", Lang: []string{"ja_JP"}}}

	NewCache(&fakeSource{voices: voices}, dir, time.Hour).Load(context.Background())
	if _, err := os.Stat(filepath.Join(dir, snapshotName)); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	c := NewCache(&fakeSource{err: errors.New("down")}, dir, time.Hour)
	got := c.Load(context.Background())
	if len(got) != 1 || got[0].ID != "Kyoko" {
		t.Errorf("Load() = %v, want the snapshot", got)
	}
}

func TestStaleSnapshotIgnored(t *testing.T) {
	dir := t.TempDir()
	NewCache(&fakeSource{voices: []voice.Voice{{ID: "Alex"}}}, dir, 0).Load(context.Background())

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, snapshotName), old, old); err != nil {
		t.Fatal(err)
	}

	c := NewCache(&fakeSource{err: errors.New("down")}, dir, 24*time.Hour)
	if got := c.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestCacheInfoAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(&fakeSource{voices: []voice.Voice{{ID: "Alex"}}}, dir, time.Hour)
	c.Load(context.Background())

	info, err := c.GetCacheInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info["exists"] != true || info["is_fresh"] != true {
		t.Errorf("GetCacheInfo() = %v", info)
	}

	if err := c.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	info, _ = c.GetCacheInfo()
	if info["exists"] != false {
		t.Errorf("cache still exists after clear: %v", info)
	}
}
