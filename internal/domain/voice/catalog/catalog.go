package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"quicknote/internal/domain/voice"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const snapshotName = "voices.json"

// Source is where the catalog comes from
type Source interface {
	Voices(ctx context.Context) ([]voice.Voice, error)
}

// Cache holds the voice catalog for the lifetime of the session. It is
// fetched once; a failed fetch leaves it empty and is not retried.
type Cache struct {
	source    Source
	cacheDir  string
	cacheFile string
	maxAge    time.Duration

	once   sync.Once
	voices voice.Catalog
}

// snapshot is the on-disk copy of the last good catalog
type snapshot struct {
	Voices      voice.Catalog `json:"voices"`
	LastUpdated time.Time     `json:"last_updated"`
	TotalVoices int           `json:"total_voices"`
}

// NewCache creates a catalog cache. An empty cacheDir disables the on-disk
// snapshot; a zero maxAge accepts a snapshot of any age.
func NewCache(source Source, cacheDir string, maxAge time.Duration) *Cache {
	c := &Cache{
		source:   source,
		cacheDir: cacheDir,
		maxAge:   maxAge,
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			logrus.WithError(err).Warn("Failed to create voice cache directory")
		}
		c.cacheFile = filepath.Join(cacheDir, snapshotName)
	}

	return c
}

// Load fetches the catalog on first use and returns it. Later calls return the
// same catalog without another request.
func (c *Cache) Load(ctx context.Context) voice.Catalog {
	c.once.Do(func() {
		c.voices = c.fetch(ctx)
	})
	return c.voices
}

// Voices returns the catalog loaded so far.
func (c *Cache) Voices() voice.Catalog {
	return c.voices
}

func (c *Cache) fetch(ctx context.Context) voice.Catalog {
	voices, err := c.source.Voices(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to load voices")

		if cached, cacheErr := c.loadFromCache(); cacheErr == nil {
			logrus.WithField("voices", len(cached)).Warn("Using cached voice catalog")
			return cached
		}
		return voice.Catalog{}
	}

	if err := c.saveToCache(voices); err != nil {
		logrus.WithError(err).Warn("Failed to save voice catalog")
	}

	return voice.Catalog(voices)
}

func (c *Cache) isCacheUsable() bool {
	if c.cacheFile == "" {
		return false
	}

	info, err := os.Stat(c.cacheFile)
	if err != nil {
		return false
	}

	return c.maxAge <= 0 || time.Since(info.ModTime()) < c.maxAge
}

func (c *Cache) loadFromCache() (voice.Catalog, error) {
	if !c.isCacheUsable() {
		return nil, fmt.Errorf("no usable voice cache")
	}

	file, err := os.Open(c.cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var cached snapshot
	if err := json.NewDecoder(file).Decode(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"voices":       len(cached.Voices),
		"last_updated": cached.LastUpdated.Format(time.RFC3339),
	}).Debug("Loaded voice catalog from cache")

	return cached.Voices, nil
}

func (c *Cache) saveToCache(voices []voice.Voice) error {
	if c.cacheFile == "" {
		return nil
	}

	cached := snapshot{
		Voices:      voices,
		LastUpdated: time.Now(),
		TotalVoices: len(voices),
	}

	file, err := os.Create(c.cacheFile)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cached); err != nil {
		return fmt.Errorf("failed to encode cache data: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"voices": len(voices),
		"file":   c.cacheFile,
	}).Debug("Saved voice catalog to cache")

	return nil
}

// ClearCache removes the cache file
func (c *Cache) ClearCache() error {
	if c.cacheFile == "" {
		return nil
	}
	if err := os.Remove(c.cacheFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logrus.Info("Cleared voice cache")
	return nil
}

// GetCacheInfo returns information about the cache
func (c *Cache) GetCacheInfo() (map[string]interface{}, error) {
	info := make(map[string]interface{})
	info["enabled"] = c.cacheFile != ""
	info["file"] = c.cacheFile

	if c.cacheFile == "" {
		info["exists"] = false
		return info, nil
	}

	if stat, err := os.Stat(c.cacheFile); err == nil {
		info["exists"] = true
		info["size"] = stat.Size()
		info["last_modified"] = stat.ModTime()
		info["is_fresh"] = c.isCacheUsable()
		info["max_age_hours"] = c.maxAge.Hours()
	} else {
		info["exists"] = false
	}

	return info, nil
}
