package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Converter runs the MIDI to mini-notation pipeline with a fixed Config
type Converter struct {
	cfg Config
	log *zap.Logger
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger used for warnings and debug output
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Converter after validating cfg
func New(cfg Config, opts ...Option) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Converter{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration of the converter
func (c *Converter) Config() Config {
	return c.cfg
}

// IsMIDIPath reports whether the filename has a MIDI extension
func IsMIDIPath(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mid", ".midi":
		return true
	}
	return false
}

// IsMIDI reports whether data starts with the "MThd" chunk
func IsMIDI(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "MThd"
}

// LocateMIDI resolves the input file. An explicit path must exist; without
// one the first *.mid file in dir (by name) is used.
func LocateMIDI(path, dir string) (string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return path, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.mid"))
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no .mid file in %s", ErrFileNotFound, dir)
	}
	return matches[0], nil
}

// ConvertFile reads and converts a MIDI file
func (c *Converter) ConvertFile(path string) (*Result, error) {
	score, err := ReadScoreFile(path)
	if err != nil {
		return nil, err
	}
	c.log.Debug("read MIDI file", zap.String("path", path), zap.Int("tracks", len(score.Tracks)))
	return c.ConvertScore(score)
}

// Convert decodes and converts MIDI data
func (c *Converter) Convert(data []byte) (*Result, error) {
	score, err := ReadScore(data)
	if err != nil {
		return nil, err
	}
	return c.ConvertScore(score)
}

// ConvertScore runs tempo resolution, quantization, bar building,
// compaction and rendering. It fails as a whole; there is no partial result.
func (c *Converter) ConvertScore(score *Score) (*Result, error) {
	tempo, err := ResolveTempo(score)
	if err != nil {
		return nil, err
	}

	grid := NewGrid(score.TicksPerBeat, c.cfg.Resolution)
	c.log.Debug("resolved timing",
		zap.Float64("bpm", tempo.BPM),
		zap.String("cpm", tempo.String()),
		zap.Int64("ticks_per_bar", grid.TicksPerBar),
		zap.Float64("ticks_per_slot", grid.TicksPerSlot()),
	)

	var tracks []Track
	var placed [][]Quantized
	for _, t := range score.Tracks {
		if len(t.Notes) == 0 {
			continue
		}
		tracks = append(tracks, t)
		placed = append(placed, grid.Quantize(t.Notes))
	}

	numBars := SongLength(placed...)
	if c.cfg.BarLimit > 0 && numBars > c.cfg.BarLimit {
		c.log.Info("truncating output", zap.Int("bars", numBars), zap.Int("bar_limit", c.cfg.BarLimit))
		numBars = c.cfg.BarLimit
	}

	result := &Result{Tempo: tempo}
	for i, t := range tracks {
		set := BuildBars(placed[i], c.cfg.Resolution, numBars)
		log := c.log.With(zap.Int("track", t.Index), zap.String("name", t.Name))
		if set.Collisions > 0 {
			log.Warn("distinct onsets merged into one slot, a higher resolution keeps them apart",
				zap.Int("collisions", set.Collisions), zap.Int("resolution", c.cfg.Resolution))
		}
		if set.Dropped > 0 {
			log.Debug("notes beyond bar limit dropped", zap.Int("dropped", set.Dropped))
		}

		pattern := TrackPattern{Track: t.Index, Name: t.Name, Sound: c.soundFor(i)}
		for _, bar := range set.Bars {
			pattern.Bars = append(pattern.Bars, Compact(bar, c.cfg.Flat))
		}
		log.Debug("track converted", zap.Int("notes", len(t.Notes)), zap.Int("bars", len(pattern.Bars)))
		result.Tracks = append(result.Tracks, pattern)
	}

	result.Text = Render(tempo, result.Tracks, c.cfg.TabSize)
	return result, nil
}

func (c *Converter) soundFor(n int) string {
	if c.cfg.Sound != "" {
		return c.cfg.Sound
	}
	return SoundFor(n)
}
