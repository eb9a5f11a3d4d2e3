package cloud

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"kwbrowse/domain/core"

	"github.com/montanaflynn/stats"
)

// Config holds the only options the renderer recognises.
type Config struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

// DefaultConfig returns an 800x400 white canvas
func DefaultConfig() Config {
	return Config{Width: 800, Height: 400, Background: "white"}
}

// Validate checks canvas dimensions
func (c Config) Validate() error {
	if c.Width <= 0 {
		return core.NewInvalidArgumentError("width", fmt.Sprintf("must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		return core.NewInvalidArgumentError("height", fmt.Sprintf("must be positive, got %d", c.Height))
	}
	return nil
}

// Word is one term of the cloud with its weight and render size.
type Word struct {
	Text     string  `json:"text"`
	Count    int     `json:"count"`
	Weight   float64 `json:"weight"` // 0..1 relative to the most frequent term
	FontSize int     `json:"font_size"`
}

// Cloud is the render model for the word cloud.
type Cloud struct {
	Config Config `json:"config"`
	Words  []Word `json:"words"`
}

// Font size bounds scale with canvas height.
func (c Config) fontBounds() (lo, hi int) {
	hi = c.Height / 6
	if hi < 12 {
		hi = 12
	}
	lo = hi / 5
	if lo < 8 {
		lo = 8
	}
	return lo, hi
}

// Build counts the whitespace-separated terms of text and sizes them
// linearly between the smallest and largest count. Terms are compared
// case-insensitively; the first spelling seen is kept.
func Build(text string, cfg Config) (*Cloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	spelling := make(map[string]string)
	for _, term := range strings.Fields(text) {
		key := strings.ToLower(term)
		if _, ok := spelling[key]; !ok {
			spelling[key] = term
		}
		counts[key]++
	}

	cloud := &Cloud{Config: cfg, Words: make([]Word, 0, len(counts))}
	if len(counts) == 0 {
		return cloud, nil
	}

	data := make(stats.Float64Data, 0, len(counts))
	for _, n := range counts {
		data = append(data, float64(n))
	}
	lowest, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("cloud: %w", err)
	}
	highest, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("cloud: %w", err)
	}

	lo, hi := cfg.fontBounds()
	for key, n := range counts {
		scaled := 1.0
		if highest > lowest {
			scaled = (float64(n) - lowest) / (highest - lowest)
		}
		cloud.Words = append(cloud.Words, Word{
			Text:     spelling[key],
			Count:    n,
			Weight:   float64(n) / highest,
			FontSize: lo + int(math.Round(scaled*float64(hi-lo))),
		})
	}

	sort.Slice(cloud.Words, func(i, j int) bool {
		if cloud.Words[i].Count != cloud.Words[j].Count {
			return cloud.Words[i].Count > cloud.Words[j].Count
		}
		return cloud.Words[i].Text < cloud.Words[j].Text
	})
	return cloud, nil
}

// Median returns the median term count, 0 for an empty cloud.
func (c *Cloud) Median() float64 {
	if c == nil || len(c.Words) == 0 {
		return 0
	}
	data := make(stats.Float64Data, len(c.Words))
	for i, w := range c.Words {
		data[i] = float64(w.Count)
	}
	m, err := stats.Median(data)
	if err != nil {
		return 0
	}
	return m
}
