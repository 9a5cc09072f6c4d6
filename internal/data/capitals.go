package data

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capitals holds the static country/state capital dataset. Lookups are
// case-insensitive; entity strings arrive as extracted by the classifier and
// are normalized here, not by callers.
type Capitals struct {
	countries map[string]string
	states    map[string]string

	countryNames []string
	stateNames   []string
}

type datasetFile struct {
	Countries map[string]string `yaml:"countries"`
	States    map[string]string `yaml:"states"`
}

// Load reads and parses the capitals dataset file
func Load(path string) (*Capitals, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capitals dataset %s: %w", path, err)
	}

	var file datasetFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse capitals dataset %s: %w", path, err)
	}

	if len(file.Countries) == 0 && len(file.States) == 0 {
		return nil, fmt.Errorf("capitals dataset %s contains no entries", path)
	}

	c := &Capitals{
		countries: make(map[string]string, len(file.Countries)),
		states:    make(map[string]string, len(file.States)),
	}

	for name, capital := range file.Countries {
		c.countries[normalize(name)] = capital
		c.countryNames = append(c.countryNames, name)
	}
	for name, capital := range file.States {
		c.states[normalize(name)] = capital
		c.stateNames = append(c.stateNames, name)
	}

	sort.Strings(c.countryNames)
	sort.Strings(c.stateNames)

	log.Printf("[Data] Loaded capitals dataset: %d countries, %d states", len(c.countries), len(c.states))
	return c, nil
}

// FindCapital looks up the capital for a country or state name. Countries are
// checked first, matching the source dataset precedence.
func (c *Capitals) FindCapital(entity string) (string, bool) {
	key := normalize(entity)
	if key == "" {
		return "", false
	}
	if capital, ok := c.countries[key]; ok {
		return capital, true
	}
	if capital, ok := c.states[key]; ok {
		return capital, true
	}
	return "", false
}

// Countries returns all known country names, sorted.
func (c *Capitals) Countries() []string {
	out := make([]string, len(c.countryNames))
	copy(out, c.countryNames)
	return out
}

// States returns all known state names, sorted.
func (c *Capitals) States() []string {
	out := make([]string, len(c.stateNames))
	copy(out, c.stateNames)
	return out
}

// Summary reports dataset sizes for the status endpoint.
func (c *Capitals) Summary() map[string]int {
	return map[string]int{
		"countries": len(c.countries),
		"states":    len(c.states),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
