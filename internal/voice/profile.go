// Package voice holds the Spot brand voice: system prompts with their sampling
// settings, response cleanup and a rule checker for generated copy.
package voice

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"spotvoice/internal/tinker"
)

const (
	ProfileCopywrite = "copywrite"
	ProfileEditorial = "editorial"
)

var ErrUnknownProfile = errors.New("unknown voice profile")

//go:embed profiles.yaml
var builtinProfiles []byte

// Profile is a system prompt together with the sampling settings it was tuned for.
type Profile struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	System      string                `yaml:"system"`
	Sampling    tinker.SamplingParams `yaml:"sampling"`
	TrimQuotes  bool                  `yaml:"trim_quotes"`
	Prompts     []string              `yaml:"prompts"`
}

// Clean applies the profile's cleanup rules to a decoded response.
func (p Profile) Clean(text string) string {
	return Clean(text, p.TrimQuotes)
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// Catalog is a set of profiles keyed by name.
type Catalog struct {
	profiles map[string]Profile
}

// LoadCatalog parses the built-in profiles and, when overridePath is set,
// merges that file on top. Profiles with the same name are replaced.
func LoadCatalog(overridePath string) (*Catalog, error) {
	c := &Catalog{profiles: make(map[string]Profile)}
	if err := c.merge(builtinProfiles); err != nil {
		return nil, fmt.Errorf("builtin profiles: %w", err)
	}
	if overridePath == "" {
		return c, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("%s: %w", overridePath, err)
	}
	return c, nil
}

func (c *Catalog) merge(data []byte) error {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse profiles: %w", err)
	}
	for i, p := range file.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profile %d: name is required", i)
		}
		if p.System == "" {
			return fmt.Errorf("profile %q: system prompt is required", p.Name)
		}
		if err := p.Sampling.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		c.profiles[p.Name] = p
	}
	return nil
}

func (c *Catalog) Get(name string) (Profile, error) {
	p, ok := c.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// Names returns profile names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
