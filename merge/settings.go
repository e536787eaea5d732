package merge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings controls one merge run.
type Settings struct {
	// CleanPolygonPoints enables Douglas-Peucker point cleanup before and
	// after merging, with CleanPointDist as the tolerance.
	CleanPolygonPoints bool    `yaml:"cleanPolygonPoints"`
	CheckPropertyDiff  bool    `yaml:"checkPropertyDiff"`
	IgnoreTinySolid    bool    `yaml:"ignoreTinySolid"`
	IgnoreTinyHoles    bool    `yaml:"ignoreTinyHoles"`
	TinySolidArea      float64 `yaml:"tinySolidArea"`
	TinyHolesArea      float64 `yaml:"tinyHolesArea"`
	CleanPointDist     float64 `yaml:"cleanPointDist"`
	// MergeThreshold is the task tree split threshold: leaves hold at most
	// this many records. Zero means a single bucket.
	MergeThreshold int `yaml:"mergeThreshold"`
	// ClipperScale quantizes floating coordinates onto the boolean backend's
	// integer grid. Ignored for integer element types.
	ClipperScale float64 `yaml:"clipperScale"`
	// Threads picks the parallel driver when greater than one.
	Threads int `yaml:"threads"`
}

// DefaultSettings returns the settings a zero-configured merge runs with.
func DefaultSettings() Settings {
	return Settings{
		MergeThreshold: 1024,
		ClipperScale:   1e6,
	}
}

// LoadSettings loads merge settings from a YAML file. Fields not present keep
// their defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("settings file not found: %s", path)
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.TinySolidArea < 0 || settings.TinyHolesArea < 0 {
		return nil, fmt.Errorf("tiny area thresholds must not be negative")
	}
	if settings.CleanPointDist < 0 {
		return nil, fmt.Errorf("cleanPointDist must not be negative")
	}
	if settings.MergeThreshold < 0 {
		return nil, fmt.Errorf("mergeThreshold must not be negative")
	}
	if settings.ClipperScale <= 0 {
		return nil, fmt.Errorf("clipperScale must be positive")
	}

	return &settings, nil
}

// SaveSettings writes settings to a YAML file.
func SaveSettings(path string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
