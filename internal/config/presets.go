package config

import "sort"

var Presets = map[string]*Config{
	"llm": func() *Config {
		c := DefaultConfig()
		c.Scene = "llm"
		c.Segments = 18
		c.Physics.Stiffness = "linear"
		return c
	}(),
	"nebula": func() *Config {
		c := DefaultConfig()
		c.Scene = "nebula"
		c.Segments = 14
		c.Physics.Gravity = 0.12
		c.Physics.Turbulence = 0.08
		c.Physics.Stiffness = "bell"
		c.Physics.StiffnessMin = 0.35
		c.Physics.StiffnessMax = 0.9
		c.Physics.StiffnessWidth = 0.22
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
