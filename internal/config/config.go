package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/dynamo"
	"github.com/san-kum/ropesim/internal/physics"
	"github.com/san-kum/ropesim/internal/sim"
)

const (
	DefaultScene    = "llm"
	DefaultFrames   = 600
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultSegments = 18
	DefaultAddr     = ":8080"
	DefaultPath     = "/api/writings"
	DefaultKVDriver = "memory"

	// DefaultStiffnessWidth is the bell profile's standard deviation along
	// the rope.
	DefaultStiffnessWidth = 0.22
)

type Config struct {
	Scene    string        `yaml:"scene"`
	Seed     int64         `yaml:"seed"`
	Frames   int           `yaml:"frames"`
	Width    float64       `yaml:"width"`
	Height   float64       `yaml:"height"`
	Segments int           `yaml:"segments"`
	Physics  PhysicsConfig `yaml:"physics"`
	Spring   SpringConfig  `yaml:"spring"`
	Server   ServerConfig  `yaml:"server"`
}

type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	Friction         float64 `yaml:"friction"`
	Turbulence       float64 `yaml:"turbulence"`
	Iterations       int     `yaml:"iterations"`
	Stiffness        string  `yaml:"stiffness"`
	StiffnessMin     float64 `yaml:"stiffness_min"`
	StiffnessMax     float64 `yaml:"stiffness_max"`
	StiffnessWidth   float64 `yaml:"stiffness_width"`
	ReleaseMs        float64 `yaml:"release_ms"`
	ReleaseExponent  float64 `yaml:"release_exponent"`
	ReleaseSqueeze   float64 `yaml:"release_squeeze"`
	WhiplashGain     float64 `yaml:"whiplash_gain"`
	WhiplashFraction float64 `yaml:"whiplash_fraction"`
	FrameMs          float64 `yaml:"frame_ms"`
}

type SpringConfig struct {
	K         float64 `yaml:"k"`
	Damping   float64 `yaml:"damping"`
	Gain      float64 `yaml:"gain"`
	Lookahead int     `yaml:"lookahead"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	Path        string `yaml:"path"`
	AdminSecret string `yaml:"admin_secret"`
	KVDriver    string `yaml:"kv_driver"`
	KVDSN       string `yaml:"kv_dsn"`
	KVURL       string `yaml:"kv_url"`
	KVToken     string `yaml:"kv_token"`
}

func DefaultConfig() *Config {
	t := sim.DefaultTuning()
	return &Config{
		Scene:    DefaultScene,
		Frames:   DefaultFrames,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Segments: DefaultSegments,
		Physics: PhysicsConfig{
			Gravity:          t.Gravity,
			Friction:         t.Friction,
			Turbulence:       t.Turbulence,
			Iterations:       t.Iterations,
			Stiffness:        "linear",
			StiffnessMin:     0.45,
			StiffnessMax:     0.8,
			StiffnessWidth:   DefaultStiffnessWidth,
			ReleaseMs:        t.ReleaseMs,
			ReleaseExponent:  t.ReleaseExponent,
			ReleaseSqueeze:   t.ReleaseSqueeze,
			WhiplashGain:     t.WhiplashGain,
			WhiplashFraction: t.WhiplashFraction,
			FrameMs:          t.FrameMs,
		},
		Spring: SpringConfig{
			K:         t.SpringK,
			Damping:   t.SpringDamping,
			Gain:      t.SpringGain,
			Lookahead: t.SpringLookahead,
		},
		Server: ServerConfig{
			Addr:     DefaultAddr,
			Path:     DefaultPath,
			KVDriver: DefaultKVDriver,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ApplyEnv overrides server settings from the environment. Unset variables
// leave the current value alone.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"WRITINGS_ADDR", &c.Server.Addr},
		{"ADMIN_SECRET", &c.Server.AdminSecret},
		{"KV_DRIVER", &c.Server.KVDriver},
		{"KV_DSN", &c.Server.KVDSN},
		{"KV_REST_API_URL", &c.Server.KVURL},
		{"KV_REST_API_TOKEN", &c.Server.KVToken},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok {
			*o.dst = v
		}
	}
}

// Profile resolves the named stiffness profile.
func (p PhysicsConfig) Profile() (physics.StiffnessProfile, error) {
	switch p.Stiffness {
	case "uniform":
		return physics.Uniform(p.StiffnessMax), nil
	case "", "linear":
		return physics.LinearRamp(p.StiffnessMin, p.StiffnessMax), nil
	case "bell":
		return physics.Bell(p.StiffnessMin, p.StiffnessMax, p.StiffnessWidth), nil
	}
	return nil, fmt.Errorf("stiffness profile %q: %w", p.Stiffness, dynamo.ErrUnknownPreset)
}

// StiffnessNames lists the profiles Profile accepts.
func StiffnessNames() []string {
	return []string{"uniform", "linear", "bell"}
}

// Tuning converts the file shape into engine constants.
func (c *Config) Tuning() (sim.Tuning, error) {
	profile, err := c.Physics.Profile()
	if err != nil {
		return sim.Tuning{}, err
	}
	t := sim.DefaultTuning()
	t.Gravity = c.Physics.Gravity
	t.Friction = c.Physics.Friction
	t.Turbulence = c.Physics.Turbulence
	t.Iterations = c.Physics.Iterations
	t.Stiffness = profile
	t.ReleaseMs = c.Physics.ReleaseMs
	t.ReleaseExponent = c.Physics.ReleaseExponent
	t.ReleaseSqueeze = c.Physics.ReleaseSqueeze
	t.WhiplashGain = c.Physics.WhiplashGain
	t.WhiplashFraction = c.Physics.WhiplashFraction
	t.FrameMs = c.Physics.FrameMs
	t.SpringK = c.Spring.K
	t.SpringDamping = c.Spring.Damping
	t.SpringGain = c.Spring.Gain
	t.SpringLookahead = c.Spring.Lookahead
	if err := t.Validate(); err != nil {
		return sim.Tuning{}, err
	}
	return t, nil
}
