package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by Window.Backend.
const (
	BackendAuto   = ""
	BackendGL     = "gl"
	BackendWebGPU = "webgpu"
)

var (
	ErrUnknownFormat  = errors.New("config: unknown file format")
	ErrInvalidSize    = errors.New("config: window size must be positive")
	ErrInvalidLocal   = errors.New("config: work group size must be positive")
	ErrUnknownBackend = errors.New("config: unknown backend")
)

// Config holds the runner configuration.
type Config struct {
	Window  Window  `json:"window" toml:"window" yaml:"window"`
	Compute Compute `json:"compute" toml:"compute" yaml:"compute"`
	Display Display `json:"display" toml:"display" yaml:"display"`
}

// Window controls the output window and GPU context.
type Window struct {
	Width  int    `json:"width" toml:"width" yaml:"width"`
	Height int    `json:"height" toml:"height" yaml:"height"`
	Title  string `json:"title" toml:"title" yaml:"title"`

	// VSync sets a swap interval of 1 when enabled.
	VSync bool `json:"vsync" toml:"vsync" yaml:"vsync"`

	// Backend is "gl", "webgpu" or empty to pick from the shader file extension.
	Backend string `json:"backend" toml:"backend" yaml:"backend"`
}

// Compute describes how the user shader is dispatched.
type Compute struct {
	// LocalSizeX and LocalSizeY must match the local_size / workgroup_size
	// declared by the shader. The dispatch grid is ceil(extent/local).
	LocalSizeX int `json:"local_size_x" toml:"local_size_x" yaml:"local_size_x"`
	LocalSizeY int `json:"local_size_y" toml:"local_size_y" yaml:"local_size_y"`

	// EntryPoint is only used by WGSL shaders.
	EntryPoint string `json:"entry_point" toml:"entry_point" yaml:"entry_point"`
}

// Display controls the blit pass.
type Display struct {
	ClearColor [4]float32 `json:"clear_color" toml:"clear_color" yaml:"clear_color"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "ComputeRunner",
			VSync:  true,
		},
		Compute: Compute{
			LocalSizeX: 16,
			LocalSizeY: 16,
			EntryPoint: "main",
		},
		Display: Display{
			ClearColor: [4]float32{0, 0, 0, 1},
		},
	}
}

// Load reads the file at path on top of the defaults. The format is picked
// from the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Save writes the configuration to path using the format implied by the extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	case ".toml":
		data, err = toml.Marshal(c)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration can drive a dispatch.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Window.Width, c.Window.Height)
	}
	if c.Compute.LocalSizeX <= 0 || c.Compute.LocalSizeY <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidLocal, c.Compute.LocalSizeX, c.Compute.LocalSizeY)
	}
	switch c.Window.Backend {
	case BackendAuto, BackendGL, BackendWebGPU:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Window.Backend)
	}
	return nil
}
