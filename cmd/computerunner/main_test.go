package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"computerunner/internal/config"
	"computerunner/internal/renderer"
	"computerunner/pkg/workgroup"
)

func configFromArgs(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var (
		cfg *config.Config
		err error
	)
	a := newApp()
	a.Action = func(ctx *cli.Context) error {
		cfg, err = loadConfig(ctx)
		return nil
	}
	require.NoError(t, a.Run(append([]string{"computerunner"}, args...)))
	return cfg, err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := configFromArgs(t, "shader.glsl")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = 800\nheight = 600\ntitle = \"plasma\"\n"), 0644))

	cfg, err := configFromArgs(t, "--config", path, "--height", "400", "--backend", "webgpu", "--no-vsync", "shader.wgsl")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 400, cfg.Window.Height)
	assert.Equal(t, "plasma", cfg.Window.Title)
	assert.Equal(t, config.BackendWebGPU, cfg.Window.Backend)
	assert.False(t, cfg.Window.VSync)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := configFromArgs(t, "--width", "0", "shader.glsl")
	assert.ErrorIs(t, err, config.ErrInvalidSize)

	_, err = configFromArgs(t, "--backend", "metal", "shader.glsl")
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestLoadConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")

	cfg, err := configFromArgs(t, "--width", "640", "--no-vsync", "--save-config", path, "shader.glsl")
	require.NoError(t, err)

	saved, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
	assert.Equal(t, 640, saved.Window.Width)
	assert.False(t, saved.Window.VSync)

	_, err = configFromArgs(t, "--save-config", filepath.Join(t.TempDir(), "runner.ini"), "shader.glsl")
	assert.ErrorIs(t, err, config.ErrUnknownFormat)

	// Invalid settings are never written.
	bad := filepath.Join(t.TempDir(), "bad.json")
	_, err = configFromArgs(t, "--width", "0", "--save-config", bad, "shader.glsl")
	assert.ErrorIs(t, err, config.ErrInvalidSize)
	assert.NoFileExists(t, bad)
}

func TestRunShaderUsage(t *testing.T) {
	assert.Equal(t, errUsage, newApp().Run([]string{"computerunner"}))
	assert.Equal(t, errUsage, newApp().Run([]string{"computerunner", "a.glsl", "b.glsl"}))
}

func TestCheckWGSL(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wgsl")
	bad := filepath.Join(dir, "bad.wgsl")
	require.NoError(t, os.WriteFile(good, []byte("@compute @workgroup_size(16, 16)\nfn main() {}\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("@compute fn main( {\n"), 0644))

	assert.NoError(t, newApp().Run([]string{"computerunner", "check", good}))
	assert.Equal(t, errCheckFailed, newApp().Run([]string{"computerunner", "check", good, bad}))
	assert.Error(t, newApp().Run([]string{"computerunner", "check"}))
}

func TestFormatInfo(t *testing.T) {
	out := formatInfo(renderer.Info{
		Backend:         "gl",
		Version:         "4.6.0 NVIDIA 550.54",
		Renderer:        "NVIDIA GeForce RTX 3080",
		ShadingLanguage: "4.60 NVIDIA",
		Limits: workgroup.Limits{
			MaxCount:       workgroup.Dims{X: 2147483647, Y: 65535, Z: 65535},
			MaxSize:        workgroup.Dims{X: 1024, Y: 1024, Z: 64},
			MaxInvocations: 1024,
		},
	})

	assert.Contains(t, out, "NVIDIA GeForce RTX 3080")
	assert.Contains(t, out, "1024 x 1024 x 64")
	assert.True(t, strings.Contains(out, "Max work group invocations"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "compute shader: failed", firstLine("compute shader: failed\n0(3) : error C0000"))
	assert.Equal(t, "single", firstLine("single"))
}
