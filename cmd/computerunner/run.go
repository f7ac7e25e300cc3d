package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"computerunner/internal/app"
	"computerunner/internal/config"
	"computerunner/internal/renderer"
	"computerunner/internal/shader"
)

// errUsage is returned after the usage text has been printed.
var errUsage = errors.New("usage")

func printUsage() {
	exeName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <compute_shader>\n", exeName)
	fmt.Fprintf(os.Stderr, "Example: %s shaders/mandelbrot.glsl\n", exeName)
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := stringFlag(ctx, "config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		logger.Infof("loaded config from %s", path)
	}

	if isSet(ctx, "width") {
		cfg.Window.Width = intFlag(ctx, "width")
	}
	if isSet(ctx, "height") {
		cfg.Window.Height = intFlag(ctx, "height")
	}
	if backend := stringFlag(ctx, "backend"); backend != "" {
		cfg.Window.Backend = backend
	}
	if boolFlag(ctx, "no-vsync") {
		cfg.Window.VSync = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if path := stringFlag(ctx, "save-config"); path != "" {
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}
		logger.Noticef("saved config to %s", path)
	}
	return cfg, nil
}

// RunShader opens the window and runs the compute shader until it is closed.
func RunShader(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		printUsage()
		return errUsage
	}
	path := ctx.Args().First()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	backend, err := renderer.New(cfg.Window.Backend, shader.LanguageOf(path), cfg)
	if err != nil {
		return err
	}

	runner, err := app.New(cfg, backend, app.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize compute shader runner: %w", err)
	}
	defer runner.Cleanup()

	if err := runner.LoadComputeShader(path); err != nil {
		return fmt.Errorf("failed to load compute shader: %w", err)
	}

	fmt.Println("Running compute shader. Press ESC to exit, R to reload.")
	fmt.Println("Controls:")
	fmt.Println("  ESC   - Exit application")
	fmt.Println("  R     - Reload shader (not implemented)")
	fmt.Println("  Mouse - Interactive input (if the shader reads the mouse uniform)")

	return runner.Run()
}
