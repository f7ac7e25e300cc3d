// Package app owns the window and drives the per-frame compute/display loop.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"computerunner/internal/config"
	"computerunner/internal/input"
	"computerunner/internal/log"
	"computerunner/internal/renderer"
	"computerunner/internal/shader"
)

var logger = log.New("app")

// Options control window creation.
type Options struct {
	// Hidden creates an invisible window, for offline compilation and
	// device queries.
	Hidden bool
}

type App struct {
	window   *glfw.Window
	backend  renderer.Backend
	bindings input.Bindings
	cfg      *config.Config

	width, height int
	shaderPath    string

	stats *FrameCounter
}

// New initializes GLFW, opens the window and sets up the backend's display
// pass. On error everything created so far is released.
func New(cfg *config.Config, backend renderer.Backend, opts Options) (*App, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.DefaultWindowHints()
	backend.ConfigureWindow()
	if opts.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	app := &App{
		window:   window,
		backend:  backend,
		bindings: input.DefaultBindings(),
		cfg:      cfg,
		stats:    NewFrameCounter(time.Second),
	}

	// The framebuffer can differ from the requested window size on HiDPI displays.
	app.width, app.height = window.GetFramebufferSize()

	if err := backend.Init(window, app.width, app.height); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.setupCallbacks()
	return app, nil
}

// Backend returns the GPU backend driven by the app.
func (app *App) Backend() renderer.Backend {
	return app.backend
}

func (app *App) setupCallbacks() {
	app.window.SetKeyCallback(app.onKey)
	app.window.SetFramebufferSizeCallback(app.onFramebufferSize)
}

func (app *App) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	switch app.bindings.Resolve(key, action) {
	case input.Quit:
		w.SetShouldClose(true)
	case input.Reload:
		logger.Notice("reload functionality not implemented yet")
	}
}

func (app *App) onFramebufferSize(w *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		logger.Debugf("ignoring %dx%d framebuffer", width, height)
		return
	}

	app.width, app.height = width, height
	if err := app.backend.Resize(width, height); err != nil {
		logger.Errorf("resize to %dx%d failed: %v", width, height, err)
	}
}

// LoadComputeShader reads, compiles and links the compute shader at path
// and allocates the output texture.
func (app *App) LoadComputeShader(path string) error {
	src, err := shader.Load(path)
	if err != nil {
		return err
	}

	if err := app.backend.LoadCompute(src); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	app.shaderPath = path
	logger.Noticef("compute shader loaded successfully: %s", path)
	return nil
}

// Run dispatches and displays frames until the window is closed.
func (app *App) Run() error {
	for !app.window.ShouldClose() {
		glfw.PollEvents()

		if err := app.backend.Dispatch(app.frameInputs()); err != nil {
			return fmt.Errorf("compute dispatch failed: %w", err)
		}
		if err := app.backend.Display(); err != nil {
			return fmt.Errorf("display failed: %w", err)
		}
		app.backend.Present(app.window)

		if fps, ok := app.stats.Tick(time.Now()); ok {
			app.window.SetTitle(fmt.Sprintf("%s | %s | FPS: %d", app.cfg.Window.Title, app.shaderPath, fps))
			logger.Debugf("%d frames per second", fps)
		}
	}

	return nil
}

func (app *App) frameInputs() renderer.FrameInputs {
	mouseX, mouseY := app.window.GetCursorPos()
	return app.inputsAt(float32(glfw.GetTime()), mouseX, mouseY)
}

// inputsAt builds the frame inputs for the current framebuffer size.
func (app *App) inputsAt(now float32, mouseX, mouseY float64) renderer.FrameInputs {
	return renderer.FrameInputs{
		Time:   now,
		Width:  app.width,
		Height: app.height,
		MouseX: float32(mouseX),
		MouseY: float32(mouseY),
	}
}

// Cleanup releases GPU objects, destroys the window and terminates GLFW.
func (app *App) Cleanup() {
	if app.backend != nil {
		app.backend.Release()
	}
	if app.window != nil {
		app.window.Destroy()
		app.window = nil
	}
	glfw.Terminate()
}
