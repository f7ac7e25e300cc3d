// Package renderer runs the compute and display passes on the GPU.
package renderer

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"computerunner/internal/config"
	"computerunner/internal/log"
	"computerunner/internal/shader"
	"computerunner/pkg/workgroup"
)

var logger = log.New("renderer")

// Backend drives one GPU API. All methods must be called from the main thread.
type Backend interface {
	// Name returns the backend identifier ("gl" or "webgpu").
	Name() string

	// ConfigureWindow sets the GLFW window hints the backend needs. It is
	// called before the window is created.
	ConfigureWindow()

	// Init binds the backend to the window and builds the display pass.
	Init(window *glfw.Window, width, height int) error

	// Info describes the device. Valid after Init.
	Info() Info

	// LoadCompute compiles the compute shader and allocates the output
	// texture. A previously loaded shader is released first.
	LoadCompute(src *shader.Source) error

	// Resize reallocates the output texture for the new framebuffer size.
	Resize(width, height int) error

	// Dispatch runs the compute shader over the output texture.
	Dispatch(in FrameInputs) error

	// Display blits the output texture to the window.
	Display() error

	// Present shows the frame.
	Present(window *glfw.Window)

	// Release frees every GPU object the backend created.
	Release()
}

// Info describes the GPU and its compute limits.
type Info struct {
	Backend         string
	Version         string
	Renderer        string
	ShadingLanguage string
	Limits          workgroup.Limits
}

// FrameInputs are the per-frame values handed to the compute shader.
type FrameInputs struct {
	// Time in seconds since the window system was initialized.
	Time float32

	// Framebuffer size in pixels.
	Width, Height int

	// Cursor position in window coordinates.
	MouseX, MouseY float32
}

// FrameUniforms matches the Frame uniform block of WGSL compute shaders.
type FrameUniforms struct {
	Resolution [2]float32
	Mouse      [2]float32
	Time       float32
	_          [3]float32
}

// Uniforms packs the inputs into the WGSL uniform layout.
func (in FrameInputs) Uniforms() FrameUniforms {
	return FrameUniforms{
		Resolution: [2]float32{float32(in.Width), float32(in.Height)},
		Mouse:      [2]float32{in.MouseX, in.MouseY},
		Time:       in.Time,
	}
}

// New creates the backend named by name. An empty name selects the backend
// from the shader language.
func New(name string, lang shader.Language, cfg *config.Config) (Backend, error) {
	if name == config.BackendAuto {
		name = DefaultBackend(lang)
	}

	switch name {
	case config.BackendGL:
		return newGLBackend(cfg), nil
	case config.BackendWebGPU:
		return newWGPUBackend(cfg), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// DefaultBackend picks the backend able to compile shaders of the given language.
func DefaultBackend(lang shader.Language) string {
	if lang == shader.WGSL {
		return config.BackendWebGPU
	}
	return config.BackendGL
}

func dispatchSize(cfg config.Compute, width, height int) (workgroup.Dims, error) {
	return workgroup.Dispatch(width, height, cfg.LocalSizeX, cfg.LocalSizeY)
}

func localSize(cfg config.Compute) workgroup.Dims {
	return workgroup.Dims{X: uint32(cfg.LocalSizeX), Y: uint32(cfg.LocalSizeY), Z: 1}
}
