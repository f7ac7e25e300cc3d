package app

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"computerunner/internal/config"
	"computerunner/internal/renderer"
	"computerunner/internal/shader"
)

// recordingBackend remembers the calls the app makes without touching a GPU.
type recordingBackend struct {
	resizes  [][2]int
	released int
}

func (b *recordingBackend) Name() string { return "recording" }
func (b *recordingBackend) ConfigureWindow() {}
func (b *recordingBackend) Init(*glfw.Window, int, int) error { return nil }
func (b *recordingBackend) Info() renderer.Info { return renderer.Info{} }
func (b *recordingBackend) LoadCompute(*shader.Source) error { return nil }
func (b *recordingBackend) Dispatch(renderer.FrameInputs) error { return nil }
func (b *recordingBackend) Display() error { return nil }
func (b *recordingBackend) Present(*glfw.Window) {}
func (b *recordingBackend) Release() { b.released++ }
func (b *recordingBackend) Resize(width, height int) error {
	b.resizes = append(b.resizes, [2]int{width, height})
	return nil
}

func newTestApp(backend renderer.Backend) *App {
	return &App{
		backend: backend,
		cfg:     config.DefaultConfig(),
		width:   1280,
		height:  720,
	}
}

func TestFramebufferResize(t *testing.T) {
	backend := &recordingBackend{}
	app := newTestApp(backend)

	// Minimised windows report an empty framebuffer.
	app.onFramebufferSize(nil, 0, 0)
	app.onFramebufferSize(nil, 800, 0)
	assert.Empty(t, backend.resizes)
	assert.Equal(t, 1280, app.width)
	assert.Equal(t, 720, app.height)

	app.onFramebufferSize(nil, 800, 600)
	require.Len(t, backend.resizes, 1)
	assert.Equal(t, [2]int{800, 600}, backend.resizes[0])
	assert.Equal(t, 800, app.width)
	assert.Equal(t, 600, app.height)

	in := app.inputsAt(1.5, 3, 4)
	assert.Equal(t, 800, in.Width)
	assert.Equal(t, 600, in.Height)
	assert.Equal(t, float32(1.5), in.Time)
	assert.Equal(t, float32(3), in.MouseX)
}

func TestCleanupAfterPartialInit(t *testing.T) {
	backend := &recordingBackend{}
	app := newTestApp(backend)

	assert.NotPanics(t, app.Cleanup)
	assert.Equal(t, 1, backend.released)
	assert.Nil(t, app.window)

	assert.NotPanics(t, (&App{}).Cleanup)
}
