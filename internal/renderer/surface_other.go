//go:build !darwin

package renderer

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

func createSurface(_ *wgpu.Instance, _ *glfw.Window) (*wgpu.Surface, error) {
	return nil, fmt.Errorf("%w: webgpu on %s", ErrBackendUnsupported, runtime.GOOS)
}
