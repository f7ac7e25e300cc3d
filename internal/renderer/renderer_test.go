package renderer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"computerunner/internal/config"
	"computerunner/internal/shader"
	"computerunner/pkg/workgroup"
)

func TestNewBackend(t *testing.T) {
	cfg := config.DefaultConfig()

	specs := []struct {
		name string
		lang shader.Language
		exp  string
	}{
		{config.BackendAuto, shader.GLSL, config.BackendGL},
		{config.BackendAuto, shader.WGSL, config.BackendWebGPU},
		{config.BackendGL, shader.WGSL, config.BackendGL},
		{config.BackendWebGPU, shader.GLSL, config.BackendWebGPU},
	}

	for _, spec := range specs {
		b, err := New(spec.name, spec.lang, cfg)
		require.NoError(t, err)
		assert.Equal(t, spec.exp, b.Name())
	}

	_, err := New("vulkan", shader.GLSL, cfg)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestBackendsRejectForeignLanguages(t *testing.T) {
	cfg := config.DefaultConfig()

	err := newGLBackend(cfg).LoadCompute(&shader.Source{Path: "a.wgsl", Language: shader.WGSL})
	assert.ErrorIs(t, err, ErrWrongLanguage)

	err = newWGPUBackend(cfg).LoadCompute(&shader.Source{Path: "a.glsl", Language: shader.GLSL})
	assert.ErrorIs(t, err, ErrWrongLanguage)
}

func TestDispatchWithoutShader(t *testing.T) {
	cfg := config.DefaultConfig()
	in := FrameInputs{Width: 64, Height: 64}

	assert.ErrorIs(t, newGLBackend(cfg).Dispatch(in), ErrNoCompute)
	assert.ErrorIs(t, newWGPUBackend(cfg).Dispatch(in), ErrNoCompute)
}

func TestFrameUniforms(t *testing.T) {
	in := FrameInputs{Time: 2.5, Width: 1280, Height: 720, MouseX: 10, MouseY: 20}
	u := in.Uniforms()

	assert.Equal(t, [2]float32{1280, 720}, u.Resolution)
	assert.Equal(t, [2]float32{10, 20}, u.Mouse)
	assert.Equal(t, float32(2.5), u.Time)

	// Uniform buffers are bound in 16 byte multiples.
	assert.Equal(t, uintptr(32), unsafe.Sizeof(u))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(u.Time))
}

func TestQuadVertices(t *testing.T) {
	require.Len(t, quadVertices, 6)
	assert.Equal(t, int32(16), vertexStride)

	for _, v := range quadVertices {
		for i := 0; i < 2; i++ {
			assert.Contains(t, []float32{-1, 1}, v.Position[i])
			// Texture coordinates map clip space [-1,1] to [0,1].
			assert.Equal(t, (v.Position[i]+1)/2, v.TexCoord[i])
		}
	}
}

func TestDispatchSize(t *testing.T) {
	cfg := config.DefaultConfig().Compute

	groups, err := dispatchSize(cfg, 1280, 720)
	require.NoError(t, err)
	assert.Equal(t, workgroup.Dims{X: 80, Y: 45, Z: 1}, groups)
	assert.Equal(t, workgroup.Dims{X: 16, Y: 16, Z: 1}, localSize(cfg))
}

func TestCheckGLVersion(t *testing.T) {
	assert.NoError(t, checkGLVersion(4, 6))
	assert.NoError(t, checkGLVersion(5, 0))

	for _, v := range [][2]int32{{4, 5}, {4, 3}, {3, 3}} {
		assert.ErrorIs(t, checkGLVersion(v[0], v[1]), ErrComputeUnsupported, "%d.%d", v[0], v[1])
	}
}

func TestResizeIgnoresEmptyFramebuffer(t *testing.T) {
	cfg := config.DefaultConfig()

	glb := newGLBackend(cfg)
	glb.width, glb.height = 640, 480
	for _, size := range [][2]int{{0, 0}, {0, 480}, {640, -1}} {
		require.NoError(t, glb.Resize(size[0], size[1]))
		assert.Equal(t, 640, glb.width)
		assert.Equal(t, 480, glb.height)
	}

	wgb := newWGPUBackend(cfg)
	wgb.width, wgb.height = 640, 480
	require.NoError(t, wgb.Resize(0, 0))
	assert.Equal(t, uint32(640), wgb.width)
	assert.Equal(t, uint32(480), wgb.height)
}
