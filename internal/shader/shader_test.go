package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCompute = `
@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
}
`

func TestLanguageOf(t *testing.T) {
	specs := map[string]Language{
		"shaders/mandelbrot.glsl": GLSL,
		"plasma.comp":             GLSL,
		"noise.cs":                GLSL,
		"noext":                   GLSL,
		"gradient.wgsl":           WGSL,
		"GRADIENT.WGSL":           WGSL,
	}

	for path, exp := range specs {
		assert.Equal(t, exp, LanguageOf(path), path)
	}
	assert.Equal(t, "glsl", GLSL.String())
	assert.Equal(t, "wgsl", WGSL.String())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "blur.comp")
	require.NoError(t, os.WriteFile(path, []byte("#version 460 core\nvoid main() {}\n"), 0644))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, GLSL, src.Language)
	assert.True(t, strings.HasPrefix(src.Code, "#version 460 core"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.glsl")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\t\n"), 0644))
	_, err := Load(empty)
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Contains(t, err.Error(), empty)

	missing := filepath.Join(dir, "missing.glsl")
	_, err = Load(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)
}

func TestBundledShaders(t *testing.T) {
	for _, name := range []string{"mandelbrot.glsl", "gradient.wgsl"} {
		src, err := Load(filepath.Join("..", "..", "shaders", name))
		require.NoError(t, err, name)
		assert.Equal(t, LanguageOf(name), src.Language)
	}
}

func TestValidateWGSL(t *testing.T) {
	assert.NoError(t, ValidateWGSL(minimalCompute))

	err := ValidateWGSL("fn main( {")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "wgsl validation failed")
}

func TestDescribe(t *testing.T) {
	mod, err := Describe(minimalCompute)
	require.NoError(t, err)
	assert.Equal(t, 1, mod.EntryPoints)
	assert.Empty(t, mod.Globals)

	_, err = Describe("fn helper() -> f32 { return 1.0; }")
	assert.ErrorIs(t, err, ErrNoEntryPoints)

	_, err = Describe("@compute fn")
	assert.Error(t, err)
}

func TestDisplayShadersAreTerminated(t *testing.T) {
	// The GL backend hands these straight to gl.Strs.
	for _, src := range []string{DisplayVertexGLSL, DisplayFragmentGLSL} {
		assert.True(t, strings.HasSuffix(src, "\x00"))
		assert.Contains(t, src, "#version 460 core")
	}
	assert.Contains(t, DisplayFragmentGLSL, UniformOutputTexture)
}
