package renderer

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"computerunner/internal/config"
	"computerunner/internal/shader"
	"computerunner/pkg/workgroup"
)

// Image unit the output texture is bound to for the compute pass.
const outputImageUnit = 0

// Context version requested from GLFW and required from the driver.
const (
	glMajor = 4
	glMinor = 6
)

// glBackend dispatches GLSL compute shaders through an OpenGL 4.6 core context.
type glBackend struct {
	compute config.Compute
	clear   [4]float32
	vsync   bool

	width, height int

	computeShader  uint32
	computeProgram uint32
	displayProgram uint32
	outputTexture  uint32
	quadVAO        uint32
	quadVBO        uint32

	// Uniform locations in the compute program; -1 when not declared.
	locTime       int32
	locResolution int32
	locMouse      int32
	locOutput     int32

	info Info
}

func newGLBackend(cfg *config.Config) *glBackend {
	return &glBackend{
		compute:       cfg.Compute,
		clear:         cfg.Display.ClearColor,
		vsync:         cfg.Window.VSync,
		locTime:       -1,
		locResolution: -1,
		locMouse:      -1,
	}
}

func (b *glBackend) Name() string { return config.BackendGL }

func (b *glBackend) ConfigureWindow() {
	glfw.WindowHint(glfw.ContextVersionMajor, glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, glMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)
}

func (b *glBackend) Init(window *glfw.Window, width, height int) error {
	window.MakeContextCurrent()

	// gl.Init fails when the driver lacks any 4.6 core entry point.
	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not init opengl: %w: %v", ErrComputeUnsupported, err)
	}

	b.info = Info{
		Backend:         config.BackendGL,
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	logger.Noticef("OpenGL version: %s", b.info.Version)
	logger.Noticef("graphics card: %s", b.info.Renderer)
	logger.Noticef("GLSL version: %s", b.info.ShadingLanguage)

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if err := checkGLVersion(major, minor); err != nil {
		return err
	}

	b.info.Limits = queryComputeLimits()
	logger.Noticef("max compute work group count: %s", b.info.Limits.MaxCount)
	logger.Noticef("max compute work group size: %s", b.info.Limits.MaxSize)
	logger.Noticef("max compute work group invocations: %d", b.info.Limits.MaxInvocations)

	if b.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	b.width, b.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))

	b.setupDisplayQuad()
	if err := b.createDisplayProgram(); err != nil {
		return fmt.Errorf("failed to create display program: %w", err)
	}
	return nil
}

func checkGLVersion(major, minor int32) error {
	if major < glMajor || (major == glMajor && minor < glMinor) {
		return fmt.Errorf("%w: need %d.%d, have %d.%d", ErrComputeUnsupported, glMajor, glMinor, major, minor)
	}
	return nil
}

func queryComputeLimits() workgroup.Limits {
	var count, size [3]int32
	for idx := 0; idx < 3; idx++ {
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, uint32(idx), &count[idx])
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_SIZE, uint32(idx), &size[idx])
	}
	var invocations int32
	gl.GetIntegerv(gl.MAX_COMPUTE_WORK_GROUP_INVOCATIONS, &invocations)

	return workgroup.Limits{
		MaxCount:       workgroup.Dims{X: uint32(count[0]), Y: uint32(count[1]), Z: uint32(count[2])},
		MaxSize:        workgroup.Dims{X: uint32(size[0]), Y: uint32(size[1]), Z: uint32(size[2])},
		MaxInvocations: uint32(invocations),
	}
}

func (b *glBackend) Info() Info { return b.info }

func (b *glBackend) LoadCompute(src *shader.Source) error {
	if src.Language != shader.GLSL {
		return fmt.Errorf("%w: %s", ErrWrongLanguage, src.Language)
	}

	computeShader, err := compileShader(src.Code, gl.COMPUTE_SHADER)
	if err != nil {
		return fmt.Errorf("compute shader: %w", err)
	}

	computeProgram, err := linkProgram(computeShader)
	if err != nil {
		gl.DeleteShader(computeShader)
		return fmt.Errorf("compute program: %w", err)
	}

	b.releaseCompute()
	b.computeShader = computeShader
	b.computeProgram = computeProgram
	b.locTime = uniformLocation(computeProgram, shader.UniformTime)
	b.locResolution = uniformLocation(computeProgram, shader.UniformResolution)
	b.locMouse = uniformLocation(computeProgram, shader.UniformMouse)
	logger.Debugf("uniform locations: %s=%d %s=%d %s=%d",
		shader.UniformTime, b.locTime,
		shader.UniformResolution, b.locResolution,
		shader.UniformMouse, b.locMouse,
	)

	b.createOutputTexture()
	return nil
}

func (b *glBackend) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	b.width, b.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	b.createOutputTexture()
	return nil
}

func (b *glBackend) Dispatch(in FrameInputs) error {
	if b.computeProgram == 0 {
		return ErrNoCompute
	}

	groups, err := dispatchSize(b.compute, b.width, b.height)
	if err != nil {
		return err
	}
	if err := b.info.Limits.Check(groups, localSize(b.compute)); err != nil {
		return err
	}

	gl.UseProgram(b.computeProgram)
	if b.locTime != -1 {
		gl.Uniform1f(b.locTime, in.Time)
	}
	if b.locResolution != -1 {
		gl.Uniform2f(b.locResolution, float32(in.Width), float32(in.Height))
	}
	if b.locMouse != -1 {
		gl.Uniform2f(b.locMouse, in.MouseX, in.MouseY)
	}

	gl.DispatchCompute(groups.X, groups.Y, groups.Z)

	// Make image writes visible to the display pass.
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT)
	return nil
}

func (b *glBackend) Display() error {
	gl.ClearColor(b.clear[0], b.clear[1], b.clear[2], b.clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(b.displayProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.outputTexture)
	gl.Uniform1i(b.locOutput, 0)

	gl.BindVertexArray(b.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)))
	gl.BindVertexArray(0)
	return nil
}

func (b *glBackend) Present(window *glfw.Window) {
	window.SwapBuffers()
}

func (b *glBackend) Release() {
	b.releaseCompute()
	if b.displayProgram != 0 {
		gl.DeleteProgram(b.displayProgram)
		b.displayProgram = 0
	}
	if b.outputTexture != 0 {
		gl.DeleteTextures(1, &b.outputTexture)
		b.outputTexture = 0
	}
	if b.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &b.quadVAO)
		b.quadVAO = 0
	}
	if b.quadVBO != 0 {
		gl.DeleteBuffers(1, &b.quadVBO)
		b.quadVBO = 0
	}
}

func (b *glBackend) releaseCompute() {
	if b.computeProgram != 0 {
		gl.DeleteProgram(b.computeProgram)
		b.computeProgram = 0
	}
	if b.computeShader != 0 {
		gl.DeleteShader(b.computeShader)
		b.computeShader = 0
	}
	b.locTime, b.locResolution, b.locMouse = -1, -1, -1
}

// createOutputTexture (re)allocates the RGBA32F texture the compute shader
// writes to and binds it to the output image unit.
func (b *glBackend) createOutputTexture() {
	if b.outputTexture != 0 {
		gl.DeleteTextures(1, &b.outputTexture)
	}

	gl.GenTextures(1, &b.outputTexture)
	gl.BindTexture(gl.TEXTURE_2D, b.outputTexture)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(b.width), int32(b.height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindImageTexture(outputImageUnit, b.outputTexture, 0, false, 0, gl.WRITE_ONLY, gl.RGBA32F)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debugf("allocated %dx%d output texture", b.width, b.height)
}

func (b *glBackend) setupDisplayQuad() {
	gl.GenVertexArrays(1, &b.quadVAO)
	gl.GenBuffers(1, &b.quadVBO)

	gl.BindVertexArray(b.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*int(vertexStride), gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, 2*4)

	gl.BindVertexArray(0)
}

func (b *glBackend) createDisplayProgram() error {
	vertexShader, err := compileShader(shader.DisplayVertexGLSL, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(shader.DisplayFragmentGLSL, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	b.displayProgram, err = linkProgram(vertexShader, fragmentShader)
	if err != nil {
		return fmt.Errorf("display program: %w", err)
	}
	b.locOutput = uniformLocation(b.displayProgram, shader.UniformOutputTexture)
	return nil
}

// compileShader compiles src as a shader of the given type. On failure the
// returned error carries the driver's info log.
func compileShader(src string, typ uint32) (uint32, error) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}

	handle := gl.CreateShader(typ)
	csources, free := gl.Strs(src)
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)

		return 0, fmt.Errorf("%w:\n%s", ErrCompile, strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

// linkProgram links the shaders into a new program.
func linkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(program, sh)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w:\n%s", ErrLink, strings.TrimRight(msg, "\x00"))
	}
	return program, nil
}

func uniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
