package renderer

import "errors"

var (
	ErrUnknownBackend     = errors.New("renderer: unknown backend")
	ErrBackendUnsupported = errors.New("renderer: backend not supported on this platform")
	ErrComputeUnsupported = errors.New("renderer: compute shaders require an OpenGL 4.6 core context")
	ErrWrongLanguage      = errors.New("renderer: shader language not supported by backend")
	ErrCompile            = errors.New("renderer: shader compilation failed")
	ErrLink               = errors.New("renderer: program linking failed")
	ErrNoCompute          = errors.New("renderer: no compute shader loaded")
)
