// Package shader loads compute shader sources and holds the fixed display
// shaders used to blit the compute output to the screen.
package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
)

// Uniforms the GL backend feeds to the compute program when it declares them.
const (
	UniformTime       = "uTime"
	UniformResolution = "uResolution"
	UniformMouse      = "uMouse"

	// Sampler used by the display fragment shader.
	UniformOutputTexture = "uOutputTexture"
)

var (
	ErrEmptySource   = errors.New("shader: empty source")
	ErrNoEntryPoints = errors.New("shader: module declares no entry points")
)

// Language identifies the shading language of a source file.
type Language int

const (
	GLSL Language = iota
	WGSL
)

func (l Language) String() string {
	if l == WGSL {
		return "wgsl"
	}
	return "glsl"
}

// Source is a compute shader read from disk.
type Source struct {
	Path     string
	Language Language
	Code     string
}

// LanguageOf guesses the language from the file extension. Anything that is
// not .wgsl is treated as GLSL.
func LanguageOf(path string) Language {
	if strings.EqualFold(filepath.Ext(path), ".wgsl") {
		return WGSL
	}
	return GLSL
}

// Load reads the shader at path. A missing, unreadable or empty file is an error.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compute shader file %q: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("failed to read compute shader file %q: %w", path, ErrEmptySource)
	}

	return &Source{
		Path:     path,
		Language: LanguageOf(path),
		Code:     string(data),
	}, nil
}

// ValidateWGSL compiles WGSL source with naga and returns any error it reports.
func ValidateWGSL(code string) error {
	if _, err := naga.Compile(code); err != nil {
		return fmt.Errorf("shader: wgsl validation failed: %w", err)
	}
	return nil
}

// Module summarizes a parsed WGSL module.
type Module struct {
	EntryPoints int
	Functions   int
	Globals     []string
}

// Describe parses and lowers WGSL source and reports what it declares.
func Describe(code string) (*Module, error) {
	ast, err := naga.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("shader: wgsl parse failed: %w", err)
	}
	ir, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("shader: wgsl lowering failed: %w", err)
	}

	mod := &Module{
		EntryPoints: len(ir.EntryPoints),
		Functions:   len(ir.Functions),
	}
	for _, gv := range ir.GlobalVariables {
		mod.Globals = append(mod.Globals, gv.Name)
	}
	if mod.EntryPoints == 0 {
		return mod, ErrNoEntryPoints
	}
	return mod, nil
}
