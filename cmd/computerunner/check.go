package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"computerunner/internal/app"
	"computerunner/internal/config"
	"computerunner/internal/renderer"
	"computerunner/internal/shader"
)

var errCheckFailed = errors.New("one or more shaders failed to compile")

type checkResult struct {
	path    string
	lang    shader.Language
	err     error
	details string
}

// CheckShaders compiles every shader given on the command line.
func CheckShaders(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing shader file argument")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	checker := &shaderChecker{cfg: cfg}
	defer checker.Close()

	results := make([]checkResult, 0, ctx.NArg())
	for _, path := range ctx.Args() {
		results = append(results, checker.Check(path))
	}

	displayCheckResults(results)
	for _, res := range results {
		if res.err != nil {
			return errCheckFailed
		}
	}
	return nil
}

// shaderChecker validates WGSL offline and compiles GLSL against a hidden
// GL context that is created on first use.
type shaderChecker struct {
	cfg *config.Config
	gl  *app.App
}

func (c *shaderChecker) Check(path string) checkResult {
	res := checkResult{path: path, lang: shader.LanguageOf(path)}

	src, err := shader.Load(path)
	if err != nil {
		res.err = err
		return res
	}

	switch src.Language {
	case shader.WGSL:
		res.err = shader.ValidateWGSL(src.Code)
		if res.err == nil {
			var mod *shader.Module
			if mod, res.err = shader.Describe(src.Code); mod != nil {
				res.details = fmt.Sprintf("%d entry point(s), globals: %s", mod.EntryPoints, strings.Join(mod.Globals, ", "))
			}
		}
	default:
		if res.err = c.openGL(); res.err == nil {
			res.err = c.gl.LoadComputeShader(path)
		}
	}

	if res.err != nil {
		logger.Errorf("%s: %v", path, res.err)
	}
	return res
}

func (c *shaderChecker) openGL() error {
	if c.gl != nil {
		return nil
	}

	backend, err := renderer.New(config.BackendGL, shader.GLSL, c.cfg)
	if err != nil {
		return err
	}
	c.gl, err = app.New(c.cfg, backend, app.Options{Hidden: true})
	return err
}

func (c *shaderChecker) Close() {
	if c.gl != nil {
		c.gl.Cleanup()
		c.gl = nil
	}
}

func displayCheckResults(results []checkResult) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Shader", "Language", "Status", "Details"})

	failed := 0
	for _, res := range results {
		status, details := "ok", res.details
		if res.err != nil {
			failed++
			status = "FAILED"
			details = firstLine(res.err.Error())
		}
		table.Append([]string{res.path, res.lang.String(), status, details})
	}
	table.SetFooter([]string{"", "", "FAILED", fmt.Sprintf("%d / %d", failed, len(results))})

	table.Render()
	logger.Noticef("shader check results\n%s", buf.String())
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}
