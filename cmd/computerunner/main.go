package main

import (
	"os"
	"runtime"

	"github.com/urfave/cli"

	"computerunner/internal/config"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "computerunner"
	app.Usage = "dispatch a compute shader every frame and display its output"
	app.Version = "0.1.0"
	app.ArgsUsage = "<compute_shader>"
	app.Description = `
Load a compute shader, dispatch it over a full-window RGBA32F texture every
frame and blit the result to the screen.

GLSL shaders (.glsl, .comp) run on OpenGL 4.6. They write to image unit 0
and may declare the uniforms uTime (float), uResolution (vec2) and
uMouse (vec2). WGSL shaders (.wgsl) run on WebGPU and bind the output as a
write-only rgba32float storage texture at @binding(0) and a Frame uniform
{resolution, mouse, time} at @binding(1).`
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a json, toml or yaml file",
		},
		cli.StringFlag{
			Name:  "save-config",
			Usage: "write the effective settings to a json, toml or yaml file",
		},
		cli.IntFlag{
			Name:  "width",
			Value: config.DefaultConfig().Window.Width,
			Usage: "window width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: config.DefaultConfig().Window.Height,
			Usage: "window height",
		},
		cli.StringFlag{
			Name:  "backend, b",
			Usage: "gpu backend (gl or webgpu); picked from the shader extension if empty",
		},
		cli.BoolFlag{
			Name:  "no-vsync",
			Usage: "disable vertical sync",
		},
	}
	app.Action = RunShader
	app.Commands = []cli.Command{
		{
			Name:  "check",
			Usage: "compile compute shaders without running them",
			Description: `
WGSL shaders are validated offline. GLSL shaders are compiled and linked
against a hidden OpenGL context.`,
			ArgsUsage: "shader1 shader2 ...",
			Action:    CheckShaders,
		},
		{
			Name:   "info",
			Usage:  "print the gpu and its compute limits",
			Action: ShowInfo,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if err != errUsage {
			logger.Error(err)
		}
		os.Exit(1)
	}
}
