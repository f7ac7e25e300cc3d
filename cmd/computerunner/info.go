package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"computerunner/internal/app"
	"computerunner/internal/renderer"
	"computerunner/internal/shader"
)

// ShowInfo opens a hidden window and prints the device and its compute limits.
func ShowInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	backend, err := renderer.New(cfg.Window.Backend, shader.GLSL, cfg)
	if err != nil {
		return err
	}

	probe, err := app.New(cfg, backend, app.Options{Hidden: true})
	if err != nil {
		return err
	}
	defer probe.Cleanup()

	logger.Noticef("device info\n%s", formatInfo(probe.Backend().Info()))
	return nil
}

func formatInfo(info renderer.Info) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Backend", info.Backend},
		{"Version", info.Version},
		{"Renderer", info.Renderer},
		{"Shading language", info.ShadingLanguage},
		{"Max work group count", info.Limits.MaxCount.String()},
		{"Max work group size", info.Limits.MaxSize.String()},
		{"Max work group invocations", fmt.Sprintf("%d", info.Limits.MaxInvocations)},
	})
	table.Render()
	return buf.String()
}
