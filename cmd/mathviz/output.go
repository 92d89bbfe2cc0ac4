package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spektr-org/mathviz/config"
	"github.com/spektr-org/mathviz/engine"
	"github.com/spektr-org/mathviz/helpers"
	"github.com/spektr-org/mathviz/preview"
	"github.com/spektr-org/mathviz/schema"
)

// ============================================================================
// OUTPUT — Format, write and optionally publish command results
// ============================================================================

// formatExt maps an output format to the extension of a published artifact.
var formatExt = map[string]string{
	config.FormatJSON:   ".json",
	config.FormatPretty: ".json",
	config.FormatText:   ".txt",
	config.FormatCSV:    ".csv",
}

// encodeJSON marshals v in the json or pretty format.
func (a *app) encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if a.cfg.Output.Format == config.FormatPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return buf.Bytes(), nil
}

// formatResult renders a Result in the configured format.
func (a *app) formatResult(res *engine.Result) ([]byte, error) {
	switch a.cfg.Output.Format {
	case config.FormatText:
		return []byte(engine.BuildText(res)), nil
	case config.FormatCSV:
		if len(res.Charts) == 0 {
			return nil, errors.New("result has no chart to export as CSV; use --format text or json")
		}
		var buf bytes.Buffer
		for i := range res.Charts {
			if i > 0 {
				buf.WriteByte('\n')
			}
			data, err := helpers.ChartToCSV(&res.Charts[i])
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		return buf.Bytes(), nil
	default:
		return a.encodeJSON(res)
	}
}

// emit writes body to --out or stdout and publishes it when --publish is set.
func (a *app) emit(ctx context.Context, body []byte) error {
	if a.outPath != "" {
		if err := os.WriteFile(a.outPath, body, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		a.logger.Info("Output written", "path", a.outPath)
	} else if _, err := a.stdout.Write(body); err != nil {
		return err
	}

	if a.publish {
		ext := formatExt[a.cfg.Output.Format]
		if a.outPath != "" && filepath.Ext(a.outPath) != "" {
			ext = filepath.Ext(a.outPath)
		}
		return a.upload(ctx, body, ext)
	}
	return nil
}

// emitResult formats and emits a rendered result, then writes the preview
// when pngPath is set.
func (a *app) emitResult(ctx context.Context, res *engine.Result, pngPath string) error {
	body, err := a.formatResult(res)
	if err != nil {
		return err
	}
	if err := a.emit(ctx, body); err != nil {
		return err
	}
	if pngPath == "" {
		return nil
	}
	for i := range res.Charts {
		if !res.Charts[i].ThreeD {
			return a.writePreview(ctx, &res.Charts[i], pngPath)
		}
	}
	a.logger.Warn("No 2-D chart to preview", "path", pngPath)
	return nil
}

// writePreview rasterizes chart to path and publishes it when --publish is
// set.
func (a *app) writePreview(ctx context.Context, chart *engine.ChartDescription, path string) error {
	img, err := preview.RenderPNG(chart,
		preview.WithSize(a.cfg.Output.PreviewWidth, a.cfg.Output.PreviewHeight))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	a.logger.Info("Preview written", "path", path, "bytes", len(img))
	if a.publish {
		return a.upload(ctx, img, ".png")
	}
	return nil
}

func (a *app) upload(ctx context.Context, body []byte, ext string) error {
	if a.cfg.Publish.Bucket == "" {
		return fmt.Errorf("%w: --publish needs publish.bucket in the config", errUsage)
	}
	u, err := a.newUploader(ctx, a.cfg.Publish, a.logger)
	if err != nil {
		return err
	}
	url, err := u.Upload(ctx, body, ext)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stderr, "Published: %s\n", url)
	return nil
}

// render runs the domain renderer with the configured engine options.
func (a *app) render(domain schema.Domain, payload []byte) (*engine.Result, error) {
	return engine.Render(domain, payload, a.engineOptions()...)
}
