package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/uspexdb/internal/ctxlog"
	"github.com/vk/uspexdb/internal/macro"
	"github.com/vk/uspexdb/internal/params"
	"github.com/vk/uspexdb/internal/uspex"
	"github.com/vk/uspexdb/internal/value"
)

// inputFileName is the parameter file USPEX reads from a calculation
// folder; pointing InputPath at the folder resolves to it.
const inputFileName = "input.uspex"

// App encapsulates the application's dependencies, configuration, and
// lifecycle. Logs and diagnostics go to errW; the dump goes to outW.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// New returns a fully initialized App with its own isolated logger.
func New(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, errW: errW, logger: logger, config: config}
}

// Run reads the parameter file, resolves its macros, extracts run
// metadata, and writes both to outW in the configured format.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	path, err := resolveInputPath(a.config.InputPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Parameter file located.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading parameter file: %w", err)
	}

	doc, err := macro.Resolve(path, src)
	if err != nil {
		a.renderParseError(path, src, err)
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	a.logger.Info("Parameter file resolved.",
		"path", path,
		"definitions", len(doc.Names),
	)

	md, err := uspex.Metadata(doc.Root)
	if err != nil {
		return fmt.Errorf("extracting run metadata: %w", err)
	}
	a.logger.Info("Run metadata extracted.",
		"system", md.System,
		"var_comp", md.VarComp,
		"stages", len(md.OptStages),
	)

	out := value.NewMap()
	out.Set("params", doc.Root)
	out.Set("metadata", md.Value())
	return a.dump(ctx, out)
}

// renderParseError prints grammar failures with source context. Schema and
// I/O failures have no source range and are reported by the caller.
func (a *App) renderParseError(path string, src []byte, err error) {
	var perr *params.Error
	if !errors.As(err, &perr) {
		return
	}
	files := map[string]*hcl.File{path: {Bytes: src}}
	wr := hcl.NewDiagnosticTextWriter(a.errW, files, 100, false)
	if werr := wr.WriteDiagnostic(perr.Diagnostic()); werr != nil {
		a.logger.Error("Failed to render diagnostic.", "error", werr)
	}
}

func (a *App) dump(ctx context.Context, out *value.Map) error {
	logger := ctxlog.FromContext(ctx)
	switch a.config.Format {
	case "json":
		v := value.ToCty(out)
		raw, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return fmt.Errorf("encoding dump as JSON: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("formatting JSON dump: %w", err)
		}
		buf.WriteByte('\n')
		if _, err := a.outW.Write(buf.Bytes()); err != nil {
			return err
		}
	case "yaml":
		raw, err := yaml.Marshal(value.ToMapSlice(out))
		if err != nil {
			return fmt.Errorf("encoding dump as YAML: %w", err)
		}
		if _, err := a.outW.Write(raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown dump format %q", a.config.Format)
	}
	logger.Debug("Dump written.", "format", a.config.Format)
	return nil
}

// resolveInputPath accepts either the parameter file itself or a
// calculation folder containing one.
func resolveInputPath(input string) (string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("input path: %w", err)
	}
	if !info.IsDir() {
		return input, nil
	}
	path := filepath.Join(input, inputFileName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no %s in calculation folder %s", inputFileName, input)
	}
	return path, nil
}
