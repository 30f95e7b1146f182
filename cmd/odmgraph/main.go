package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/hanpama/odmgraph/internal/eventbus"
	"github.com/hanpama/odmgraph/internal/odm"
	"github.com/hanpama/odmgraph/internal/odmgraph"
	"github.com/hanpama/odmgraph/internal/otel"
	"github.com/hanpama/odmgraph/internal/protoexport"
	"github.com/hanpama/odmgraph/internal/schema"
)

const rootUsage = `odmgraph — GraphQL schemas from document models

USAGE:
  odmgraph <command> [flags]

COMMANDS:
  compile-sdl      Build the GraphQL schema for a model definition file
  compile-proto    Generate a .proto file from a model definition file
  help             Show help for any command
`

const compileSDLUsage = `compile-sdl FLAGS:
  -models <file>          Model definitions (.yaml, .yml or .toml, required)
  -out <file>             Write SDL to file (default: stdout)
  -node                   Make every document type implement Node with connections
  -strict                 Fail when a reference targets an unknown type
  -log.level <level>      debug, info, warn or error (default: warn)
  -otel.endpoint <addr>   OTLP collector endpoint
  -otel.service <name>    OpenTelemetry service name (default: odmgraph)
`

const compileProtoUsage = `compile-proto FLAGS:
  -models <file>     Model definitions (.yaml, .yml or .toml, required)
  -package <name>    Proto package name (required)
  -out <dir>         Output directory for the generated .proto file (required)
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs, stdout, stderr)
	case "compile-proto":
		return cmdCompileProto(cmdArgs, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "compile-sdl":
		fmt.Fprint(stdout, compileSDLUsage)
	case "compile-proto":
		fmt.Fprint(stdout, compileProtoUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdCompileSDL(args []string, stdout, stderr io.Writer) error {
	modelsFile := ""
	outFile := ""
	node := false
	strict := false
	logLevel := "warn"
	otelEndpoint := ""
	otelService := "odmgraph"

	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&modelsFile, "models", modelsFile, "Model definitions file")
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	fs.BoolVar(&node, "node", node, "Make document types implement Node")
	fs.BoolVar(&strict, "strict", strict, "Fail on unresolved references")
	fs.StringVar(&logLevel, "log.level", logLevel, "Log level")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, compileSDLUsage)
		return err
	}
	if modelsFile == "" {
		fmt.Fprint(stderr, compileSDLUsage)
		return fmt.Errorf("-models is required")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("-log.level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	models, err := odm.LoadFile(modelsFile)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	reg := odmgraph.NewRegistry(odmgraph.WithLogger(logger))
	sch, err := odmgraph.Assemble(context.Background(), reg, models, odmgraph.AssembleOptions{
		Source: modelsFile,
		Node:   node,
		Strict: strict,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Fprint(stdout, sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

func cmdCompileProto(args []string, stderr io.Writer) error {
	modelsFile := ""
	pkg := ""
	outDir := ""
	fs := flag.NewFlagSet("compile-proto", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&modelsFile, "models", modelsFile, "Model definitions file")
	fs.StringVar(&pkg, "package", pkg, "Proto package name")
	fs.StringVar(&outDir, "out", outDir, "Output directory for the generated .proto file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, compileProtoUsage)
		return err
	}
	if modelsFile == "" || pkg == "" || outDir == "" {
		fmt.Fprint(stderr, compileProtoUsage)
		return fmt.Errorf("-models, -package and -out are required")
	}

	models, err := odm.LoadFile(modelsFile)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	fd, err := protoexport.Build(models, pkg)
	if err != nil {
		return fmt.Errorf("build proto: %w", err)
	}
	if _, err := protoexport.Render(fd, outDir); err != nil {
		return fmt.Errorf("render proto: %w", err)
	}
	return nil
}
