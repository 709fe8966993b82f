// Command flowcanvas loads a triage workflow diagram, routes its
// connections, and renders the result: export to SVG/PNG/JSON or preview
// interactively in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"flowcanvas/config"
	"flowcanvas/core"
	"flowcanvas/export"
	"flowcanvas/route"
	"flowcanvas/snapshot"
	"flowcanvas/store"
	"flowcanvas/terminal"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		storePath   = flag.String("store", "", "SQLite database to load the diagram from")
		jsonPath    = flag.String("json", "", "JSON snapshot file to load the diagram from")
		format      = flag.String("format", "svg", "Export format: svg, png, json")
		outputFile  = flag.String("o", "", "Output file (default: stdout; required for png)")
		interactive = flag.Bool("i", false, "Interactive terminal preview")
		traceEdge   = flag.String("trace", "", "Edge id to trace routing decisions for")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *traceEdge != "" {
		os.Setenv(route.TraceEnv, *traceEdge)
	} else if cfg.TraceEdge != "" {
		os.Setenv(route.TraceEnv, cfg.TraceEdge)
	}

	diagram, err := loadDiagram(cfg, *jsonPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load diagram")
	}

	router := route.NewRouter(route.Options{
		Standoff: cfg.Routing.Standoff,
		Padding:  cfg.Routing.Padding,
		Escape:   cfg.Routing.Escape,
	})
	router.SetLogger(log)
	routes := router.RouteAll(&diagram)

	if *interactive {
		if err := terminal.NewViewer(&diagram, routes).Run(); err != nil {
			log.Fatal().Err(err).Msg("viewer")
		}
		return
	}

	if err := writeOutput(&diagram, routes, *format, *outputFile); err != nil {
		log.Fatal().Err(err).Msg("export")
	}
}

func loadDiagram(cfg config.Config, jsonPath string) (core.Diagram, error) {
	if jsonPath != "" {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return core.Diagram{}, err
		}
		return snapshot.Decode(data)
	}
	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return core.Diagram{}, err
	}
	defer s.Close()
	return s.LoadDiagram(context.Background())
}

func writeOutput(d *core.Diagram, routes map[string]route.Route, format, outputFile string) error {
	switch format {
	case "png":
		if outputFile == "" {
			return fmt.Errorf("png export requires -o")
		}
		return export.PNG(outputFile, d, routes)
	case "svg", "json":
		out := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if format == "svg" {
			return export.SVG(out, d, routes)
		}
		data, err := snapshot.Encode(*d)
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
