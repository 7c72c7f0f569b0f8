package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"isopipe/bom"
	"isopipe/config"
	"isopipe/demo"
	"isopipe/editor"
	"isopipe/export"
	"isopipe/terminal"
)

func main() {
	// Define command line flags
	var (
		interactive = flag.Bool("i", false, "Interactive TUI mode (default when no script is given)")
		help        = flag.Bool("help", false, "Show help")

		// Settings
		configFile = flag.String("config", "", "YAML settings file")
		catalog    = flag.String("catalog", "", "YAML pricing catalog (overrides config)")
		catalogDB  = flag.String("catalog-db", "", "SQLite pricing catalog (overrides config)")
		unit       = flag.Float64("unit", 0, "Grid unit in world coordinates (overrides config)")
		logFile    = flag.String("log", "", "Append log output to this file")

		// Scripted sessions
		script  = flag.String("script", "", "Replay a session script (YAML or JSON) and export the result")
		demoRun = flag.Bool("demo", false, "Play the -script in the TUI with human-like timing")
		example = flag.Bool("example", false, "Print an example session script and exit")

		// Export flags
		format     = flag.String("format", "", "Export format: csv, json, svg (default: from -o extension, else csv)")
		outputFile = flag.String("o", "", "Output file (default: stdout)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An isometric piping diagram editor with bill of materials.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start interactive TUI\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -catalog prices.yaml              # Price the BOM while drawing\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script run.yaml                  # Replay a session, BOM CSV to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script run.yaml -o plant.svg     # Replay a session, draw it as SVG\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script run.yaml -demo            # Watch the session being drawn\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -example > run.yaml               # Start from the example script\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInteractive Mode Commands:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", editor.GetCompactHelp())
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *example {
		fmt.Print(demo.GenerateExample())
		os.Exit(0)
	}

	tuiMode := *interactive || *demoRun || *script == ""

	logger, closeLog, err := newLogger(*logFile, tuiMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := loadConfig(*configFile, *unit, *catalog, *catalogDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	prices, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	ctl := editor.NewController(cfg, editor.WithLogger(logger), editor.WithCatalog(prices))

	var session *demo.Script
	if *script != "" {
		session, err = demo.LoadScript(*script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if tuiMode {
		var playback *demo.Script
		if *demoRun {
			playback = session
		} else if session != nil {
			if err := demo.Run(ctl, session); err != nil {
				fmt.Fprintf(os.Stderr, "Error replaying %s: %v\n", *script, err)
				os.Exit(1)
			}
		}
		if err := terminal.RunInteractive(ctl, logger, playback); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	exportFormat, err := resolveFormat(*format, *outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Available formats: csv, json, svg\n")
		os.Exit(1)
	}

	if err := demo.Run(ctl, session); err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying %s: %v\n", *script, err)
		os.Exit(1)
	}

	output, err := exportSession(ctl, exportFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("wrote %s (%s)", *outputFile, exportFormat)
	} else {
		fmt.Print(output)
	}
}

// newLogger logs to path when given. Without a path, the TUI logs nowhere
// (stderr would corrupt the screen) and batch mode logs to stderr.
func newLogger(path string, tui bool) (*log.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return log.New(f, "[isopipe] ", log.LstdFlags), func() { f.Close() }, nil
	}
	if tui {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	return log.New(os.Stderr, "[isopipe] ", log.LstdFlags), func() {}, nil
}

// loadConfig reads the settings file, if any, and applies flag overrides.
func loadConfig(path string, unit float64, catalog, catalogDB string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if unit != 0 {
		cfg.GridUnit = unit
	}
	if catalog != "" {
		cfg.Catalog = catalog
	}
	if catalogDB != "" {
		cfg.CatalogDB = catalogDB
	}
	return cfg, cfg.Validate()
}

// loadCatalog builds the pricing catalog. With a database, a YAML catalog is
// imported into it first, so the database accumulates prices across runs.
// It returns nil when no catalog is configured: every item stays unpriced.
func loadCatalog(ctx context.Context, cfg config.Config, logger *log.Logger) (bom.Catalog, error) {
	var fromYAML bom.MapCatalog
	if cfg.Catalog != "" {
		var err error
		if fromYAML, err = bom.LoadYAMLCatalog(cfg.Catalog); err != nil {
			return nil, err
		}
		logger.Printf("loaded %d materials from %s", len(fromYAML), cfg.Catalog)
	}

	if cfg.CatalogDB == "" {
		if fromYAML == nil {
			return nil, nil
		}
		return fromYAML, nil
	}

	db, err := bom.OpenSQLiteCatalog(ctx, cfg.CatalogDB)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if len(fromYAML) > 0 {
		if err := db.Import(ctx, fromYAML); err != nil {
			return nil, err
		}
	}
	prices, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("loaded %d materials from %s", len(prices), cfg.CatalogDB)
	return prices, nil
}

// resolveFormat picks the export format from the flag, else from the output
// file extension, else CSV.
func resolveFormat(format, outputFile string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if outputFile != "" {
		return export.FormatForPath(outputFile)
	}
	return export.FormatCSV, nil
}

// exportSession renders the controller's current scene and BOM.
func exportSession(ctl *editor.Controller, format export.Format) (string, error) {
	exporter, err := export.NewExporter(format)
	if err != nil {
		return "", err
	}
	return exporter.Export(export.Document{
		Scene: ctl.Scene(),
		BOM:   ctl.BOM(),
		Unit:  ctl.Unit(),
	})
}
