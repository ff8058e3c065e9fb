// Package relief is the command that paints a textured relief image from a
// run configuration.
package relief

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/gruppe-adler/relief-utils/internal/config"
	"github.com/gruppe-adler/relief-utils/internal/logger"
	"github.com/gruppe-adler/relief-utils/internal/processor"
	"github.com/gruppe-adler/relief-utils/internal/texture"
	"github.com/gruppe-adler/relief-utils/internal/utils"
	"github.com/gruppe-adler/relief-utils/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	start := time.Now()

	configPtr := flagSet.String("config", "", "Path to the run configuration (YAML)")
	outputPtr := flagSet.String("out", "", "Path to output image, overrides the configuration")
	debugPtr := flagSet.Bool("debug", false, "Log debug messages")
	initPtr := flagSet.String("init", "", "Write a sample configuration to given path and exit")

	flagSet.Parse(os.Args[2:])

	if *initPtr != "" {
		if err := Sample().SaveTo(*initPtr); err != nil {
			log.Fatal(err)
		}
		fmt.Println("✔️  Wrote sample configuration to", *initPtr)
		return
	}

	if *configPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}
	if !utils.IsFile(*configPtr) {
		log.Fatal(errors.New("Configuration is not a valid file"))
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	if *outputPtr != "" {
		cfg.Output = *outputPtr
	}
	if *debugPtr {
		cfg.Logging.Level = "debug"
	}

	if err := validate.Run(cfg); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Validated configuration")
	for _, w := range validate.Warnings(cfg) {
		fmt.Println("⚠️ ", w)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: *debugPtr}
	if cfg.Logging.File != "" {
		opts.File = logger.DefaultFileOptions(cfg.Logging.File)
	}
	lg := logger.Init(opts)
	defer logger.Sync()

	procOpts, err := ProcessorOptions(cfg)
	if err != nil {
		log.Fatal(err)
	}
	procOpts.Logger = lg
	procOpts.Reporter = NewReporter(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := processor.New(procOpts).Run(ctx); err != nil {
		lg.Error("relief failed", zap.Error(err))
		logger.Sync()
		stop()
		os.Exit(1)
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// ProcessorOptions converts a validated configuration. It opens every
// texture area.
func ProcessorOptions(cfg *config.Run) (processor.Options, error) {
	descriptors, err := cfg.Descriptors()
	if err != nil {
		return processor.Options{}, err
	}

	var defaultColor *texture.Color
	if cfg.DefaultColor != nil {
		c := texture.Color(*cfg.DefaultColor)
		defaultColor = &c
	}

	return processor.Options{
		Terrain:      cfg.Terrain,
		Output:       cfg.Output,
		CellSize:     cfg.CellSize,
		Light:        cfg.Hillshade.Light(),
		DefaultColor: defaultColor,
		Seed:         cfg.Seed,
		Workers:      cfg.Workers,
		WorkspaceDir: cfg.WorkspaceDir(),
		WorldFile:    cfg.Outputs.WorldFile,
		TerrainRGB:   cfg.Outputs.TerrainRGB,
		Metadata:     cfg.Outputs.Metadata,
		Textures:     descriptors,
	}, nil
}

// NewReporter prints status messages to w, one line each.
func NewReporter(w io.Writer) processor.Reporter {
	return processor.ReporterFunc(func(s processor.Status) {
		switch s.Kind {
		case processor.Warning:
			fmt.Fprintf(w, "⚠️  %s\n", s.Message)
		case processor.Error:
			fmt.Fprintf(w, "❌  %s\n", s.Message)
		default:
			fmt.Fprintf(w, "✔️  %s in %s\n", s.Message, s.Elapsed.String())
		}
	})
}
