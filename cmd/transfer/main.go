// Command transfer copies marker-linked annotations from a source PDF
// to a target PDF that shares the same order-id anchors, writing the
// result as a new document.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sven-vanh/lieferlisten-agent/config"
	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/observability"
	"github.com/sven-vanh/lieferlisten-agent/transfer"
)

type options struct {
	sourcePath string
	targetPath string
	outputPath string
	cfg        config.Config
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "transfer: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "transfer: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: transfer [flags] <source.pdf> <target.pdf> <output.pdf>\n")
		flag.PrintDefaults()
	}
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Append logs to this file in addition to the console")
	configPath := flag.String("config", "", "Path to a YAML options file")
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		return options{}, fmt.Errorf("expected source, target and output paths")
	}
	opts.sourcePath = flag.Arg(0)
	opts.targetPath = flag.Arg(1)
	opts.outputPath = flag.Arg(2)

	opts.cfg = config.Default()
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return options{}, err
		}
		opts.cfg = cfg
	}
	// Flags override the file.
	if *logLevel != "" {
		opts.cfg.LogLevel = *logLevel
	}
	if *logFile != "" {
		opts.cfg.LogFile = *logFile
	}
	return opts, nil
}

func run(opts options) error {
	pattern, err := opts.cfg.Pattern()
	if err != nil {
		return err
	}

	logWriter := io.Writer(os.Stderr)
	if opts.cfg.LogFile != "" {
		f, err := os.OpenFile(opts.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logWriter = io.MultiWriter(os.Stderr, f)
	}
	log := observability.New(logWriter, observability.ParseLevel(opts.cfg.LogLevel))

	agent := transfer.NewAgent(engine.PDF(), transfer.Options{
		AnchorPattern: pattern,
		Logger:        log,
	})
	report, err := agent.Transfer(context.Background(), opts.sourcePath, opts.targetPath, opts.outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("transferred %d of %d annotations (%d skipped) to %s\n",
		report.Transferred, report.Annotations,
		report.Annotations-report.Transferred, opts.outputPath)
	return nil
}
