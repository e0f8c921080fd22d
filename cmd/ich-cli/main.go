package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/zarkzo/ich-review/ichclient"
	"github.com/zarkzo/ich-review/internal/app"
)

type cliOptions struct {
	filePath string
	backend  string
	health   bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("ich-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("ich-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.filePath, "file", "", "DICOM scan file to submit")
	flag.StringVar(&opts.backend, "backend", "", "Backend origin (default from environment or http://localhost:8000)")
	flag.BoolVar(&opts.health, "health", false, "Only probe the backend's health endpoint")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --file SCAN.dcm [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.filePath = strings.TrimSpace(opts.filePath)
	if !opts.health && opts.filePath == "" {
		return opts, errors.New("--file is required")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg := ichclient.LoadConfig()
	if opts.backend != "" {
		cfg.BackendOrigin = opts.backend
		cfg = ichclient.SanitizeConfig(cfg)
	}
	client := ichclient.NewClient(cfg)
	ctx := context.Background()

	if opts.health {
		h, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("health probe: %w", err)
		}
		fmt.Printf("status=%s model_loaded=%v\n", h.Status, h.ModelLoaded)
		return nil
	}

	info, err := os.Stat(opts.filePath)
	if err != nil {
		return err
	}
	if err := ichclient.ValidateSelection(cfg, opts.filePath, info.Size()); err != nil {
		return err
	}

	f, err := os.Open(opts.filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	payload, _, err := client.Predict(ctx, filepath.Base(opts.filePath), f)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	fmt.Printf("original:  %s\n", client.ResolveImage(payload.OriginalImage))
	fmt.Printf("processed: %s\n\n", client.ResolveImage(payload.ProcessedImage))

	views, skipped := ichclient.BuildComparison(payload, cfg.DetectionThreshold)
	for _, view := range views {
		fmt.Printf("%s: %s\n", view.Name, app.Headline(view))
		for _, s := range view.Scores {
			marker := "   "
			if s.Flagged {
				marker = "[!]"
			}
			fmt.Printf("  %s %-20s %6.1f%%\n", marker, s.Label, s.Score)
		}
		fmt.Println()
	}
	for _, key := range skipped {
		fmt.Printf("(no result from %s)\n", key)
	}
	return nil
}
