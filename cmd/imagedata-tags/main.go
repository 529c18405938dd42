package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/handiism/imagedata/internal/console"
	"github.com/handiism/imagedata/internal/tags"
)

func main() {
	// Command line flags
	var (
		rootFlag    = flag.String("root", "", "Working directory holding archive/ and the CSV (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		archiveFlag = flag.String("archive", "", "Archive folder with JSON sidecars (overrides config)")
		csvFlag     = flag.String("csv", "", "CSV file to update (overrides config)")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		saveFlag    = flag.String("save-config", "", "Write the effective settings to this file and exit")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "imagedata-tags - Copy JSON sidecar tags into the dataset CSV")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  imagedata-tags [options]")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := console.LoadSettings(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *rootFlag != "" {
		settings.Root = *rootFlag
	}
	if *archiveFlag != "" {
		settings.ArchiveDir = *archiveFlag
	}
	if *csvFlag != "" {
		settings.TargetCSV = *csvFlag
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	if *saveFlag != "" {
		if err := settings.Save(*saveFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Settings saved to %s\n", *saveFlag)
		return
	}

	ctx, cancel := console.SignalContext(os.Stdout)
	defer cancel()

	printer := console.NewPrinter(os.Stdout, *verboseFlag)
	console.Banner(os.Stdout, "Tag Importer")

	result, err := tags.NewImporter(settings, printer.Print).Run(ctx)
	switch {
	case errors.Is(err, tags.ErrNoRecords):
		// Nothing to import; the CSV was left alone.
		return
	case err != nil:
		if ctx.Err() != nil {
			fmt.Println("\nImport cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  JSON files found: %d\n", result.Records)
	fmt.Printf("  CSV rows processed: %d\n", result.Rows)
	fmt.Printf("  Rows updated: %d\n", result.Updated)
	fmt.Printf("  Rows not found in JSON: %d\n", result.NotFound)
	fmt.Printf("  Backup saved as: %s\n", result.BackupPath)
}
