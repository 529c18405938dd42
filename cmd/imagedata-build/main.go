package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/imagedata/internal/builder"
	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/console"
)

func main() {
	// Command line flags
	var (
		rootFlag    = flag.String("root", "", "Working directory holding users/ (overrides config)")
		configFlag  = flag.String("config", "", "Path to config file")
		usersFlag   = flag.String("users", "", "Comma-separated user names (overrides config)")
		outputFlag  = flag.String("output", "", "Output CSV path (overrides config)")
		verifyFlag  = flag.Bool("verify", false, "Probe every referenced media file after scanning")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		saveFlag    = flag.String("save-config", "", "Write the effective settings to this file and exit")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "imagedata-build - Build the media dataset CSV from per-user folders")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  imagedata-build [options]")
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
	if *usersFlag != "" {
		settings.Users = config.SplitList(*usersFlag)
	}
	if *outputFlag != "" {
		settings.OutputCSV = *outputFlag
	}
	if *verifyFlag {
		settings.VerifyMedia = true
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
	console.Banner(os.Stdout, "Dataset Builder")

	result, err := builder.NewBuilder(settings, printer.Print).Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nBuild cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Users scanned: %d (%d missing)\n", result.UsersScanned, result.UsersMissing)
	fmt.Printf("Total entries: %d\n", len(result.Rows))
	if settings.VerifyMedia {
		fmt.Printf("Media problems: %d\n", result.Problems)
	}
	fmt.Printf("Output file: %s\n", result.OutputPath)
}
