// Command gphotosreconcile reorganizes a Google Photos Takeout export into
// a deduplicated, date-organized tree (§6). It wraps internal/pipeline
// behind a cobra root command: a flat set of local flags bound
// directly into a config.Config, validated once in PreRunE.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaankhosla/gphotosreconcile/internal/config"
	"github.com/shaankhosla/gphotosreconcile/internal/events"
	"github.com/shaankhosla/gphotosreconcile/internal/logging"
	"github.com/shaankhosla/gphotosreconcile/internal/pipeline"
)

// Exit codes per §6's command-line surface.
const (
	exitOK                = 0
	exitGenericFailure    = 1
	exitCLIParseError     = 2
	exitMissingRequired   = 10
	exitInputDoesNotExist = 11
	exitNoMediaFound      = 13
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	cfg := config.New()
	var albumBehavior, extFix string
	var divideToDates int

	root := &cobra.Command{
		Use:           "gphotosreconcile",
		Short:         "Reorganize a Google Photos Takeout export into a deduplicated, dated tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.AlbumBehavior = config.AlbumBehavior(albumBehavior)
			cfg.ExtensionFix = config.ExtensionFixMode(extFix)
			cfg.DateDivision = config.DateDivision(divideToDates)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.InputPath); err != nil {
				return fmt.Errorf("%w: %s", errInputNotFound, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewDefault(cfg.Verbose)
			rec, err := events.NewRecorder(log, cfg.ReportDBPath)
			if err != nil {
				return err
			}
			defer rec.Close()

			summary, err := pipeline.Run(ctx, cfg, log, rec)
			if err != nil {
				return err
			}
			if summary.Discovered == 0 && !cfg.IsSolo() {
				return errNoMediaFound
			}
			printSummary(summary)
			fmt.Println("DONE!")
			return nil
		},
	}

	root.Flags().StringVar(&cfg.InputPath, "input", "", "path to the extracted Takeout export (required)")
	root.Flags().StringVar(&cfg.OutputPath, "output", "", "path to write the reorganized tree to (required)")
	root.Flags().StringVar(&albumBehavior, "albums", string(config.AlbumShortcut), "album materialization strategy: shortcut|reverse-shortcut|duplicate-copy|json|nothing")
	root.Flags().IntVar(&divideToDates, "divide-to-dates", 0, "output directory depth by date: 0=none 1=year 2=month 3=day")
	root.Flags().StringVar(&extFix, "fix-extensions", string(config.FixStandard), "extension correction mode: none|standard|conservative|solo")
	root.Flags().BoolVar(&cfg.WriteExif, "write-exif", true, "write recovered date/GPS into file metadata")
	root.Flags().BoolVar(&cfg.SkipExtras, "skip-extras", false, "skip Google's '-edited' style derivative files")
	root.Flags().BoolVar(&cfg.GuessFromName, "guess-from-name", true, "fall back to filename-embedded timestamps (Pixel/Nexus/Samsung/generic camera patterns)")
	root.Flags().BoolVar(&cfg.TransformPixelMP, "transform-pixel-mp", false, "parsed for compatibility; no Pixel Motion Photo transform is performed")
	root.Flags().BoolVar(&cfg.UpdateCreationTime, "update-creation-time", false, "sync filesystem creation time to the recovered date (platform-gated)")
	root.Flags().BoolVar(&cfg.LimitFileSize, "limit-filesize", false, "treat files over 64MiB as unique rather than hashing them for dedup")
	root.Flags().BoolVar(&cfg.Verbose, "verbose", false, "enable debug-level logging")
	root.Flags().BoolVar(&cfg.DividePartnerShared, "divide-partner-shared", false, "place partner-shared media under a PARTNER_SHARED/ subtree")
	root.Flags().StringVar(&cfg.ReportDBPath, "report-db", "", "optional path to a SQLite database recording every per-file outcome")
	root.Flags().IntVar(&cfg.MaxConcurrency, "concurrency", config.DefaultMaxConcurrency, "bounded worker count for dedup/move stages")

	if err := root.MarkFlagRequired("input"); err != nil {
		return exitGenericFailure
	}
	if err := root.MarkFlagRequired("output"); err != nil {
		return exitGenericFailure
	}

	if err := root.ExecuteContext(ctx); err != nil {
		return exitCodeFor(err)
	}
	return exitOK
}

var (
	errNoMediaFound  = fmt.Errorf("no media files found under input path")
	errInputNotFound = fmt.Errorf("input path does not exist")
)

func exitCodeFor(err error) int {
	code := exitGenericFailure
	switch {
	case errors.Is(err, errNoMediaFound):
		code = exitNoMediaFound
	case errors.Is(err, errInputNotFound):
		code = exitInputDoesNotExist
	case configErrorKind(err) == configKindMissing:
		code = exitMissingRequired
	case configErrorKind(err) == configKindInvalid:
		code = exitCLIParseError
	case strings.HasPrefix(err.Error(), "required flag(s)"):
		// cobra's own ValidateRequiredFlags error, raised before PreRunE ever
		// runs for --input/--output.
		code = exitMissingRequired
	case strings.Contains(err.Error(), "unknown flag") || strings.Contains(err.Error(), "unknown command") || strings.Contains(err.Error(), "invalid argument"):
		code = exitCLIParseError
	}
	fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
	return code
}

type configKind int

const (
	configKindNone configKind = iota
	configKindMissing
	configKindInvalid
)

// configErrorKind classifies a (possibly errors.Join-joined) validation
// error: Missing wins over Invalid when both are present, since a required
// path that is entirely absent is the more actionable thing to report.
func configErrorKind(err error) configKind {
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		return configKindNone
	}
	if cfgErr.Missing {
		return configKindMissing
	}
	return configKindInvalid
}

func printSummary(s pipeline.Summary) {
	fmt.Printf("extensions fixed:    %d\n", s.ExtensionsFixed)
	fmt.Printf("discovered:          %d\n", s.Discovered)
	fmt.Printf("duplicates removed:  %d\n", s.DuplicatesRemoved)
	fmt.Printf("dates extracted:     %d\n", s.DatesExtracted)
	fmt.Printf("metadata written:    %d\n", s.ExifWritten)
	fmt.Printf("album memberships:   %d\n", s.AlbumsAttached)
	fmt.Printf("burst frames tagged: %d\n", s.BurstFramesTagged)
	fmt.Printf("moved:               %d\n", s.Moved)
	fmt.Printf("move failures:       %d\n", s.MoveFailed)
	fmt.Printf("creation times set:  %d\n", s.CreationTimeSet)
	for _, line := range s.Errors {
		fmt.Println("  -", line)
	}
}
