package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-audio/internal/config"
	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/logging"
	"github.com/ytget/yt-audio/internal/platform"
	"github.com/ytget/yt-audio/internal/report"
	"github.com/ytget/yt-audio/internal/ui"
)

// Version is set during build via -ldflags
var Version = "dev"

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
)

// Dependencies are the external collaborators used by a run
type Dependencies struct {
	NewExtractor   func(*config.Settings) download.Extractor
	PlaylistParser platform.PlaylistParser
	Install        func(context.Context) error
}

// DefaultDependencies wires the yt-dlp backed implementations
func DefaultDependencies() Dependencies {
	return Dependencies{
		NewExtractor: func(s *config.Settings) download.Extractor {
			return download.NewYTDLPExtractor(s)
		},
		PlaylistParser: platform.NewYTDLPParserService(),
		Install:        download.Install,
	}
}

// errUsage marks invalid command line usage
var errUsage = errors.New("invalid arguments")

// Execute runs the command line with args (without the program name) and
// returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, stdout, stderr, DefaultDependencies())
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, deps Dependencies) int {
	exitCode := ExitOK
	cmd := newRootCmd(stdout, stderr, deps, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		printUsage(stderr)
		return ExitError
	}
	return exitCode
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "Single URL: %s <youtube_url> <output_path>\n", config.AppName)
	fmt.Fprintf(w, "Batch mode: %s --batch <urls_file> <output_path>\n", config.AppName)
	fmt.Fprintf(w, "Run '%s --help' for all options.\n", config.AppName)
}

func newRootCmd(stdout, stderr io.Writer, deps Dependencies, exitCode *int) *cobra.Command {
	var (
		batchFile string
		cfgFile   string
	)

	cmd := &cobra.Command{
		Use:           config.AppName + " <url> <output_path> | --batch <urls_file> <output_path>",
		Short:         "Download audio from YouTube videos as MP3",
		Long:          `yt-audio downloads the audio track of one YouTube video, or of every URL listed in a file, converts it to MP3 and shows live progress.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			want := 2
			if batchFile != "" {
				want = 1
			}
			if len(args) != want {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				*exitCode = ExitError
				return nil
			}

			r := &runner{
				stdout:   stdout,
				stderr:   stderr,
				settings: settings,
				deps:     deps,
			}
			if batchFile != "" {
				r.batchFile = batchFile
				r.outputDir = args[0]
			} else {
				r.url = args[0]
				r.outputDir = args[1]
			}
			*exitCode = r.run(cmd.Context())
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	d := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&batchFile, "batch", "", "file with one URL per line")
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/yt-audio/yt-audio.yaml)")
	flags.String("format", d.Format, "yt-dlp format selector")
	flags.String("audio-format", d.AudioFormat, "audio codec to convert to")
	flags.String("audio-quality", d.AudioQuality, "audio quality (bitrate in kbps or VBR level 0-10)")
	flags.Bool("write-thumbnail", d.WriteThumbnail, "save the video thumbnail next to the audio file")
	flags.Bool("quiet", d.Quiet, "suppress yt-dlp output other than progress")
	flags.Bool("no-warnings", d.NoWarnings, "suppress yt-dlp warnings")
	flags.Bool("expand-playlists", d.ExpandPlaylists, "download every video of playlist URLs")
	flags.Bool("install-ytdlp", d.InstallYTDLP, "download a yt-dlp binary if none is available")
	flags.String("report", "", "write a YAML report of the run to this file")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", d.LogFormat, "log format (text, json)")

	return cmd
}

// runner holds the state of a single invocation
type runner struct {
	stdout    io.Writer
	stderr    io.Writer
	settings  *config.Settings
	deps      Dependencies
	url       string
	batchFile string
	outputDir string
}

func (r *runner) run(ctx context.Context) int {
	logging.Init(r.settings.LogFormat, r.settings.LogLevel, r.stderr)

	runID := uuid.NewString()
	logger := logging.WithRun(logging.L("cli"), runID)
	ctx = logging.NewContext(ctx, logger)
	startedAt := time.Now()

	var urls []string
	if r.batchFile != "" {
		list, err := platform.ReadURLsFromFile(r.batchFile)
		if err != nil {
			fmt.Fprintf(r.stdout, "Error reading URL file: %v\n", err)
			return ExitError
		}
		urls = list
	} else {
		urls = []string{r.url}
	}

	if !platform.ValidateDirectory(r.outputDir) {
		fmt.Fprintf(r.stdout, "Error: Cannot access or create directory: %s\n", r.outputDir)
		return ExitError
	}

	lock, err := platform.LockDirectory(r.outputDir)
	if err != nil {
		fmt.Fprintf(r.stdout, "Error: %v: %s\n", err, r.outputDir)
		return ExitError
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output directory", logging.KeyError, err)
		}
	}()

	if r.settings.InstallYTDLP && r.deps.Install != nil {
		if err := r.deps.Install(ctx); err != nil {
			fmt.Fprintf(r.stdout, "Error: %v\n", err)
			return ExitError
		}
	}

	if r.settings.ExpandPlaylists && r.deps.PlaylistParser != nil {
		urls = platform.ExpandPlaylists(ctx, r.deps.PlaylistParser, urls)
	}

	logger.Info("run started", "urls", len(urls), logging.KeyPath, r.outputDir)

	reporter := ui.NewProgressReporter(r.stdout)
	service := download.NewService(r.deps.NewExtractor(r.settings), r.outputDir, r.stdout, reporter.Func())
	service.SetLogger(logging.WithRun(logging.L("download"), runID))

	summary, results := service.Run(ctx, urls)
	service.PrintSummary(summary)

	logger.Info("run finished", "summary", summary.String())

	if r.settings.Report != "" {
		rep := &report.Report{
			RunID:      runID,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			OutputDir:  r.outputDir,
			Summary:    summary,
			Results:    results,
		}
		if err := report.Write(r.settings.Report, rep); err != nil {
			fmt.Fprintf(r.stderr, "Warning: %v\n", err)
			logger.Warn("report not written", logging.KeyPath, r.settings.Report, logging.KeyError, err)
		}
	}

	return ExitOK
}
