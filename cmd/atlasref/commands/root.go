package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"atlasref/internal/components/telemetry"
	"atlasref/internal/config"
	"atlasref/internal/fetch"
	"atlasref/internal/pipeline"
	"atlasref/lib/restyutil"
	"atlasref/lib/serviceutil"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

const apiKeyEnv = "GOOGLE_API_KEY"

// output directory used when --out is not given, relative to the config file
const defaultOutDir = "../site/src/data"

var (
	configPath *string
	outDir     *string
	verbose    *bool
	dumpHttp   *string
	summary    *bool
)

func init() {
	configPath = rootCmd.Flags().String("config", "config.yaml", "The configuration file (.yaml or .json5).")
	outDir = rootCmd.Flags().String("out", "", "The directory data files are written to, defaults to "+defaultOutDir+" next to the config file.")
	verbose = rootCmd.Flags().BoolP("verbose", "v", false, "Print debug logs.")
	dumpHttp = rootCmd.Flags().String("dump-http", "", "Write every request and response into this directory, it must be empty or hold an earlier dump.")
	summary = rootCmd.Flags().Bool("summary", false, "Print a table of what was written.")
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func resolveOutDir() string {
	if *outDir != "" {
		return *outDir
	}
	return filepath.Join(filepath.Dir(*configPath), defaultOutDir)
}

func newFetchClient(cfg config.Config, tel telemetry.API) fetch.Client {
	opts := fetch.Options{
		Timeout:   cfg.Http.Timeout.Std(),
		UserAgent: cfg.Http.UserAgent,
	}
	if *dumpHttp != "" {
		dump, err := restyutil.NewFilesystemOutput(*dumpHttp)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		opts.Dump = dump
	}
	return fetch.NewRestyClient(tel, opts)
}

var rootCmd = &cobra.Command{
	Use:   "atlasref [cards|maps|template...]",
	Short: "atlasref regenerates the card and map data files of the atlas reference site.",
	Long: `atlasref regenerates the card and map data files of the atlas reference site.

The argument selects the exports, every one of cards, maps and template that
appears in it is produced (ex. "cards,maps" or "mapstemplate").`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initSlog(*verbose)

		selection := ""
		if len(args) > 0 {
			selection = args[0]
		}
		exports := pipeline.ParseExports(selection)
		if !exports.Any() {
			slog.Info("nothing to do, pass an argument containing cards, maps or template")
			return
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		tel := telemetry.SlogAPI{}
		t1 := time.Now()
		result, err := pipeline.Run(cmd.Context(), pipeline.Options{
			Config:  cfg,
			ApiKey:  os.Getenv(apiKeyEnv),
			Exports: exports,
			OutDir:  resolveOutDir(),
			Fetch:   newFetchClient(cfg, tel),
			Tel:     tel,
		})
		if err != nil {
			serviceutil.Fatal("failed to export data", err)
		}
		t2 := time.Now()

		slog.Info("export time", "seconds", t2.Sub(t1).Seconds())
		if *summary {
			renderSummary(os.Stdout, result)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
