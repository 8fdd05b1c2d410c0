// Command doodozer downloads videos from DoodStream.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/doodget/doodozer"
	"github.com/doodget/doodozer/internal/batch"
	"github.com/doodget/doodozer/internal/config"
	"github.com/doodget/doodozer/internal/logger"
	"github.com/doodget/doodozer/pkg/client"
)

var (
	flagOutput      string
	flagVerbose     bool
	flagNoProgress  bool
	flagConcurrency int
	flagRateLimit   string
	flagTimeout     time.Duration
	flagRetries     int
	flagUA          string
	flagProxy       string
	cfgFile         string

	rootCmd = &cobra.Command{
		Use:   "doodozer [flags] URL...",
		Short: "Video downloader tool for DoodStream",
		Long: `doodozer downloads videos from DoodStream by resolving /e/ and /d/ page
URLs into direct media links.

Multiple URLs can be given as separate arguments or comma-separated.`,
		Example: `  doodozer https://d-s.io/e/xxxxxxxxxx
  doodozer https://d-s.io/e/xxxxxxxxxx -o video.mp4 -v
  doodozer "https://d-s.io/e/xxxxxxxxxx,https://d-s.io/e/yyyyyyyyyy" -o videos/`,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Filename or path to save the video (default derives from title)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose log output")
	rootCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Disable progress output")
	rootCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Parallelism for multi-URL downloads")
	rootCmd.Flags().StringVar(&flagRateLimit, "rate-limit", "", "Download rate limit (e.g., 2MiB/s, 500KiB/s)")
	rootCmd.Flags().DurationVar(&flagTimeout, "http-timeout", 0, "HTTP timeout (e.g., 30s, 1m)")
	rootCmd.Flags().IntVar(&flagRetries, "retries", 0, "HTTP retries for transient errors")
	rootCmd.Flags().StringVar(&flagUA, "ua", "", "Override User-Agent header")
	rootCmd.Flags().StringVar(&flagProxy, "proxy", "", "Proxy URL (http/https/socks)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/doodozer/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthcheckCmd)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	lcfg := logger.EnvConfig()
	if cfg.Log.Level != "" {
		lcfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		lcfg.Format = cfg.Log.Format
	}
	logger.Setup(lcfg)
	if flagVerbose {
		logger.SetLevel("debug")
	}
	log := logger.WithComponent(logger.ComponentApp)

	urls := validURLs(log, splitURLs(args))
	if len(urls) == 0 {
		return fmt.Errorf("no valid DoodStream URLs; make sure URLs contain /e/ or /d/")
	}

	outputPath, err := prepareOutputPath(cfg.OutputPath, len(urls))
	if err != nil {
		return err
	}

	httpClient := client.NewWith(client.Config{
		Timeout:   cfg.HTTPTimeout,
		Retries:   cfg.Retries,
		UserAgent: cfg.UserAgent,
		ProxyURL:  cfg.Proxy,
	})
	rateBps := parseRate(cfg.RateLimit)

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	showProgress := !cfg.NoProgress && concurrency == 1

	log.Info("downloading", "videos", len(urls))

	factory := func() batch.Fetcher {
		d := doodozer.New().
			WithHTTPClient(httpClient.HTTPClient).
			WithOutputPath(outputPath).
			WithRateLimit(rateBps).
			WithUserAgent(cfg.UserAgent)
		if showProgress {
			d.WithProgress(renderProgress)
		}
		return d
	}

	res, err := batch.Run(cmd.Context(), urls, batch.Options{
		Concurrency: concurrency,
		Factory:     factory,
		OnUpdate:    printTaskUpdate,
	})
	if err != nil {
		return err
	}

	if res.Failed > 0 {
		fmt.Fprintln(os.Stdout, errorStyle.Render(fmt.Sprintf("Done with errors: %d ok, %d failed", res.Completed, res.Failed)))
		return fmt.Errorf("%d of %d downloads failed", res.Failed, len(res.Tasks))
	}
	fmt.Fprintln(os.Stdout, successStyle.Render(fmt.Sprintf("All %d video(s) successfully downloaded", res.Completed)))
	return nil
}

// applyFlags overlays explicitly set flags onto the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.OutputPath = flagOutput
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.RateLimit = flagRateLimit
	}
	if cmd.Flags().Changed("http-timeout") {
		cfg.HTTPTimeout = flagTimeout
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries = flagRetries
	}
	if cmd.Flags().Changed("ua") {
		cfg.UserAgent = flagUA
	}
	if cmd.Flags().Changed("proxy") {
		cfg.Proxy = flagProxy
	}
	if cmd.Flags().Changed("no-progress") {
		cfg.NoProgress = flagNoProgress
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
}

// splitURLs flattens arguments, splitting comma-separated lists.
func splitURLs(args []string) []string {
	var urls []string
	for _, arg := range args {
		for _, u := range strings.Split(arg, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

// validURLs filters out non-DoodStream URLs, warning about each one skipped.
func validURLs(log *logger.ComponentLogger, urls []string) []string {
	var valid []string
	for _, u := range urls {
		if !doodozer.IsValidURL(u) {
			log.Warn("invalid URL ignored", "url", u)
			continue
		}
		valid = append(valid, u)
	}
	return valid
}

// prepareOutputPath creates the output directory when several URLs target a
// path that does not yet exist.
func prepareOutputPath(path string, urlCount int) (string, error) {
	if path == "" || urlCount < 2 {
		return path, nil
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return path, nil
	}
	// Multiple downloads need a directory target
	if filepath.Ext(path) != "" {
		path = filepath.Dir(path)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return path, nil
}
