package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/build"
	"github.com/rohmanhakim/site-mirror/internal/config"
	"github.com/rohmanhakim/site-mirror/internal/scheduler"
	"github.com/rohmanhakim/site-mirror/pkg/hashutil"
	"github.com/rohmanhakim/site-mirror/pkg/urlutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	concurrency   int
	userAgent     string
	timeout       time.Duration
	indexFileName string
	hashAlgo      string
	logLevel      string
	logFormat     string
	logFile       string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "site-mirror <root-url> <mirror-dir>",
	Short: "Mirror a single website into a local directory.",
	Long: `site-mirror downloads every resource reachable from a root address
on the same host and stores it byte for byte under a local directory,
laid out by URL path.

HTML documents are scanned for href and src references; everything else
is stored verbatim and never parsed. Each address is fetched at most once.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runMirror,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Summary())
	},
}

func runMirror(cmd *cobra.Command, args []string) error {
	rootURL, err := urlutil.ParseAbsolute(args[0])
	if err != nil {
		return fmt.Errorf("%w: root url: %s", config.ErrInvalidConfig, err)
	}

	cfg, err := InitConfigWithError(rootURL, args[1])
	if err != nil {
		return err
	}

	logger, err := NewLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	rootAddress := cfg.RootURL()
	logger.Info().
		Str("root_url", rootAddress.String()).
		Str("mirror_dir", cfg.MirrorDir()).
		Int("concurrency", cfg.Concurrency()).
		Msg("mirror started")

	execution, err := scheduler.NewScheduler(cfg, logger).ExecuteMirroring(cmd.Context())
	if err != nil {
		return fmt.Errorf("mirror interrupted: %w", err)
	}

	fmt.Fprintf(
		cmd.OutOrStdout(),
		"mirrored %d of %d targets into %s (%d errors, %d path collisions)\n",
		execution.TotalMirrored,
		execution.TotalVisited,
		cfg.MirrorDir(),
		execution.TotalErrors,
		execution.TotalCollisions,
	)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM stop dispatching new targets; in-flight fetches finish.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., /home/myuser/mirror.yaml)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of targets fetched at once (default 1)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for one HTTP request including its body (default 30s)")
	rootCmd.PersistentFlags().StringVar(&indexFileName, "index-file", "", "file name stored for directory-like paths (default index.html)")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "content hash of mirrored files: blake3 or sha256 (default blake3)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "console or json (default console)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this size-rotated file")

	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError builds the run configuration, returning any errors.
//
// Precedence, lowest first: defaults, the config file, the positional
// root and mirror directory, then every flag that was given a non-zero value.
func InitConfigWithError(rootURL url.URL, mirrorDir string) (config.Config, error) {
	var configBuilder *config.Config
	if cfgFile != "" {
		fromFile, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = fromFile.
			WithRootURL(rootURL).
			WithMirrorDir(mirrorDir)
	} else {
		configBuilder = config.WithDefault(rootURL, mirrorDir)
	}

	// Override with CLI flag values where provided
	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if indexFileName != "" {
		configBuilder = configBuilder.WithIndexFileName(indexFileName)
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(hashAlgo))
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if logFile != "" {
		configBuilder = configBuilder.WithLogFile(logFile)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	concurrency = 0
	userAgent = ""
	timeout = 0
	indexFileName = ""
	hashAlgo = ""
	logLevel = ""
	logFormat = ""
	logFile = ""
}

// ExecuteForTest runs the root command with args, writing both output
// streams to out.
func ExecuteForTest(ctx context.Context, args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.ExecuteContext(ctx)
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetIndexFileNameForTest(name string) {
	indexFileName = name
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetLogFileForTest(path string) {
	logFile = path
}
