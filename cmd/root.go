package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/config"
	"github.com/s0up4200/moyklass/filter"
	"github.com/s0up4200/moyklass/moyklass"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *moyklass.Client
	filters *filter.Manager

	// Command flags
	filterExpr   string
	preset       string
	outputFormat string
)

var (
	okLabel    = color.New(color.FgGreen)
	errorLabel = color.New(color.FgRed)
	warnLabel  = color.New(color.FgYellow)
	titleLabel = color.New(color.FgCyan, color.Bold)
)

// skipInitAnnotation marks commands that run without config or API client
const skipInitAnnotation = "skipInit"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moyklass",
	Short: "A command line client for the Moyklass CRM API",
	Long: `moyklass talks to the Moyklass CRM REST API: it lists and creates users,
payments, lessons, subscriptions, tasks and groups.

Every command acquires a session token from your API key and revokes it
before exiting. List output can be narrowed with an expression:

  moyklass payments list --filter 'summa > 1000 and optype == "income"'
  moyklass users list --preset vip`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to listed records")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format (json, text)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	if !needsClient(cmd) {
		return nil
	}

	if outputFormat != "json" && outputFormat != "text" {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'text')", outputFormat)
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	}

	// Create Moyklass client
	opts := []moyklass.Option{
		moyklass.WithBaseURL(cfg.Moyklass.BaseURL),
		moyklass.WithTimeout(cfg.Moyklass.Timeout),
		moyklass.WithMaxRedirects(cfg.Moyklass.MaxRedirects),
	}
	if cfg.Moyklass.UserAgent != "" {
		opts = append(opts, moyklass.WithUserAgent(cfg.Moyklass.UserAgent))
	}
	client, err = moyklass.NewClient(cfg.Moyklass.APIKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Moyklass client: %w", err)
	}

	// Register filter presets
	filters = filter.NewManager(filter.WithCompiler(
		filter.NewExprCompiler(filter.WithCache(100), filter.WithCustomFunctions(filterFunctions())),
	))
	presets := make(map[string]filter.Preset, len(cfg.Filter.Presets))
	for name, p := range cfg.Filter.Presets {
		presets[name] = filter.Preset{Expression: p.Expression, Description: p.Description}
	}
	if err := filters.RegisterPresets(presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// needsClient reports whether cmd talks to the API. Help, completion and
// commands annotated with skipInitAnnotation run without config.
func needsClient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipInitAnnotation] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; no colour when stderr is redirected
	noColor := !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	color.NoColor = color.NoColor || noColor

	return zerolog.New(output).With().Timestamp().Logger()
}

// withSession runs fn inside a token scope: the token is acquired first and
// revoked when fn returns, fails or panics.
func withSession(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	err := client.WithToken(cmd.Context(), fn)

	var apiErr *moyklass.APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		return fmt.Errorf("%w (check moyklass.api_key)", err)
	}
	return err
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the API key against Moyklass",
	Long:  `Acquire and revoke a session token and display basic account information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(stdout, "Testing connection to Moyklass at %s...\n", client.BaseURL())

	err := withSession(cmd, func(ctx context.Context) error {
		okLabel.Fprintln(stdout, "✓ Token acquired")

		types, err := client.Payments.Types(ctx)
		if err != nil {
			return fmt.Errorf("failed to get payment types: %w", err)
		}

		attributes, err := client.Users.Attributes(ctx)
		if err != nil {
			return fmt.Errorf("failed to get user attributes: %w", err)
		}

		titleLabel.Fprintf(stdout, "\nMoyklass account:\n")
		fmt.Fprintf(stdout, "- Payment types: %d\n", len(types.Records("")))
		fmt.Fprintf(stdout, "- User attributes: %d\n", len(attributes.Records("")))

		if presets := filters.ListPresets(); len(presets) > 0 {
			titleLabel.Fprintf(stdout, "\nFilter presets:\n")
			for _, p := range presets {
				fmt.Fprintf(stdout, "  • %s: %s", p.Name, p.Expression)
				if p.Description != "" {
					fmt.Fprintf(stdout, " (%s)", p.Description)
				}
				fmt.Fprintln(stdout)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	okLabel.Fprintln(stdout, "✓ Token revoked")
	return nil
}
