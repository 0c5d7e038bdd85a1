// Package main provides the liketrim CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/liketrim/internal/cleaner"
	"github.com/gauthierbraillon/liketrim/internal/display"
	"github.com/gauthierbraillon/liketrim/internal/youtube"
	"github.com/gauthierbraillon/liketrim/pkg/browser"
	"github.com/gauthierbraillon/liketrim/pkg/oauth"
)

// version is overridden via ldflags on release builds.
var version = "dev"

func main() {
	// A .env next to the binary may carry LIKETRIM_* settings.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigDir returns the directory holding token.json. It defaults to the
// working directory so the token lives next to client-secret.json.
func getConfigDir() string {
	if dir := os.Getenv("LIKETRIM_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "."
}

// getAPIURL returns the API base URL (overridable for testing).
func getAPIURL() string {
	if url := os.Getenv("LIKETRIM_API_URL"); url != "" {
		return url
	}
	return "https://www.googleapis.com"
}

// newLogger builds the diagnostic logger. User-facing output goes to stdout
// through cobra; this logger is stderr-only.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)
}

// resolveVersion picks the version string: ldflags wins, then module build
// info, so both release builds and `go install ...@version` report properly.
func resolveVersion(ldflagsVersion string, bi *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if bi == nil || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return ldflagsVersion
	}
	return bi.Main.Version
}

// newRootCmd creates the root command. Running it without a subcommand
// performs the cleaning pass itself.
func newRootCmd() *cobra.Command {
	var (
		minDuration  float64
		clientSecret string
		dryRun       bool
		batchSize    int
		startIndex   int
		port         int
		verbose      bool
	)

	bi, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:   "liketrim",
		Short: "Remove short videos from your YouTube liked videos",
		Long: "Liketrim authenticates with the YouTube Data API and removes videos\n" +
			"shorter than a duration threshold from your liked-videos playlist.\n" +
			"Runs interrupted by the daily API quota can be resumed with --start-index.",
		Version: resolveVersion(version, bi),
		RunE: func(cmd *cobra.Command, args []string) error {
			if minDuration < 0 {
				return fmt.Errorf("invalid --min-duration %v: must not be negative", minDuration)
			}
			if startIndex < 0 {
				return fmt.Errorf("invalid --start-index %d: must not be negative", startIndex)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			log := newLogger(verbose)
			out := cmd.OutOrStdout()
			threshold := time.Duration(minDuration * float64(time.Minute))
			formatter := display.NewTerminalFormatter()

			fmt.Fprint(out, formatter.FormatHeader(threshold, startIndex))

			token, err := ensureToken(ctx, out, clientSecret, port, log)
			if err != nil {
				return err
			}

			opts := []youtube.ClientOption{youtube.WithLogger(log)}
			if url := os.Getenv("LIKETRIM_API_URL"); url != "" {
				opts = append(opts, youtube.WithBaseURL(url))
			}
			client := youtube.NewClient(token, opts...)

			run := cleaner.New(client, cleaner.WithOutput(out), cleaner.WithLogger(log))
			report, err := run.Run(ctx, cleaner.Options{
				MinDuration: threshold,
				DryRun:      dryRun,
				BatchSize:   batchSize,
				StartIndex:  startIndex,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSample(report.Pending))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatSummary(report, threshold))

			if !report.DryRun && (!report.Done() || report.QuotaExhausted) {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatResumeHint(report, threshold))
			}

			return nil
		},
	}

	rootCmd.SetVersionTemplate("liketrim version {{.Version}}\n")

	rootCmd.Flags().Float64Var(&minDuration, "min-duration", 5,
		"Minimum duration in minutes (videos shorter than this will be unliked)")
	rootCmd.Flags().StringVar(&clientSecret, "client-secret", "client-secret.json",
		"Path to the OAuth client secret JSON file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Show what would be unliked without actually unliking")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 50,
		"Number of videos to unlike in one run (lower for quota issues)")
	rootCmd.Flags().IntVar(&startIndex, "start-index", 0,
		"Start processing from this index (useful for resuming after quota exceeded)")
	rootCmd.Flags().IntVar(&port, "port", 8080,
		"Port for the OAuth callback server")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false,
		"Enable debug logging")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// ensureToken loads the cached token, refreshing or re-running the browser
// flow as needed. The client secret file is only read when a new or
// refreshed token is actually required.
func ensureToken(ctx context.Context, out io.Writer, clientSecretPath string, port int, log zerolog.Logger) (*oauth.Token, error) {
	storage := oauth.NewTokenStorage(getConfigDir())

	token, err := storage.Load()
	if err != nil && !errors.Is(err, oauth.ErrTokenNotFound) {
		return nil, err
	}

	if token.Valid() {
		return token, nil
	}

	secret, err := oauth.LoadClientSecret(clientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("authentication required but %w", err)
	}

	redirectURL := fmt.Sprintf("http://localhost:%d/callback", port)
	config := oauth.YouTubeOAuthConfig(secret.ClientID, secret.ClientSecret, redirectURL)

	if token != nil && token.RefreshToken != "" {
		refreshed, err := oauth.NewFlow(config).RefreshAccessToken(ctx, token.RefreshToken)
		if err == nil {
			if refreshed.RefreshToken == "" {
				refreshed.RefreshToken = token.RefreshToken
			}
			if err := storage.Save(refreshed); err != nil {
				return nil, fmt.Errorf("failed to save refreshed token: %w", err)
			}
			log.Debug().Msg("Refreshed access token")
			return refreshed, nil
		}
		log.Warn().Err(err).Msg("Token refresh failed, falling back to browser flow")
	}

	return browserAuth(ctx, out, config, port, storage)
}

// browserAuth runs the full OAuth browser flow and persists the token.
func browserAuth(ctx context.Context, out io.Writer, config oauth.Config, port int, storage *oauth.TokenStorage) (*oauth.Token, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OAuth configuration: %w", err)
	}

	flow := oauth.NewFlow(config)
	authURL, state := flow.GenerateAuthURL()

	fmt.Fprintln(out, "Opening browser for authorization...")
	if err := browser.Open(authURL); err != nil {
		fmt.Fprintf(out, "Could not open browser. Please visit:\n%s\n", authURL)
	}

	fmt.Fprintln(out, "Waiting for authorization...")
	code, err := oauth.NewCallbackServer(port).WaitForCallback(ctx, state, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Fprintln(out, "Exchanging authorization code...")
	token, err := flow.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	if err := storage.Save(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(out, "Token saved to: %s\n", storage.Path())
	return token, nil
}

// newAuthCmd creates the auth subcommand for explicit re-authentication.
func newAuthCmd() *cobra.Command {
	var port int
	var clientSecret string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with YouTube",
		Long:  "Run the OAuth browser flow and cache the resulting token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			secret, err := oauth.LoadClientSecret(clientSecret)
			if err != nil {
				return err
			}

			redirectURL := fmt.Sprintf("http://localhost:%d/callback", port)
			config := oauth.YouTubeOAuthConfig(secret.ClientID, secret.ClientSecret, redirectURL)
			storage := oauth.NewTokenStorage(getConfigDir())

			fmt.Fprintln(cmd.OutOrStdout(), "Authenticating with YouTube...")
			if _, err := browserAuth(ctx, cmd.OutOrStdout(), config, port, storage); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Successfully authenticated with YouTube!")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port for OAuth callback server")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "client-secret.json",
		"Path to the OAuth client secret JSON file")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show the configuration directory, token location and API base URL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage := oauth.NewTokenStorage(getConfigDir())
			fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", getConfigDir())
			fmt.Fprintf(cmd.OutOrStdout(), "Token file: %s\n", storage.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "API base URL: %s\n", getAPIURL())
			return nil
		},
	}

	return cmd
}
