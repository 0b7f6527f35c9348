package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/api/github"
	"github.com/vilaca/activity-feed/internal/config"
	"github.com/vilaca/activity-feed/internal/dashboard"
	"github.com/vilaca/activity-feed/internal/domain"
	"github.com/vilaca/activity-feed/internal/service"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "activity-feed <command>",
	Short:         "Merged public GitHub activity for a list of users",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feed as a web page and JSON API",
	RunE:  runServe,
}

var feedCmd = &cobra.Command{
	Use:   "feed [username...]",
	Short: "Print the merged feed",
	Long: `Fetch the public events of each user, merge them newest first and print them.

Users given as arguments replace FEED_USERS / FEED_USERS_FILE.

Examples:
  activity-feed feed octocat torvalds
  activity-feed feed --json -n 20`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().Bool("json", false, "output as JSON")
	feedCmd.Flags().IntP("limit", "n", 0, "maximum events to print (default FEED_EVENT_LIMIT)")

	rootCmd.AddCommand(serveCmd, feedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// components holds the wired dependencies shared by every command.
type components struct {
	logger  *dashboard.StdLogger
	cached  *api.CachingClient
	service *service.FeedService
}

// buildComponents wires up all dependencies.
// This is the composition root where all dependencies are created and injected.
func buildComponents(cfg *config.Config) *components {
	logger := dashboard.NewStdLogger()
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout(),
	}

	decoder := github.Decoder{
		Policy:      cfg.DecodePolicy(),
		Diagnostics: github.LoggerDiagnostics{Logger: logger},
	}
	githubClient := github.NewClient(api.ClientConfig{BaseURL: cfg.GitHubURL}, httpClient, decoder)

	// Wrap with caching layer
	cached := api.NewCachingClient(githubClient, cfg.CacheDuration())

	return &components{
		logger:  logger,
		cached:  cached,
		service: service.NewFeedService(cached, logger, cfg.MaxConcurrentFetches),
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	c := buildComponents(cfg)
	defer c.cached.Close()

	usernames := cfg.Usernames()
	if len(usernames) == 0 {
		log.Printf("WARNING: No users configured. Set FEED_USERS or FEED_USERS_FILE, or pass ?users=a,b")
	}

	refresher := service.NewBackgroundRefresher(c.service, usernames, c.cached, cfg.RefreshInterval(), c.logger)
	refresher.Start()
	defer refresher.Stop()

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:       dashboard.NewHTMLRenderer(),
		Logger:         c.logger,
		FeedService:    c.service,
		Usernames:      usernames,
		Limit:          cfg.EventLimit,
		RequestTimeout: cfg.RequestTimeout(),
	})
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting Activity Feed on http://localhost%s (%d users, cache: %v, decode policy: %s)",
			addr, len(usernames), cfg.CacheDuration(), cfg.DecodePolicy())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runFeed(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.EventLimit
	}

	usernames := args
	if len(usernames) == 0 {
		usernames = cfg.Usernames()
	}
	if len(usernames) == 0 {
		return fmt.Errorf("no users given; pass usernames or set FEED_USERS")
	}

	c := buildComponents(cfg)
	defer c.cached.Close()

	feed, err := c.service.GetFeed(cmd.Context(), usernames, limit)
	if err != nil {
		return err
	}

	bold := term.IsTerminal(int(os.Stdout.Fd()))
	return writeFeed(cmd.OutOrStdout(), feed, jsonOutput, bold)
}

// writeFeed prints feed either as the /api/feed JSON envelope or as a text table.
func writeFeed(out io.Writer, feed domain.Feed, jsonOutput, bold bool) error {
	if jsonOutput {
		return dashboard.WriteFeedJSON(out, feed, "  ")
	}
	return dashboard.TextRenderer{Bold: bold}.RenderFeed(out, feed)
}
