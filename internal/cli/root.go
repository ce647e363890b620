// Package cli implements the command-line interface for ghfinder.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/thesavant42/ghfinder/internal/api"
	"github.com/thesavant42/ghfinder/internal/config"
	"github.com/thesavant42/ghfinder/internal/db"
	"github.com/thesavant42/ghfinder/internal/ui"
)

// Global flags, applied over the config file and environment
var (
	configPath  string
	apiURLFlag  string
	dbPathFlag  string
	themeFlag   string
	timeoutFlag time.Duration
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	Client  *api.Client
	History *db.DB // nil when history is disabled
	Logger  *log.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.History != nil {
		c.History.Close()
	}
}

// Theme returns the configured start-up theme
func (c *cmdContext) Theme() ui.Theme {
	return ui.ThemeFor(c.Config.Dark())
}

// historyStore returns the history as a ui.HistoryStore, keeping a nil
// database out of the interface
func (c *cmdContext) historyStore() ui.HistoryStore {
	if c.History == nil {
		return nil
	}
	return c.History
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = apiURLFlag
	}
	if flags.Changed("db") {
		cfg.DBPath = dbPathFlag
	}
	if flags.Changed("theme") {
		cfg.Theme = themeFlag
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration{Duration: timeoutFlag}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initContext loads config and opens the API client and, when enabled, the history database
func initContext(cmd *cobra.Command) (*cmdContext, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	// Log to a file only; the terminal belongs to the TUI. No log file, no logging.
	logger, err := api.NewFileLogger(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; logging disabled\n", err)
	}

	c := &cmdContext{
		Config: cfg,
		Client: api.NewClient(cfg.APIURL, cfg.Timeout.Duration, logger),
		Logger: logger,
	}

	if cfg.HistoryEnabled() {
		database, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		c.History = database
	}

	if logger != nil {
		logger.Debug("Client ready", "api", c.Client.BaseURL(), "history", cfg.DBPath, "timeout", cfg.Timeout.Duration)
	}

	return c, nil
}

var rootCmd = &cobra.Command{
	Use:   "ghfinder [username]",
	Short: "GitHub Finder",
	Long: `ghfinder looks up a GitHub user and shows their profile card
and their top repositories by stars.

Without a subcommand it starts the interactive finder. A username
argument is searched as soon as the finder opens.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFinder,
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	pf.StringVar(&apiURLFlag, "api-url", config.DefaultAPIURL, "GitHub API base URL")
	pf.StringVar(&dbPathFlag, "db", config.DefaultDBPath, "Search history database (empty disables history)")
	pf.StringVar(&themeFlag, "theme", config.DefaultTheme, "Start-up theme: light or dark")
	pf.DurationVar(&timeoutFlag, "timeout", config.DefaultTimeout, "HTTP timeout per request")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func runFinder(cmd *cobra.Command, args []string) error {
	c, err := initContext(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	opts := ui.FinderOptions{
		Searcher: c.Client,
		History:  c.historyStore(),
		Logger:   c.Logger,
		Dark:     c.Config.Dark(),
		TopN:     c.Config.TopN,
	}
	if len(args) > 0 {
		opts.Username = args[0]
	}

	return ui.RunFinder(opts)
}
