package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grievancechat/cmd/grievance/chat"
	"grievancechat/cmd/grievance/ui"
	"grievancechat/internal/api"
	"grievancechat/internal/config"
	"grievancechat/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "grievance",
	Short: "Grievance portal client",
	Long: `grievance files a grievance with the support backend and then chats
with it about that grievance.

Run without arguments to start the interactive terminal interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive client logs to a file once config is loaded
		if cmd == cmd.Root() {
			return nil
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .grievance/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (or set GRIEVANCE_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (0 uses the configured value)")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.Server.Timeout = timeout.String()
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the backend client for cfg.
func newClient(cfg *config.Config, l *zap.Logger) (*api.Client, error) {
	return api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(cfg.GetTimeout()),
		api.WithLogger(l),
	)
}

// commandContext returns the command's context cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// runInteractive launches the terminal interface.
func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	logger = logging.Root()

	client, err := newClient(cfg, logging.Get(logging.CategoryAPI))
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	logging.Get(logging.CategoryBoot).Info("starting interactive client",
		zap.String("base_url", client.BaseURL()))

	return chat.Run(ctx, chat.Config{
		Backend:     client,
		Styles:      &styles,
		Logger:      logging.Get(logging.CategoryUI),
		RelayLogger: logging.Get(logging.CategoryRelay),
		BaseURL:     client.BaseURL(),
	})
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
