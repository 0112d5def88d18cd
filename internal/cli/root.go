// Package cli wires the board client commands.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/BuzzLyutic/taskchat/internal/board"
	"github.com/BuzzLyutic/taskchat/internal/config"
	"github.com/BuzzLyutic/taskchat/internal/gateway"
	"github.com/BuzzLyutic/taskchat/internal/tui"
)

// DefaultTimeout bounds a single /chat round trip.
const DefaultTimeout = 2 * time.Minute

var ErrNotTerminal = errors.New("interactive board requires a terminal; use `board send` instead")

// NewRootCmd builds the `board` command tree on top of v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "board",
		Short: "Chat-driven task board",
		Long: `board turns chat messages into epics and tasks.

Without a subcommand it opens the interactive board. Messages are sent to
the extraction gateway at --api-url (or CHAT_API_URL).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNotTerminal
			}

			cfg := config.LoadClient(v)
			logger := newLogger(cfg.Verbose)
			defer logger.Sync()

			client := newClient(cfg, logger)
			p := tea.NewProgram(tui.New(cmd.Context(), board.New(), client), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	root.PersistentFlags().String("api-url", config.DefaultChatAPIURL, "extraction gateway base URL")
	root.PersistentFlags().Duration("timeout", DefaultTimeout, "timeout for a single chat request")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = v.BindPFlag("chat_api_url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newSendCmd(v))
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd(config.NewViper()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient(cfg config.ClientConfig, logger *zap.Logger) *gateway.Client {
	logger.Debug("Using gateway", zap.String("url", cfg.ChatAPIURL), zap.Duration("timeout", cfg.Timeout))
	return gateway.NewClient(cfg.ChatAPIURL, &http.Client{Timeout: cfg.Timeout})
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
