package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/taskchat/internal/board"
	"github.com/BuzzLyutic/taskchat/internal/config"
	"github.com/BuzzLyutic/taskchat/internal/gateway"
)

// Output formats for `board send`.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func newSendCmd(v *viper.Viper) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the extracted epics or tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case OutputText, OutputJSON, OutputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}

			cfg := config.LoadClient(v)
			logger := newLogger(cfg.Verbose)
			defer logger.Sync()

			message := strings.Join(args, " ")
			b := board.New()
			added, err := b.Send(cmd.Context(), newClient(cfg, logger), message)
			if err != nil {
				logger.Debug("Send failed", zap.Error(err))
				fmt.Fprintln(cmd.ErrOrStderr(), board.FormatError(err))
				return err
			}
			logger.Debug("Send succeeded",
				zap.Int("epics", len(added.Epics)),
				zap.Int("tasks", len(added.Tasks)),
			)
			return writeResult(cmd.OutOrStdout(), output, b, added)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", OutputText, "output format: text, json or yaml")
	return cmd
}

func writeResult(w io.Writer, format string, b *board.Board, added gateway.Result) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(added)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(added)
	default:
		transcript := b.Transcript()
		_, err := fmt.Fprintln(w, transcript[len(transcript)-1].Text)
		return err
	}
}
