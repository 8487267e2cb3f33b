package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"colorpredict/internal/config"
	"colorpredict/internal/events"
	"colorpredict/internal/logger"
)

func newWatchCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print game events published on NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if subject == "" {
				subject = cfg.NATS.SubjectPrefix + ".>"
			}

			nc, err := events.Connect(cfg.NATS.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}
			defer nc.Close()

			out := cmd.OutOrStdout()
			if _, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				fmt.Fprintf(out, "%s %s\n", msg.Subject, msg.Data)
			}); err != nil {
				return err
			}
			logger.Infof("[NATS] Subscribed to %s", subject)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "subject to subscribe to (defaults to <prefix>.>)")
	return cmd
}
