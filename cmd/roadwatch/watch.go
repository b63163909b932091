package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/townpass/roadwatch/client"
)

func newWatchCmd() *cobra.Command {
	var externalID string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream construction alerts for a user's favorites until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return c.SubscribeNotifications(ctx, externalID, func(n client.Notification) {
				switch n.Type {
				case "construction_alert":
					for _, a := range n.Alerts {
						_, _ = fmt.Fprintf(out, "[%s] %s (%s): %s within %dm\n",
							orDash(n.Timestamp), a.FavoriteName, a.FavoriteType, a.ConstructionName, a.DistanceMeters)
					}
				case "pong":
					log.Debug().Msg("heartbeat acknowledged")
				default:
					log.Info().Str("type", n.Type).Str("message", n.Message).Msg("notification")
				}
			})
		},
	}
	cmd.Flags().StringVar(&externalID, "external-id", "", "External user ID (required)")
	_ = cmd.MarkFlagRequired("external-id")
	return cmd
}
