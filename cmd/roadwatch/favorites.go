package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/townpass/roadwatch/client"
)

func newFavoritesCmd() *cobra.Command {
	var externalID string

	cmd := &cobra.Command{Use: "favorites", Short: "Manage a user's favorite places, roads and routes"}
	cmd.PersistentFlags().StringVar(&externalID, "external-id", "", "External user ID (required)")
	_ = cmd.MarkPersistentFlagRequired("external-id")

	cmd.AddCommand(newFavoritesListCmd(&externalID))
	cmd.AddCommand(newFavoritesCreateCmd(&externalID))
	cmd.AddCommand(newFavoritesUpdateCmd(&externalID))
	cmd.AddCommand(newFavoritesDeleteCmd(&externalID))
	cmd.AddCommand(newFavoritesImportCmd(&externalID))
	return cmd
}

func newFavoritesListCmd(externalID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			favs, err := c.GetFavorites(cmd.Context(), *externalID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(favs))
			for _, f := range favs {
				rows = append(rows, []string{
					strconv.Itoa(f.ID),
					f.Name,
					orDash(f.Type),
					favoriteWhere(f),
					strconv.FormatBool(f.NotificationEnabled),
					fmtFloat(f.DistanceThreshold),
				})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Type", "Where", "Notify", "Threshold (m)"}, rows)
		},
	}
}

// favoriteWhere summarises a favorite's location for table output.
func favoriteWhere(f client.Favorite) string {
	switch {
	case f.Lat != nil && f.Lon != nil:
		return fmtFloat(f.Lat) + "," + fmtFloat(f.Lon)
	case len(f.RoadOSMIDs) > 0:
		return fmt.Sprintf("%d road segments", len(f.RoadOSMIDs))
	case f.RouteStartCoords != nil && f.RouteEndCoords != nil:
		return fmt.Sprintf("%g,%g -> %g,%g", f.RouteStartCoords.Lat, f.RouteStartCoords.Lon, f.RouteEndCoords.Lat, f.RouteEndCoords.Lon)
	default:
		return "-"
	}
}

func newFavoritesCreateCmd(externalID *string) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a favorite from a JSON object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseFavoriteData(data)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			fav, err := c.CreateFavorite(cmd.Context(), payload, *externalID)
			if err != nil {
				log.Error().Err(err).Str("external_id", *externalID).Msg("create favorite failed")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Favorite created: %d (%s)\n", fav.ID, fav.Name)
			return err
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `Favorite JSON, e.g. '{"name":"home","type":"place","lat":25.04,"lon":121.56}'`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newFavoritesUpdateCmd(externalID *string) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a favorite with the fields of a JSON object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFavoriteID(args[0])
			if err != nil {
				return err
			}
			payload, err := parseFavoriteData(data)
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			fav, err := c.UpdateFavorite(cmd.Context(), id, *externalID, payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Favorite updated: %d (%s)\n", fav.ID, fav.Name)
			return err
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "Fields to update as a JSON object")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newFavoritesDeleteCmd(externalID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseFavoriteID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			raw, err := c.DeleteFavorite(cmd.Context(), id, *externalID)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Favorite deleted: %d\n", id)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
}

func newFavoritesImportCmd(externalID *string) *cobra.Command {
	var (
		file  string
		perS  float64
		burst int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create favorites in bulk from a JSON array, rate limited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if perS <= 0 || burst <= 0 {
				return fmt.Errorf("--rate and --burst must be > 0")
			}
			items, err := readFavoriteFile(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			var (
				mu       sync.Mutex
				failures []error
			)
			c, err := newClient(client.WithAsyncErrorHandler(func(_ string, err error) {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}))
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx := cmd.Context()
			limiter := rate.NewLimiter(rate.Limit(perS), burst)
			start := time.Now()
			for i, item := range items {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				ack, err := c.EnqueueFavorite(ctx, item, *externalID)
				if err != nil {
					return fmt.Errorf("favorite %d: %w", i, err)
				}
				log.Debug().Str("job_id", ack.JobID).Int("index", i).Msg("favorite enqueued")
			}
			if err := c.AwaitConsistency(ctx, *externalID); err != nil {
				return err
			}

			mu.Lock()
			failed := len(failures)
			mu.Unlock()
			log.Info().Int("total", len(items)).Int("failed", failed).Dur("elapsed", time.Since(start)).Msg("favorites import finished")
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d favorites\n", len(items)-failed, len(items)); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d favorites failed, first error: %w", failed, failures[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON array of favorites; - reads stdin")
	cmd.Flags().Float64Var(&perS, "rate", 5, "Maximum favorites created per second")
	cmd.Flags().IntVar(&burst, "burst", 1, "Rate limiter burst size")
	return cmd
}

func parseFavoriteID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid favorite id %q", s)
	}
	return id, nil
}

func parseFavoriteData(s string) (client.FavoriteData, error) {
	var data client.FavoriteData
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("--data must be a JSON object")
	}
	return data, nil
}

func readFavoriteFile(stdin io.Reader, path string) ([]client.FavoriteData, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var items []client.FavoriteData
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return items, nil
}
