package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/townpass/roadwatch/client"
)

func newHelloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			resp, err := c.Hello(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return err
		},
	}
}

func newEchoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "echo MESSAGE",
		Short: "Send a message to the backend and print what it received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			resp, err := c.Echo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

// --------------------------------------------------------------------
// users
// --------------------------------------------------------------------

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "List and create users"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, orDash(u.ExternalID)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "External ID"}, rows)
		},
	})

	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			user, err := c.CreateUser(cmd.Context(), client.CreateUserRequest{Name: name})
			if err != nil {
				log.Error().Err(err).Str("name", name).Msg("create user failed")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "User created: %d (%s)\n", user.ID, user.Name)
			return err
		},
	}
	create.Flags().StringVar(&name, "name", "", "User name (required)")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	return cmd
}

// --------------------------------------------------------------------
// test-records
// --------------------------------------------------------------------

func newTestRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test-records", Short: "List and create test records"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List test records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			records, err := c.ListTestRecords(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{strconv.Itoa(r.ID), r.Title, fmtString(r.Description)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Description"}, rows)
		},
	})

	var title, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a test record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			req := client.CreateTestRecordRequest{Title: title}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			rec, err := c.CreateTestRecord(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Test record created: %d (%s)\n", rec.ID, rec.Title)
			return err
		},
	}
	create.Flags().StringVar(&title, "title", "", "Record title (required)")
	create.Flags().StringVar(&description, "description", "", "Record description")
	_ = create.MarkFlagRequired("title")
	cmd.AddCommand(create)

	return cmd
}

// --------------------------------------------------------------------
// construction
// --------------------------------------------------------------------

func newConstructionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "construction", Short: "Construction sites and notices"}

	cmd.AddCommand(&cobra.Command{
		Use:   "geojson",
		Short: "Print current construction sites as GeoJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			fc, err := c.GetConstructionData(cmd.Context())
			if err != nil {
				return err
			}
			log.Debug().Int("features", len(fc.Features)).Msg("construction data fetched")
			return printJSON(cmd.OutOrStdout(), fc)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Ask the backend to refresh construction data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			res, err := c.UpdateConstructionData(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d features)\n", res.Status, res.Message, res.FeatureCount)
			return err
		},
	})

	var skip, limit int
	notices := &cobra.Command{
		Use:   "notices",
		Short: "List construction notices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			list, err := c.GetConstructionNotices(cmd.Context(), skip, limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, n := range list {
				rows = append(rows, []string{strconv.Itoa(n.ID), n.Name, orDash(n.Road), orDash(n.StartDate), orDash(n.EndDate), orDash(n.Unit)})
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Road", "Start", "End", "Unit"}, rows)
		},
	}
	notices.Flags().IntVar(&skip, "skip", 0, "Number of notices to skip")
	notices.Flags().IntVar(&limit, "limit", 100, "Maximum number of notices")
	cmd.AddCommand(notices)

	return cmd
}

// --------------------------------------------------------------------
// roads
// --------------------------------------------------------------------

func newRoadsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "roads", Short: "Search road segments"}

	var limit int
	suggest := &cobra.Command{
		Use:   "suggest KEYWORD",
		Short: "Autocomplete road names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			items, err := c.SuggestRoadSegments(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, item := range items {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(item)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	suggest.Flags().IntVar(&limit, "limit", 10, "Maximum number of suggestions")
	cmd.AddCommand(suggest)

	cmd.AddCommand(&cobra.Command{
		Use:   "search NAME",
		Short: "List the segments of a named road",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			segs, err := c.FetchRoadSegmentsByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderSegments(cmd.OutOrStdout(), segs)
		},
	})

	return cmd
}

func renderSegments(w io.Writer, segs []client.RoadSegment) error {
	rows := make([][]string, 0, len(segs))
	for _, s := range segs {
		oneway := "-"
		if s.Oneway != nil {
			oneway = strconv.FormatBool(*s.Oneway)
		}
		rows = append(rows, []string{s.OSMID, orDash(s.Name), orDash(s.Highway), oneway, fmtFloat(s.LengthM)})
	}
	return renderTable(w, []string{"OSM ID", "Name", "Highway", "Oneway", "Length (m)"}, rows)
}
