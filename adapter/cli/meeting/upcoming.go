package meeting

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	meetingQueries "github.com/felixgeelhaar/rendezvous/internal/meetings/application/queries"
)

var (
	upcomingDays  int
	upcomingQuery string
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		events, err := app.ListUpcomingHandler.Handle(cmd.Context(), meetingQueries.ListUpcomingQuery{
			Days:  upcomingDays,
			Query: upcomingQuery,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, events)
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No upcoming meetings.")
			return nil
		}
		for _, e := range events {
			fmt.Fprintf(out, "%s  %s  %s\n", e.Start, e.ID, e.Summary)
			if e.HTMLLink != "" {
				fmt.Fprintf(out, "    %s\n", e.HTMLLink)
			}
		}
		return nil
	},
}

func init() {
	upcomingCmd.Flags().IntVar(&upcomingDays, "days", meetingQueries.DefaultUpcomingDays, "how many days ahead to look")
	upcomingCmd.Flags().StringVarP(&upcomingQuery, "query", "q", "", "only events matching this text")
}
