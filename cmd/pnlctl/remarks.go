package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pnlboard/internal/amqp"
	"pnlboard/internal/core"
	"pnlboard/internal/remarks"
)

func newRemarksCmd(c *ctl) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remarks",
		Short: "List and edit cell remarks",
		Long: `List and edit the remarks shown as tooltips on statement cells.

A remark is addressed by its row label and column label. Month columns may
be given as "Jul-25" or as a date such as "2025-07-01".

Examples:
  pnlctl remarks list
  pnlctl remarks set "NET PROFIT" Jul-25 "one-off repairs"
  pnlctl remarks delete "NET PROFIT" Jul-25`,
	}
	cmd.AddCommand(
		newRemarksListCmd(c),
		newRemarksSetCmd(c),
		newRemarksDeleteCmd(c),
		newRemarksClearCmd(c),
		newRemarksWatchCmd(c),
	)
	return cmd
}

func newRemarksListCmd(c *ctl) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every remark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := c.app.Remarks.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"remarks": lookup.Strings()})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROW\tCOLUMN\tREMARK")
			for _, k := range sortedKeys(lookup) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Row, k.Column, lookup[k])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print {\"remarks\": {\"ROW|Mon-YY\": text}} JSON")
	return cmd
}

// sortedKeys orders remarks by row label, then column label.
func sortedKeys(l remarks.Lookup) []core.CellKey {
	keys := make([]core.CellKey, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Column < keys[j].Column
	})
	return keys
}

func newRemarksSetCmd(c *ctl) *cobra.Command {
	return &cobra.Command{
		Use:   "set ROW COLUMN TEXT",
		Short: "Create or replace the remark on a cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := c.app.Remarks.Save(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", key)
			return nil
		},
	}
}

func newRemarksDeleteCmd(c *ctl) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ROW COLUMN",
		Short: "Remove the remark on a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := c.app.Remarks.Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", key)
			return nil
		},
	}
}

func newRemarksClearCmd(c *ctl) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every remark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear all remarks without --yes")
			}
			if err := c.app.Remarks.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all remarks")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm removing every remark")
	return cmd
}

func newRemarksWatchCmd(c *ctl) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print remark events from the message broker",
		Long: `Consume remark events published by the dashboard and print one JSON
object per line. Needs AMQP_URL. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.app.Events == nil {
				return errors.New("remark events need AMQP_URL to be set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			err := c.app.Events.ConsumeRemarkEvents(ctx, func(e *amqp.RemarkEvent) error {
				return enc.Encode(e)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
