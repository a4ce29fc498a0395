package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pnlboard/internal/remarks"
	"pnlboard/internal/render"
	htmlrender "pnlboard/internal/render/html"
	"pnlboard/internal/services"
)

func newExportCmd(c *ctl) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the styled statement workbook",
		Long: `Write the statement, with row styles and remarks as cell comments, to an
.xlsx file. The default file name follows the latest month column, e.g.
P&L_Jul-25.xlsx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.app.Statements.Load(ctx)
			if err != nil {
				return fmt.Errorf("load statement: %w", err)
			}
			lookup, err := c.app.Remarks.Load(ctx)
			if err != nil {
				return fmt.Errorf("load remarks: %w", err)
			}

			buf, name, err := services.Export(st, lookup)
			if err != nil {
				return err
			}
			if output == "" {
				output = name
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows, %d remarks)\n", output, len(st.Table.Rows), len(lookup))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: named after the latest month)")
	return cmd
}

func newRenderCmd(c *ctl) *cobra.Command {
	var (
		output  string
		noNotes bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the statement as an HTML table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.app.Statements.Load(ctx)
			if err != nil {
				return fmt.Errorf("load statement: %w", err)
			}
			lookup := remarks.Lookup{}
			if !noNotes {
				if lookup, err = c.app.Remarks.Load(ctx); err != nil {
					return fmt.Errorf("load remarks: %w", err)
				}
			}

			table, err := htmlrender.Render(render.NewView(st.Table, lookup))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			_, err = io.WriteString(w, string(table)+"\n")
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&noNotes, "no-remarks", false, "Render without remark tooltips")
	return cmd
}

func newImportNotesCmd(c *ctl) *cobra.Command {
	return &cobra.Command{
		Use:   "import-notes",
		Short: "Copy the sheet's cell comments into the remark store",
		Long: `Copy every cell comment of the statement sheet into the remark store.
Cells that already have a remark keep it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.ImportNotes(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes\n", n)
			return nil
		},
	}
}
