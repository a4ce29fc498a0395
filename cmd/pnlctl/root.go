package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"pnlboard/internal/cli"
	"pnlboard/internal/config"
)

// ctl carries the flags and the application shared by all subcommands.
type ctl struct {
	workbook       string
	sheet          string
	source         string
	remarksBackend string
	dbPath         string
	logLevel       string

	app *cli.App
}

func newRootCmd() *cobra.Command {
	c := &ctl{}

	root := &cobra.Command{
		Use:   "pnlctl",
		Short: "Work with the P&L statement from the command line",
		Long: `pnlctl reads the P&L statement sheet with the same settings as the
dashboard (environment variables and .env), and can export the styled
workbook, render the HTML table, and list or edit remarks.

Flags override the matching environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.workbook, "workbook", "", "Path of the .xlsx workbook (WORKBOOK_PATH)")
	f.StringVar(&c.sheet, "sheet", "", "Statement sheet name (SHEET_NAME)")
	f.StringVar(&c.source, "source", "", "Statement source: excel or sheets (SOURCE_BACKEND)")
	f.StringVar(&c.remarksBackend, "remarks-backend", "", "Remark store: sqlite or memory (REMARKS_BACKEND)")
	f.StringVar(&c.dbPath, "db", "", "SQLite remark database (SQLITE_DB_PATH)")
	f.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")

	root.AddCommand(
		newExportCmd(c),
		newRenderCmd(c),
		newRemarksCmd(c),
		newImportNotesCmd(c),
		newGoogleAuthCmd(),
	)
	return root
}

func (c *ctl) open(cmd *cobra.Command) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadToolConfig(func(cfg *config.Config) {
		set := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}
		set(&cfg.WorkbookPath, c.workbook)
		set(&cfg.SheetName, c.sheet)
		set(&cfg.SourceBackend, c.source)
		set(&cfg.RemarksBackend, c.remarksBackend)
		set(&cfg.SQLiteDBPath, c.dbPath)
		set(&cfg.LogLevel, c.logLevel)
	})
	if err != nil {
		return err
	}

	// Logs go to stderr so command output can be piped.
	logger, err := cli.SetupLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *ctl) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
