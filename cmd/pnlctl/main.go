// Command pnlctl works with the P&L statement from the command line: export
// the styled workbook, render the HTML table and manage remarks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
