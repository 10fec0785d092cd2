package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/srg/avatarlink/internal/face"
	"github.com/srg/avatarlink/internal/link"
)

// expressionsCmd lists the expression codes a central may write
var expressionsCmd = &cobra.Command{
	Use:   "expressions",
	Short: "List expression codes",
	Long: fmt.Sprintf(`List the expression codes accepted by the expression characteristic.

A central selects the displayed face by writing one byte to
characteristic %s of service %s.`, link.ExpressionCharUUID, link.ServiceUUID),
	Args: cobra.NoArgs,
	RunE: runExpressions,
}

var expressionsFormat string

func init() {
	expressionsCmd.Flags().StringVarP(&expressionsFormat, "format", "f", "table", "Output format (table, json)")
}

type expressionEntry struct {
	Code uint8  `json:"code"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

func runExpressions(cmd *cobra.Command, _ []string) error {
	var entries []expressionEntry
	for _, e := range face.Expressions() {
		entries = append(entries, expressionEntry{Code: byte(e), Hex: fmt.Sprintf("0x%02X", byte(e)), Name: e.String()})
	}

	switch expressionsFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tHEX\tNAME")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.Code, e.Hex, e.Name)
		}
		return w.Flush()
	default:
		return fmt.Errorf("invalid format '%s': must be one of [table json]", expressionsFormat)
	}
}
