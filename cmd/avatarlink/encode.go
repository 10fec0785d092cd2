package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/srg/avatarlink/internal/link"
)

// encodeCmd prints the notification payload for a distance
var encodeCmd = &cobra.Command{
	Use:   "encode <mm>",
	Short: "Show the distance payload for a reading",
	Long: `Print the distance characteristic payload for a reading in millimeters:
two bytes, little-endian.`,
	Example: `  avatarlink encode 450    # C2 01`,
	Args:    cobra.ExactArgs(1),
	RunE:    runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	mm, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("%w %q: must be 0..65535 millimeters", ErrInvalidDistance, args[0])
	}

	payload := link.EncodeDistance(uint16(mm))
	fmt.Fprintf(cmd.OutOrStdout(), "% X\n", payload)
	return nil
}
