package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

// Optional API arguments are only sent when their flag was given on the
// command line, so the helpers below return nil for untouched flags.

func optInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func optFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func optString(cmd *cobra.Command, name string, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func addPageFlags(cmd *cobra.Command, page *moyklass.Page) {
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "number of records to skip")
	cmd.Flags().IntVar(&page.Limit, "limit", moyklass.DefaultLimit, "maximum number of records to return")
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %q", what, arg)
	}
	return id, nil
}
