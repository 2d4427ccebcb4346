package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"feasibility_analysis/internal/climate"

	"github.com/spf13/cobra"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the climate zone catalogue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatZones(cmd.OutOrStdout(), cfg.Climate.Dir)
	},
}

func init() {
	rootCmd.AddCommand(zonesCmd)
}

// formatZones writes every zone with the file each period resolves to.
func formatZones(out io.Writer, dir string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ZONE\tCITY\tCLIMATE\tPERIOD\tFILE")
	for _, z := range climate.Zones() {
		for _, p := range climate.Periods() {
			path, err := climate.Resolve(dir, z.Key, p.Key)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t%s\n", z.Key, z.City, z.Description, p.Key, p.Years, path)
		}
	}
	return w.Flush()
}
