package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"feasibility_analysis/internal/climate"
	"feasibility_analysis/internal/config"
	"feasibility_analysis/internal/logger"
	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/psychro"
	"feasibility_analysis/internal/service"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Output formats of the analyze command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type analyzeOptions struct {
	File      string
	Climates  []string
	Period    string
	NoHum     bool
	Threshold float64 // 0 keeps the configured threshold
	Format    string
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a climate dataset and recommend a component set",
	Long: `Loads one dataset per climate zone (or a single file), runs the mode
classification and prints the hours per mode with the recommendation.

Examples:
  feasibility analyze --climate 2A
  feasibility analyze --climate 0A,0B,4C --period future --format yaml
  feasibility analyze --file Meteo/site.xlsx --no-hum --threshold 0.9`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAnalyze(cmd.Context(), cmd.OutOrStdout(), analyzeOpts, cfg.Analysis, cfg.Climate.Dir, appLog)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.File, "file", "", "CSV or XLSX climate file")
	f.StringSliceVar(&analyzeOpts.Climates, "climate", nil, "climate zone keys, comma separated (see 'zones')")
	f.StringVar(&analyzeOpts.Period, "period", climate.DefaultPeriod, "climate period: present or future")
	f.BoolVar(&analyzeOpts.NoHum, "no-hum", false, "disable humidification")
	f.Float64Var(&analyzeOpts.Threshold, "threshold", 0, "comfort threshold in (0, 1] (default from config)")
	f.StringVar(&analyzeOpts.Format, "format", formatTable, "output format: table, json or yaml")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeRequests builds one request per climate zone, or one for the file.
func analyzeRequests(opts analyzeOptions) ([]models.AnalysisRequest, error) {
	var sources []models.ClimateSource
	if opts.File != "" {
		sources = append(sources, models.ClimateSource{File: opts.File})
	}
	for _, z := range opts.Climates {
		if z = strings.TrimSpace(z); z != "" {
			sources = append(sources, models.ClimateSource{Zone: z, Period: opts.Period})
		}
	}
	if len(sources) == 0 {
		return nil, eris.New("analyze: give --file or --climate")
	}

	reqs := make([]models.AnalysisRequest, 0, len(sources))
	for _, src := range sources {
		req := models.AnalysisRequest{Climate: src}
		if opts.NoHum {
			off := false
			req.Humidification = &off
		}
		if opts.Threshold != 0 {
			t := opts.Threshold
			req.ComfortThreshold = &t
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func runAnalyze(ctx context.Context, out io.Writer, opts analyzeOptions, defaults config.AnalysisConfig, climateDir string, log *logger.Logger) error {
	switch opts.Format {
	case formatTable, formatJSON, formatYAML:
	default:
		return eris.Errorf("analyze: unknown format %q", opts.Format)
	}
	reqs, err := analyzeRequests(opts)
	if err != nil {
		return err
	}

	oracle := psychro.New()
	svc := service.NewAnalysisService(nil, nil, climate.NewLoader(climateDir, oracle), defaults, oracle, nil, log)

	// Each dataset is an independent classification.
	reports := make([]*models.Report, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			r, err := svc.Evaluate(gctx, req)
			if err != nil {
				return eris.Wrapf(err, "analyze %s", sourceName(req.Climate))
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return writeReports(out, opts.Format, reports)
}

func sourceName(src models.ClimateSource) string {
	if src.File != "" {
		return src.File
	}
	return src.Zone + " (" + src.Period + ")"
}

func writeReports(out io.Writer, format string, reports []*models.Report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}
	for i, r := range reports {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		formatReport(out, r)
	}
	return nil
}

// formatReport writes the hours per mode of one report as a table.
func formatReport(out io.Writer, r *models.Report) {
	_, _ = fmt.Fprintf(out, "%s: %d hours, humidification %t\n", r.Location, r.Hours, r.Humidification)
	for _, n := range r.Notes {
		_, _ = fmt.Fprintf(out, "  note: %s\n", n)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODE\tHOURS\tSHARE\tEQUIPMENT")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t---------")
	for _, z := range r.Zones {
		equipment := strings.Join(z.Equipment, "+")
		if equipment == "" {
			equipment = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%s\n", z.Mode, z.Hours, z.Share*100, equipment)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "Recommendation (threshold %.0f%%): %s\n", r.Recommendation.Threshold*100, r.Recommendation.Message)
}
