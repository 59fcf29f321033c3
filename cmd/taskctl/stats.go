package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics rollups",
	}
	cmd.AddCommand(businessStatsCmd())
	return cmd
}

func businessStatsCmd() *cobra.Command {
	var (
		output      string
		renderChart bool
	)

	cmd := &cobra.Command{
		Use:   "business",
		Short: "Monthly completed story points across all projects (last year)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := connect()
			if err != nil {
				return err
			}

			chartClient := chart.NewClient(
				chart.WithBaseURL(cfg.ChartServiceURL),
				chart.WithTimeout(cfg.ChartTimeout),
				chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
			)
			statisticsService := services.NewStatisticsService(
				repository.NewTaskRepository(db),
				repository.NewProjectRepository(db),
				chartClient,
			)

			// The CLI runs with operator privileges.
			operator := policy.Caller{Role: models.RoleAdmin}
			rollup, err := statisticsService.BusinessMonthlyStoryPoints(cmd.Context(), operator)
			if err != nil {
				return err
			}

			if renderChart {
				url, err := statisticsService.RenderChart(cmd.Context(), rollup, "")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}

			return writeRollup(cmd.OutOrStdout(), rollup, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, json)")
	cmd.Flags().BoolVar(&renderChart, "chart", false, "render a chart and print its URL instead")

	return cmd
}

func writeRollup(w io.Writer, rollup services.Rollup, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rollup)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rollupDocument(rollup))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

type yamlPoint struct {
	Label string `yaml:"label"`
	Value int64  `yaml:"value"`
}

type yamlRollup struct {
	Title  string      `yaml:"title"`
	Kind   string      `yaml:"kind"`
	Series []yamlPoint `yaml:"series"`
}

func rollupDocument(rollup services.Rollup) yamlRollup {
	doc := yamlRollup{
		Title:  rollup.Title,
		Kind:   string(rollup.Kind),
		Series: make([]yamlPoint, len(rollup.Series)),
	}
	for i, p := range rollup.Series {
		doc.Series[i] = yamlPoint{Label: p.Label, Value: p.Value}
	}
	return doc
}
