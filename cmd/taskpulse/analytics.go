package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskpulse/internal/analytics"
	"github.com/fentz26/taskpulse/internal/controlplane"
	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task analytics",
	RunE:  runStats,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show productivity insights",
	RunE:  runInsights,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analytics as JSON",
	RunE:  runExport,
}

var (
	statsJSON  bool
	exportPath string
)

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the raw analytics JSON")
	insightsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the raw insights JSON")
	exportCmd.Flags().StringVarP(&exportPath, "out", "o", "", "Output file (default taskpulse-analytics-<date>.json, - for stdout)")
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/analytics")
	if err != nil {
		return err
	}
	if statsJSON {
		fmt.Println(string(resp))
		return nil
	}

	var data models.AnalyticsData
	if err := json.Unmarshal(resp, &data); err != nil {
		return err
	}
	fmt.Println(tui.RenderStats(data))
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/analytics/insights")
	if err != nil {
		return err
	}
	if statsJSON {
		fmt.Println(string(resp))
		return nil
	}

	var insights controlplane.InsightsResponse
	if err := json.Unmarshal(resp, &insights); err != nil {
		return err
	}
	fmt.Println(tui.RenderInsights(insights))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/analytics/export")
	if err != nil {
		return err
	}

	if exportPath == "-" {
		_, err := os.Stdout.Write(resp)
		return err
	}

	path := exportPath
	if path == "" {
		path = analytics.ExportFilename(time.Now())
	}
	if err := os.WriteFile(path, resp, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported analytics to %s\n", path)
	return nil
}
