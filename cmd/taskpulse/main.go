package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskpulse/internal/controlplane"
)

var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "taskpulse - task analytics and suggestions",
	Long: `taskpulse keeps your tasks in a local SQLite database, computes productivity analytics,
tracks goals and suggests categories, due dates and priorities while you edit a task.`,
	SilenceUsage: true,
	// No RunE - defaults to showing help when no subcommand is provided
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of taskpulse",
	Run:   runVersion,
}

var (
	apiAddr    string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:7480", "API server address")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.taskpulse/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("taskpulse version %s\n", controlplane.Version)
	fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
