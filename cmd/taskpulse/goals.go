package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/tui"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show goal progress",
	RunE:  runGoalsShow,
}

var goalsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute and save goal progress",
	RunE:  runGoalsRefresh,
}

var goalsSetCmd = &cobra.Command{
	Use:   "set [goals.json]",
	Short: "Replace the goal list from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsSet,
}

func init() {
	goalsCmd.AddCommand(goalsRefreshCmd, goalsSetCmd)
}

func printGoals(resp []byte) error {
	var list []models.Goal
	if err := json.Unmarshal(resp, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No goals defined")
		return nil
	}
	fmt.Println(tui.RenderGoals(list))
	return nil
}

func runGoalsShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/goals")
	if err != nil {
		return err
	}
	return printGoals(resp)
}

func runGoalsRefresh(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/goals/refresh", nil)
	if err != nil {
		return err
	}
	return printGoals(resp)
}

func runGoalsSet(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read goals file: %w", err)
	}

	var list []models.Goal
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("parse goals file: %w", err)
	}

	resp, err := apiPut("/goals", list)
	if err != nil {
		return err
	}
	return printGoals(resp)
}
