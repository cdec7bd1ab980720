package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/suggest"
	"github.com/fentz26/taskpulse/internal/tui"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [task-id]",
	Short: "Pick suggestions for a task interactively",
	Long: `Opens an interactive picker with category, due date and priority suggestions for a task.
Accepted suggestions are written to the task. With --title, prints suggestions for a task
that does not exist yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

var suggestTipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show productivity tips",
	RunE:  runSuggestTips,
}

var (
	suggestTitle string
	suggestDesc  string
	suggestPlain bool
)

func init() {
	suggestCmd.AddCommand(suggestTipsCmd)
	suggestCmd.Flags().StringVar(&suggestTitle, "title", "", "Title of a task being drafted")
	suggestCmd.Flags().StringVar(&suggestDesc, "desc", "", "Description of a task being drafted")
	suggestCmd.Flags().BoolVar(&suggestPlain, "plain", false, "Print suggestions instead of opening the picker")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if err := ensureDaemon(); err != nil {
		return err
	}
	client := tui.NewClient(apiAddr)
	ctx := context.Background()

	if len(args) == 0 {
		if suggestTitle == "" {
			return fmt.Errorf("a task id or --title is required")
		}
		out, err := client.Suggest(ctx, suggest.Request{Title: suggestTitle, Description: suggestDesc})
		if err != nil {
			return err
		}
		printSuggestions(out)
		return nil
	}

	task, err := client.GetTask(ctx, args[0])
	if err != nil {
		return err
	}

	if suggestPlain {
		out, err := client.Suggest(ctx, suggest.Request{
			Title:       task.Title,
			Description: task.DescriptionText(),
			Category:    task.Category,
			DueDate:     task.DueDate,
		})
		if err != nil {
			return err
		}
		printSuggestions(out)
		return nil
	}

	updated, err := tui.NewPicker(client, *task).Run()
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}
	fmt.Printf("Task %s: category=%s priority=%s due=%s\n",
		updated.ID, stringOr(updated.Category, "-"), priorityText(updated.Priority), dueText(updated.DueDate))
	return nil
}

func runSuggestTips(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/suggestions/tips")
	if err != nil {
		return err
	}
	var tips []models.AISuggestion
	if err := json.Unmarshal(resp, &tips); err != nil {
		return err
	}
	if len(tips) == 0 {
		fmt.Println("No tips right now")
		return nil
	}
	printSuggestions(tips)
	return nil
}

func printSuggestions(list []models.AISuggestion) {
	if len(list) == 0 {
		fmt.Println("No suggestions")
		return
	}
	for _, s := range list {
		value := ""
		if s.Action != nil {
			value = " -> " + s.Action.Value
		}
		fmt.Printf("%3.0f%%  %-16s %s%s [%s]\n", s.Confidence*100, s.Type, s.Title, value, s.Source)
		if s.Description != "" {
			fmt.Printf("       %s\n", s.Description)
		}
	}
}

// ensureDaemon starts a background daemon when the API is unreachable.
func ensureDaemon() error {
	if isDaemonRunning() {
		return nil
	}
	fmt.Println("taskpulse daemon not running. Starting background service...")
	if err := startDaemon(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	return nil
}

func isDaemonRunning() bool {
	health, err := CheckHealth()
	return err == nil && health.OK
}

func startDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	args := []string{"daemon"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	cmd := exec.Command(exe, args...)
	// Detach process so it survives the picker exiting
	configureDaemonProc(cmd)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	fmt.Print("   Waiting for daemon...")
	for i := 0; i < 20; i++ {
		if isDaemonRunning() {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("daemon started but API not reachable at %s", apiAddr)
}
