package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskpulse/internal/models"
	"github.com/fentz26/taskpulse/internal/store"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit task fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskToggleCmd = &cobra.Command{
	Use:     "toggle [task-id]",
	Aliases: []string{"done"},
	Short:   "Toggle task completion",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskToggle,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var (
	taskTitle    string
	taskDesc     string
	taskDue      string
	taskPriority string
	taskCategory string
	taskTags     string
	taskStatus   string
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskEditCmd, taskToggleCmd, taskDeleteCmd)

	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "Task title")
		c.Flags().StringVar(&taskDesc, "desc", "", "Task description")
		c.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
		c.Flags().StringVar(&taskPriority, "priority", "", "Priority (low, medium, high)")
		c.Flags().StringVar(&taskCategory, "category", "", "Category")
		c.Flags().StringVar(&taskTags, "tags", "", "Comma separated tags")
	}
	taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "Filter by status (pending, completed, overdue)")
}

// applyTaskFlags copies the flags the user actually set onto in.
func applyTaskFlags(cmd *cobra.Command, in *store.TaskInput) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = taskTitle
	}
	if flags.Changed("desc") {
		in.Description = optional(taskDesc)
	}
	if flags.Changed("due") {
		if taskDue == "" {
			in.DueDate = nil
		} else {
			day, err := time.ParseInLocation("2006-01-02", taskDue, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --due %q: expected YYYY-MM-DD", taskDue)
			}
			due := day.AddDate(0, 0, 1).Add(-time.Second)
			in.DueDate = &due
		}
	}
	if flags.Changed("priority") {
		if taskPriority == "" {
			in.Priority = nil
		} else {
			p := models.Priority(taskPriority)
			in.Priority = &p
		}
	}
	if flags.Changed("category") {
		in.Category = optional(taskCategory)
	}
	if flags.Changed("tags") {
		in.Tags = nil
		for _, tag := range strings.Split(taskTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				in.Tags = append(in.Tags, tag)
			}
		}
	}
	return nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	var in store.TaskInput
	if err := applyTaskFlags(cmd, &in); err != nil {
		return err
	}

	resp, err := apiPost("/tasks", in)
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return err
	}

	fmt.Printf("Created task: %s\n", task.ID)
	return nil
}

func fetchTask(id string) (*models.Task, error) {
	resp, err := apiGet("/tasks/" + id)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	task, err := fetchTask(args[0])
	if err != nil {
		return err
	}

	in := store.TaskInput{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Category:    task.Category,
		Tags:        task.Tags,
	}
	if err := applyTaskFlags(cmd, &in); err != nil {
		return err
	}

	if _, err := apiPut("/tasks/"+task.ID, in); err != nil {
		return err
	}
	fmt.Printf("Updated task %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/tasks")
	if err != nil {
		return err
	}

	var tasks []models.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return err
	}

	now := time.Now()
	var shown []models.Task
	for _, t := range tasks {
		if taskStatus == "" || taskStatusLabel(t, now) == taskStatus {
			shown = append(shown, t)
		}
	}

	if len(shown) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tCATEGORY\tDUE")
	for _, t := range shown {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Title, 40), taskStatusLabel(t, now),
			priorityText(t.Priority), stringOr(t.Category, "-"), dueText(t.DueDate))
	}
	w.Flush()
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, err := fetchTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:          %s\n", task.ID)
	fmt.Printf("Title:       %s\n", task.Title)
	fmt.Printf("Description: %s\n", task.DescriptionText())
	fmt.Printf("Status:      %s\n", taskStatusLabel(*task, time.Now()))
	fmt.Printf("Priority:    %s\n", priorityText(task.Priority))
	fmt.Printf("Category:    %s\n", stringOr(task.Category, "-"))
	fmt.Printf("Due:         %s\n", dueText(task.DueDate))
	if len(task.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(task.Tags, ", "))
	}
	fmt.Printf("Created:     %s\n", task.CreatedAt.Local().Format(time.RFC3339))

	return nil
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/tasks/"+args[0]+"/toggle", nil)
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return err
	}

	if task.Completed {
		fmt.Printf("Completed task %s\n", task.ID)
	} else {
		fmt.Printf("Reopened task %s\n", task.ID)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	if err := apiDelete("/tasks/" + args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", args[0])
	return nil
}

// --- Helpers ---

func taskStatusLabel(t models.Task, now time.Time) string {
	switch {
	case t.Completed:
		return "completed"
	case t.IsOverdue(now):
		return "overdue"
	default:
		return "pending"
	}
}

func priorityText(p *models.Priority) string {
	if p == nil {
		return "-"
	}
	return string(*p)
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func dueText(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
