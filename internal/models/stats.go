package models

import "time"

// Sentinel labels used when data is missing.
const (
	UncategorizedLabel = "Sin categoría"
	NoDataLabel        = "Sin datos"
)

// TaskStats summarizes completion state over the whole collection.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completionRate"`
}

// CategoryStats holds counts for one category bucket.
type CategoryStats struct {
	Category       string  `json:"category"`
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Percentage     int     `json:"percentage"`
	CompletionRate float64 `json:"completionRate"`
}

// PriorityBucket is the count and share of one priority level.
type PriorityBucket struct {
	Count      int `json:"count"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// PriorityStats breaks the collection down by priority.
type PriorityStats struct {
	High       PriorityBucket `json:"high"`
	Medium     PriorityBucket `json:"medium"`
	Low        PriorityBucket `json:"low"`
	Unassigned PriorityBucket `json:"unassigned"`
}

// ProductivityStats describes completion activity over calendar windows.
type ProductivityStats struct {
	TasksCompletedToday     int     `json:"tasksCompletedToday"`
	TasksCompletedThisWeek  int     `json:"tasksCompletedThisWeek"`
	TasksCompletedThisMonth int     `json:"tasksCompletedThisMonth"`
	AverageCompletionTime   float64 `json:"averageCompletionTime"`
	MostProductiveDay       string  `json:"mostProductiveDay"`
	CurrentStreak           int     `json:"currentStreak"`
}

// Bucket is one labelled count in a distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimeStats are fixed-size creation distributions: 24 hours, last 7 days, last 6 months.
type TimeStats struct {
	Hourly  []Bucket `json:"hourly"`
	Daily   []Bucket `json:"daily"`
	Monthly []Bucket `json:"monthly"`
}

// AnalyticsData is the aggregate handed to the UI and the exporter.
type AnalyticsData struct {
	TaskStats         TaskStats         `json:"taskStats"`
	CategoryStats     []CategoryStats   `json:"categoryStats"`
	PriorityStats     PriorityStats     `json:"priorityStats"`
	ProductivityStats ProductivityStats `json:"productivityStats"`
	TimeStats         TimeStats         `json:"timeStats"`
	LastUpdated       time.Time         `json:"lastUpdated"`
}
