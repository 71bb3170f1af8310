package model

import "time"

// Priority marks how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// RecurringRule describes how a recurring task repeats.
type RecurringRule struct {
	Frequency  string `json:"frequency"` // daily, weekly, monthly, yearly
	Interval   int    `json:"interval"`
	EndDate    string `json:"endDate,omitempty"`
	DaysOfWeek []int  `json:"daysOfWeek,omitempty"` // 0=Sunday .. 6=Saturday
}

// Reminder holds the lead times (minutes before start) at which a task
// should fire a notification.
type Reminder struct {
	Enabled       bool  `json:"enabled"`
	BeforeMinutes []int `json:"beforeMinutes"`
}

// Task represents a single scheduled item in the planner.
// CreatedAt/UpdatedAt are epoch milliseconds and are stamped by the store
// layer, never by the database.
type Task struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	CategoryID    string         `gorm:"index:idx_tasks_category" json:"categoryId,omitempty"`
	Priority      Priority       `json:"priority,omitempty"`
	StartTime     time.Time      `gorm:"index:idx_tasks_start_time" json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	IsAllDay      bool           `json:"isAllDay"`
	IsCompleted   bool           `json:"isCompleted"`
	IsRecurring   bool           `json:"isRecurring"`
	RecurringRule *RecurringRule `gorm:"serializer:json" json:"recurringRule,omitempty"`
	Reminder      *Reminder      `gorm:"serializer:json" json:"reminder,omitempty"`
	CreatedAt     int64          `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt     int64          `gorm:"autoUpdateTime:false" json:"updatedAt"`
}
