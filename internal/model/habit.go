package model

import "time"

// Habit is a recurring daily practice tracked independently of tasks.
type Habit struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	TargetDays   []int  `gorm:"serializer:json" json:"targetDays"` // 0=Sunday .. 6=Saturday
	ReminderTime string `json:"reminderTime,omitempty"`            // HH:MM, empty = no reminder
	CreatedAt    int64  `gorm:"autoCreateTime:false" json:"createdAt"`
}

// HabitLog marks a habit done on one calendar day. Its id is derived from
// (habit, date) so a given day can never hold more than one log.
type HabitLog struct {
	ID          string `gorm:"primaryKey" json:"id"`
	HabitID     string `gorm:"index:idx_habit_logs_habit" json:"habitId"`
	Date        string `gorm:"index:idx_habit_logs_date" json:"date"` // YYYY-MM-DD
	Completed   bool   `json:"completed"`
	CompletedAt int64  `json:"completedAt,omitempty"` // epoch ms
}

// HabitLogID builds the deterministic primary key for a habit's log on the
// given YYYY-MM-DD date. Toggling relies on this being stable: the same
// (habit, date) pair always maps to the same record.
func HabitLogID(habitID, date string) string {
	return habitID + "-" + date
}

// DayKey formats a time as the YYYY-MM-DD key habit logs are recorded under,
// in t's location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DefaultHabits returns the seed set used when the store is empty.
func DefaultHabits(now time.Time) []Habit {
	ms := now.UnixMilli()
	return []Habit{
		{ID: "habit-1", Name: "Drink water", Icon: "💧", Color: "#3B82F6", TargetDays: []int{0, 1, 2, 3, 4, 5, 6}, CreatedAt: ms},
		{ID: "habit-2", Name: "Exercise", Icon: "🏃", Color: "#EF4444", TargetDays: []int{1, 2, 3, 4, 5}, CreatedAt: ms},
		{ID: "habit-3", Name: "Read", Icon: "📖", Color: "#10B981", TargetDays: []int{1, 3, 5}, CreatedAt: ms},
	}
}
