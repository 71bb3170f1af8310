package model

// TimerMode tags what kind of interval a focus session recorded.
type TimerMode string

const (
	ModeFocus      TimerMode = "focus"
	ModeShortBreak TimerMode = "shortBreak"
	ModeLongBreak  TimerMode = "longBreak"
)

// FocusSession is one completed pomodoro interval. Sessions are append-only:
// the UI creates them when a timer finishes and never edits them.
type FocusSession struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	TaskID      string    `gorm:"index:idx_focus_task" json:"taskId,omitempty"`
	Duration    int64     `json:"duration"`                                        // seconds
	CompletedAt int64     `gorm:"index:idx_focus_completed_at" json:"completedAt"` // epoch ms
	Mode        TimerMode `json:"mode"`
}
