// Package query computes derived views over the in-memory collections. Every
// function here is pure: no caching, no mutation, recomputed on each call.
package query

import (
	"math"
	"time"

	"cwtshtodo/internal/model"
)

// completionRateWindowDays is the trailing window for habit completion rates.
const completionRateWindowDays = 30

// StartOfDay returns local midnight for t, in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// TasksForDate returns the uncompleted tasks whose start time falls on date's
// calendar day, bounds inclusive.
func TasksForDate(tasks []model.Task, date time.Time) []model.Task {
	return TasksForRange(tasks, StartOfDay(date), EndOfDay(date))
}

// TasksForRange returns the uncompleted tasks whose start time falls within
// [from, to], bounds inclusive. Used by the week and month views.
func TasksForRange(tasks []model.Task, from, to time.Time) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		if t.StartTime.Before(from) || t.StartTime.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TodayFocusTime sums the seconds of focus-mode sessions completed within
// now's calendar day.
func TodayFocusTime(sessions []model.FocusSession, now time.Time) int64 {
	from := StartOfDay(now).UnixMilli()
	to := EndOfDay(now).UnixMilli()

	var total int64
	for _, s := range sessions {
		if s.Mode != model.ModeFocus {
			continue
		}
		if s.CompletedAt >= from && s.CompletedAt <= to {
			total += s.Duration
		}
	}
	return total
}

// DayFocus is one day's focus total within a week.
type DayFocus struct {
	Date    string // YYYY-MM-DD
	Seconds int64
}

// WeekFocusStats returns per-day focus totals for the seven days starting at
// weekStart.
func WeekFocusStats(sessions []model.FocusSession, weekStart time.Time) []DayFocus {
	stats := make([]DayFocus, 7)
	for i := range stats {
		day := StartOfDay(weekStart).AddDate(0, 0, i)
		stats[i] = DayFocus{
			Date:    model.DayKey(day),
			Seconds: TodayFocusTime(sessions, day),
		}
	}
	return stats
}

// HabitStreak counts consecutive days with a completed log, walking backward
// from today. A missing log for today itself does not break the streak; the
// first gap on a prior day does.
func HabitStreak(logs []model.HabitLog, habitID string, today time.Time) int {
	completed := completedDays(logs, habitID)

	day := StartOfDay(today)
	if !completed[model.DayKey(day)] {
		// No log yet today; the streak is judged from yesterday.
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for completed[model.DayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// HabitCompletionRate returns the percentage (0-100) of the habit's target
// weekdays in the trailing 30 days that have a completed log. A habit with no
// target days in the window rates 0.
func HabitCompletionRate(habit model.Habit, logs []model.HabitLog, today time.Time) int {
	if len(habit.TargetDays) == 0 {
		return 0
	}
	target := make(map[int]bool, len(habit.TargetDays))
	for _, d := range habit.TargetDays {
		target[d] = true
	}

	completed := completedDays(logs, habit.ID)

	targetCount, doneCount := 0, 0
	for i := 0; i < completionRateWindowDays; i++ {
		day := StartOfDay(today).AddDate(0, 0, -i)
		if !target[int(day.Weekday())] {
			continue
		}
		targetCount++
		if completed[model.DayKey(day)] {
			doneCount++
		}
	}
	if targetCount == 0 {
		return 0
	}
	return int(math.Round(float64(doneCount) / float64(targetCount) * 100))
}

// HabitStats bundles the two numbers the habit views display.
type HabitStats struct {
	Streak         int
	CompletionRate int // percent
}

// StatsForHabit computes streak and completion rate as of today.
func StatsForHabit(habit model.Habit, logs []model.HabitLog, today time.Time) HabitStats {
	return HabitStats{
		Streak:         HabitStreak(logs, habit.ID, today),
		CompletionRate: HabitCompletionRate(habit, logs, today),
	}
}

// HabitLogsForWeek returns the habit's log for each of the seven days from
// weekStart; days without a log hold nil.
func HabitLogsForWeek(logs []model.HabitLog, habitID string, weekStart time.Time) []*model.HabitLog {
	byDate := make(map[string]model.HabitLog)
	for _, l := range logs {
		if l.HabitID == habitID {
			byDate[l.Date] = l
		}
	}

	week := make([]*model.HabitLog, 7)
	for i := range week {
		day := StartOfDay(weekStart).AddDate(0, 0, i)
		if l, ok := byDate[model.DayKey(day)]; ok {
			log := l
			week[i] = &log
		}
	}
	return week
}

// CategoryStat is one category's completion numbers within a reporting window.
type CategoryStat struct {
	CategoryID string
	Name       string
	Total      int
	Completed  int
}

// CategoryStats counts completed vs total tasks per category for tasks whose
// start time falls within [from, to]. Categories without tasks in the window
// report zero counts.
func CategoryStats(tasks []model.Task, categories []model.Category, from, to time.Time) []CategoryStat {
	stats := make([]CategoryStat, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		stats[i] = CategoryStat{CategoryID: c.ID, Name: c.Name}
		index[c.ID] = i
	}

	for _, t := range tasks {
		if t.StartTime.Before(from) || t.StartTime.After(to) {
			continue
		}
		i, ok := index[t.CategoryID]
		if !ok {
			// Uncategorized or dangling reference; not reported per category.
			continue
		}
		stats[i].Total++
		if t.IsCompleted {
			stats[i].Completed++
		}
	}
	return stats
}

func completedDays(logs []model.HabitLog, habitID string) map[string]bool {
	days := make(map[string]bool)
	for _, l := range logs {
		if l.HabitID == habitID && l.Completed {
			days[l.Date] = true
		}
	}
	return days
}
