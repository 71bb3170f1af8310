package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cwtshtodo/internal/model"
	"cwtshtodo/internal/query"
)

// TaskReminder is one notification that should fire for a task.
type TaskReminder struct {
	Task        model.Task
	LeadMinutes int
	FireAt      time.Time
}

// DueTaskReminders returns the reminders whose fire time (start minus lead)
// falls within [now, now+window), sorted by fire time. Completed tasks and
// disabled reminders are skipped.
func DueTaskReminders(tasks []model.Task, now time.Time, window time.Duration) []TaskReminder {
	var due []TaskReminder
	for _, task := range tasks {
		if task.IsCompleted || task.Reminder == nil || !task.Reminder.Enabled {
			continue
		}
		for _, lead := range task.Reminder.BeforeMinutes {
			fireAt := task.StartTime.Add(-time.Duration(lead) * time.Minute)
			if fireAt.Before(now) || !fireAt.Before(now.Add(window)) {
				continue
			}
			due = append(due, TaskReminder{Task: task, LeadMinutes: lead, FireAt: fireAt})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	return due
}

// Summary builds the plain-text daily digest: today's open tasks followed by
// habit streaks and completion rates.
func Summary(tasks []model.Task, categories []model.Category, habits []model.Habit, logs []model.HabitLog, now time.Time) string {
	catNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	today := query.TasksForDate(tasks, now)
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].StartTime.Before(today[j].StartTime)
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Agenda for %s\n\n", now.Format("Mon, 02 Jan 2006")))

	if len(today) == 0 {
		builder.WriteString("No open tasks today.\n")
	}
	for _, task := range today {
		builder.WriteString(formatTaskLine(task, catNames))
	}

	if len(habits) > 0 {
		builder.WriteString("\nHabits\n")
		todayKey := model.DayKey(now)
		doneToday := make(map[string]bool)
		for _, l := range logs {
			if l.Date == todayKey && l.Completed {
				doneToday[l.HabitID] = true
			}
		}
		for _, habit := range habits {
			stats := query.StatsForHabit(habit, logs, now)
			mark := " "
			if doneToday[habit.ID] {
				mark = "x"
			}
			builder.WriteString(fmt.Sprintf("[%s] %s %s: streak %d, rate %d%%\n",
				mark, habit.Icon, habit.Name, stats.Streak, stats.CompletionRate))
		}
	}

	return strings.TrimSpace(builder.String())
}

func formatTaskLine(task model.Task, catNames map[string]string) string {
	var sb strings.Builder

	if task.IsAllDay {
		sb.WriteString("all day  ")
	} else {
		sb.WriteString(task.StartTime.Format("15:04") + "    ")
	}
	sb.WriteString(strings.TrimSpace(task.Title))

	if name, ok := catNames[task.CategoryID]; ok && strings.TrimSpace(name) != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", strings.TrimSpace(name)))
	}
	if task.Priority == model.PriorityHigh {
		sb.WriteString(" !")
	}

	sb.WriteByte('\n')
	return sb.String()
}
