package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"cwtshtodo/internal/backup"
	"cwtshtodo/internal/config"
	"cwtshtodo/internal/model"
	"cwtshtodo/internal/repository"
	"cwtshtodo/internal/service"
	"cwtshtodo/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	focusRepo := repository.NewFocusSessionRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	habitLogRepo := repository.NewHabitLogRepository(db)

	adapter := backup.NewAdapter(taskRepo, categoryRepo, focusRepo, habitRepo, habitLogRepo)
	st := store.New(store.Stores{
		Tasks:         taskRepo,
		Categories:    categoryRepo,
		FocusSessions: focusRepo,
		Habits:        habitRepo,
		HabitLogs:     habitLogRepo,
	}, adapter)

	if err := st.LoadData(ctx); err != nil {
		log.Fatalf("load: %v", err)
	}

	cmd := "summary"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "summary":
		printSummary(st)
	case "export":
		path := fmt.Sprintf("cwtshtodo-backup-%s.json", time.Now().Format("2006-01-02"))
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := exportToFile(ctx, st, path); err != nil {
			log.Fatalf("export: %v", err)
		}
		fmt.Println("exported to", path)
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("usage: cwtshtodo import <file>")
		}
		if err := importFromFile(ctx, st, os.Args[2]); err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Println("imported", os.Args[2])
	case "wipe":
		if err := st.ClearAllData(ctx); err != nil {
			log.Fatalf("wipe: %v", err)
		}
		fmt.Println("all data cleared")
	case "remind":
		if err := runReminders(ctx, st, cfg.ReminderWindow); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("remind: %v", err)
		}
	default:
		log.Fatalf("unknown command %q (want summary, export, import, wipe or remind)", cmd)
	}
}

func printSummary(st *store.Store) {
	now := time.Now()
	text := service.Summary(st.Tasks(), st.Categories(), st.Habits(), st.HabitLogs(), now)

	fmt.Println(titleStyle.Render("cwtshtodo"))
	fmt.Println(text)

	focus := st.GetTodayFocusTime()
	fmt.Println(mutedStyle.Render(fmt.Sprintf("\nFocus today: %dm", focus/60)))
}

func exportToFile(ctx context.Context, st *store.Store, path string) error {
	doc, err := st.ExportAllData(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func importFromFile(ctx context.Context, st *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := backup.Decode(f)
	if err != nil {
		return err
	}
	if doc.IsFull() {
		return st.ImportAllData(ctx, doc)
	}
	return st.ImportData(ctx, doc)
}

// runReminders scans for due task reminders on a fixed interval and registers
// habit reminder times, printing nudges until interrupted.
func runReminders(ctx context.Context, st *store.Store, window time.Duration) error {
	scheduler := service.NewScheduler(time.Local)

	if err := scheduler.ScheduleHabitReminders(st.Habits(), func(h model.Habit) {
		fmt.Printf("%s time for %q\n", h.Icon, h.Name)
	}); err != nil {
		return err
	}

	if _, err := scheduler.ScheduleInterval(window, func() {
		for _, r := range service.DueTaskReminders(st.Tasks(), time.Now(), window) {
			fmt.Printf("reminder: %q starts at %s\n", r.Task.Title, r.FireAt.Add(time.Duration(r.LeadMinutes)*time.Minute).Format("15:04"))
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()

	<-ctx.Done()
	return ctx.Err()
}
