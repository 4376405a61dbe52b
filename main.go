package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/phrasetrainer/internal/ai"
	"github.com/example/phrasetrainer/internal/catalog"
	"github.com/example/phrasetrainer/internal/config"
	"github.com/example/phrasetrainer/internal/database"
	"github.com/example/phrasetrainer/internal/excel"
	"github.com/example/phrasetrainer/internal/history"
	"github.com/example/phrasetrainer/internal/input"
	"github.com/example/phrasetrainer/internal/notify"
	"github.com/example/phrasetrainer/internal/playback"
	"github.com/example/phrasetrainer/internal/scheduler"
	"github.com/example/phrasetrainer/internal/session"
	"github.com/example/phrasetrainer/internal/spaced_repetition"
	"github.com/example/phrasetrainer/internal/stats"
	"github.com/example/phrasetrainer/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "phrasetrainer",
	Short: "Spaced-repetition trainer for audio phrase flashcards.",
	Long: `Plays a mix of due and new audio phrases and schedules the next
review of each one from your recall: press Enter when you understood the
phrase, "a" to hear it again.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Try to load .env from the current directory (ignore if missing)
		_ = godotenv.Load()
		return nil
	},
	RunE: runSession,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder daemon that notifies when phrases come due",
	RunE:  runRemind,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger to an Excel workbook or CSV file",
	RunE:  runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a summary of the ledger",
	RunE:  runStats,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a list of phrases to record, using the OpenAI API",
	RunE:  runGenerate,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "directory containing audio phrase files")
	flags.String("history", "history.csv", "path of the CSV ledger (csv store)")
	flags.String("store", "csv", "ledger store driver: csv, sqlite or postgres")
	flags.String("format", ".mp3", "audio file extension to include")
	flags.Int("repeat", 5, "number of due phrases per session")
	flags.Int("new", 3, "number of new phrases per session")
	flags.Int("max-replays", 3, "playback rounds before a phrase counts as missed")
	flags.Duration("input-timeout", 0, "wait for a recall signal per round (0 waits forever)")
	flags.Int64("seed", 0, "random seed for phrase selection (0 uses the clock)")

	exportCmd.Flags().String("out", "history.xlsx", "destination file (.xlsx or .csv)")
	generateCmd.Flags().String("level", "C1", "CEFR level of the generated phrases")
	generateCmd.Flags().Int("count", 50, "number of phrases to generate")
	generateCmd.Flags().String("out", "phrases.txt", "destination text file")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("phrasetrainer")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(remindCmd, exportCmd, statsCmd, generateCmd)
}

// sessionConfig assembles the session configuration from flags and
// PHRASETRAINER_* environment variables.
func sessionConfig() config.Session {
	cfg := config.Default()
	cfg.SampleDir = viper.GetString("dir")
	cfg.HistoryPath = viper.GetString("history")
	cfg.StoreDriver = viper.GetString("store")
	cfg.AudioFormat = viper.GetString("format")
	cfg.SamplesRepeat = viper.GetInt("repeat")
	cfg.SamplesNew = viper.GetInt("new")
	cfg.MaxReplays = viper.GetInt("max-replays")
	cfg.InputTimeout = viper.GetDuration("input-timeout")
	return cfg
}

// openStore builds the configured ledger store. The returned cleanup closes
// the database connection when one was opened.
func openStore(cfg config.Session) (history.Store, func(), error) {
	switch cfg.StoreDriver {
	case "csv":
		return history.NewCSVStore(cfg.HistoryPath), func() {}, nil
	default:
		if err := database.Connect(cfg.StoreDriver); err != nil {
			return nil, nil, err
		}
		return database.NewHistoryRepository(), func() { database.Close() }, nil
	}
}

func runSession(_ *cobra.Command, _ []string) error {
	cfg := sessionConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	entries, err := catalog.Scan(cfg.SampleDir, cfg.AudioFormat)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no %s files found under %s", cfg.AudioFormat, cfg.SampleDir)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ledger, err := store.Load()
	if err != nil {
		// A corrupt ledger blocks the session rather than resetting history.
		return err
	}

	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	planner := session.NewPlanner(rand.New(rand.NewSource(seed)))

	today := models.DateOnly(time.Now())
	plan := planner.Plan(entries, ledger, today, cfg.SamplesRepeat, cfg.SamplesNew)
	if len(plan) == 0 {
		fmt.Println("Nothing to review today.")
		return nil
	}

	fmt.Printf("Session of %d phrase(s). Enter = understood, a = play again, Ctrl+C to stop.\n", len(plan))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := session.NewRunner(store, playback.NewBeepPlayer(), input.NewTerminalSource(os.Stdin), spaced_repetition.New(), cfg)
	if err := runner.Run(ctx, plan, ledger); err != nil {
		return err
	}
	if ctx.Err() != nil {
		log.Println("Session interrupted; completed phrases were saved.")
	} else {
		fmt.Println("\nSession complete.")
	}
	return nil
}

func runRemind(_ *cobra.Command, _ []string) error {
	cfg := sessionConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var notifier scheduler.Notifier
	if tg, err := notify.NewTelegramNotifier(); err != nil {
		log.Printf("Telegram not configured (%v), logging reminders to the console", err)
		notifier = notify.ConsoleNotifier{}
	} else {
		notifier = tg
	}

	sched := scheduler.New(store, notifier)
	if err := sched.RunManualCheck(); err != nil {
		log.Printf("Initial due check failed: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Reminder daemon started. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("Stopping reminder daemon...")
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg := sessionConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ledger, err := store.Load()
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := excel.ExportLedger(ledger, excel.DefaultExportConfig(out)); err != nil {
		return err
	}
	fmt.Printf("Exported %d record(s) to %s\n", len(ledger), out)
	return nil
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg := sessionConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ledger, err := store.Load()
	if err != nil {
		return err
	}

	s := stats.Compute(ledger, time.Now())
	fmt.Printf("Phrases tracked:   %d\n", s.TotalPhrases)
	fmt.Printf("Due today:         %d\n", s.DueToday)
	fmt.Printf("Mastered:          %d\n", s.Mastered)
	fmt.Printf("Hesitating:        %d\n", s.Hesitating)
	fmt.Printf("Lifetime misses:   %d\n", s.TotalMisses)
	if !s.NextDue.IsZero() {
		fmt.Printf("Next review date:  %s\n", s.NextDue.Format(models.DateLayout))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("level")
	count, _ := cmd.Flags().GetInt("count")
	out, _ := cmd.Flags().GetString("out")

	client, err := ai.New()
	if err != nil {
		return err
	}

	phrases, err := client.GeneratePhrases(level, count)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(strings.Join(phrases, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", out, err)
	}
	fmt.Printf("Wrote %d phrase(s) to %s\n", len(phrases), out)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
