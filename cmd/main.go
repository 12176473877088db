package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kitaku/internal/app"
	"kitaku/internal/config"
	"kitaku/internal/database"
	"kitaku/internal/timetable"
	"kitaku/models"
)

func main() {
	importTimetable := flag.Bool("import-timetable", false, "import the timetable CSV into Postgres and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if *importTimetable {
		if err := runImport(cfg); err != nil {
			log.Fatal().Err(err).Msg("timetable import failed")
		}
		return
	}

	advisory, err := app.Run(context.Background(), cfg, time.Now())
	if err != nil {
		if errors.Is(err, models.ErrNoViableDeparture) {
			fmt.Println("\nNo catchable trains in the next hour. Check back later.")
			return
		}
		log.Fatal().Err(err).Msg("recommendation failed")
	}

	printAdvisory(advisory)
}

// runImport loads the CSV timetable and stores it in Postgres.
func runImport(cfg *models.Config) error {
	if cfg.TimetableDSN == "" {
		return fmt.Errorf("TIMETABLE_DSN is not set")
	}
	entries, err := timetable.NewCSVSource(cfg.TimetableFile).LoadEntries()
	if err != nil {
		return err
	}
	db, err := database.New(cfg.TimetableDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.ImportEntries(entries); err != nil {
		return err
	}
	log.Info().Int("count", len(entries)).Msg("Imported timetable into Postgres")
	return nil
}

func printAdvisory(advisory *models.Advisory) {
	fmt.Println("\n==================================================")
	fmt.Println("🚶 Kitaku — when to leave for the station")
	fmt.Println("==================================================")

	fmt.Printf("\nGenerated: %s\n", advisory.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Println("\n🌤  Weather:")
	fmt.Printf("   Pattern: %s\n", advisory.Pattern)
	fmt.Printf("   Current rainfall: %.1f mm/h\n", advisory.CurrentRainfall)
	fmt.Printf("   Peak within the hour: %.1f mm/h\n", advisory.PeakRainfall)
	fmt.Printf("   Risk level: %s\n", advisory.Risk)
	if advisory.SparseData {
		fmt.Println("   (sparse forecast data)")
	}

	fmt.Println("\n🚃 Departure options:")
	for _, opt := range advisory.Options {
		fmt.Printf("   %d. Leave %s → train %s (%s to %s, arrives ~%s) confidence %.0f%%\n",
			opt.Rank, opt.LeaveTime, opt.TrainDeparture,
			opt.TrainType, opt.Destination, opt.ArrivalTime,
			opt.Confidence*100)
	}

	if n := advisory.Narrative; n != nil {
		fmt.Printf("\n💭 %s\n", n.Summary)
		fmt.Printf("   %s\n", n.Reason)
		if n.Warning != "" {
			fmt.Printf("\n⚠️  %s\n", n.Warning)
		}
		if n.Advice != "" {
			fmt.Printf("💡 %s\n", n.Advice)
		}
	}

	fmt.Println("\n==================================================")
}
