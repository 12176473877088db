package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kitaku/internal/app"
	"kitaku/internal/config"
	"kitaku/models"
)

func main() {
	once := flag.Bool("once", false, "send one advisory to the configured chat and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN is not set")
	}
	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		log.Fatal().Msg("TELEGRAM_CHAT_ID is not set or not numeric")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram connect failed")
	}
	log.Info().Str("account", bot.Self.UserName).Msg("Authorized on Telegram")

	if *once {
		sendAdvisory(bot, chatID, cfg)
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		// Single-user bot: ignore everything outside the configured chat.
		if update.Message.Chat.ID != chatID {
			continue
		}

		switch update.Message.Command() {
		case "ikou", "go":
			sendAdvisory(bot, chatID, cfg)
		case "start", "help":
			msg := tgbotapi.NewMessage(chatID, "Send /ikou and I'll tell you when to leave for the station.")
			bot.Send(msg)
		}
	}
}

func sendAdvisory(bot *tgbotapi.BotAPI, chatID int64, cfg *models.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	advisory, err := app.Run(ctx, cfg, time.Now())
	if err != nil {
		text := "Something went wrong, try again in a minute."
		if errors.Is(err, models.ErrNoViableDeparture) {
			text = "No catchable trains in the next hour. Check back later."
		} else {
			log.Error().Err(err).Msg("advisory failed")
		}
		bot.Send(tgbotapi.NewMessage(chatID, text))
		return
	}

	if _, err := bot.Send(tgbotapi.NewMessage(chatID, formatAdvisory(advisory))); err != nil {
		log.Error().Err(err).Msg("telegram send failed")
	}
}

func formatAdvisory(advisory *models.Advisory) string {
	var sb strings.Builder

	if len(advisory.Options) > 0 {
		best := advisory.Options[0]
		sb.WriteString(fmt.Sprintf("🚶 Leave at %s → 🚃 %s (%s to %s, arrives ~%s)\n",
			best.LeaveTime, best.TrainDeparture, best.TrainType, best.Destination, best.ArrivalTime))
		sb.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", best.Confidence*100))
	}

	sb.WriteString(fmt.Sprintf("\nWeather: %s, risk %s (now %.1f mm/h, peak %.1f mm/h)\n",
		advisory.Pattern, advisory.Risk, advisory.CurrentRainfall, advisory.PeakRainfall))

	for _, opt := range advisory.Options[1:] {
		sb.WriteString(fmt.Sprintf("Alt %d: leave %s → train %s\n", opt.Rank, opt.LeaveTime, opt.TrainDeparture))
	}

	if n := advisory.Narrative; n != nil {
		sb.WriteString("\n" + n.Summary)
		if n.Warning != "" {
			sb.WriteString("\n⚠️ " + n.Warning)
		}
	}

	return sb.String()
}
