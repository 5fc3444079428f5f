package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	pkg "github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/cache"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/database"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/http"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/services"
	"github.com/teamparakram16-pixel/Code4Bharat-sub002/pkg/internal/signaling"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Signaling relay
	registry := signaling.NewRoomRegistry(signaling.MeshStrategy{})

	// Server
	http.NewServer(registry)
	go http.Listen()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Messages
	log.Info().Msgf("Telehealth v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Telehealth v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}
