package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	vaa "github.com/kodjac/vaa"
	"github.com/kodjac/vaa/database"
	"github.com/kodjac/vaa/settings"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	configPath := os.Getenv("VAA_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := settings.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	tickers := append(append([]string{}, cfg.Buckets.Risk...), cfg.Buckets.Cash...)
	bars, err := vaa.LoadBarsFromDir(cfg.DataDir, tickers)
	if err != nil {
		log.Fatal().Err(err).Msg("load bar data")
	}

	bt, err := vaa.CreateNewBacktest(cfg, bars)
	if err != nil {
		log.Fatal().Err(err).Msg("create backtest")
	}
	result, err := bt.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("backtest aborted")
	}

	fmt.Print(bt.Report())

	if cfg.Results.CSVPath != "" {
		if err := bt.WriteHistoryCSV(cfg.Results.CSVPath); err != nil {
			log.Error().Err(err).Msg("write history csv")
		}
	}
	if cfg.Results.Influx.Enabled {
		if err := bt.LogCloudBacktest(); err != nil {
			log.Error().Err(err).Msg("log cloud backtest")
		}
	}
	if cfg.Results.Postgres.Enabled {
		if err := database.SaveResult(cfg.Results.Postgres.DSN, result, bt.ClosedPositions()); err != nil {
			log.Error().Err(err).Msg("save result")
		}
	}
}
