package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"hashwatch/internal/coins"
	"hashwatch/internal/config"
	"hashwatch/internal/database"
	"hashwatch/internal/history"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exports collected history to an xlsx workbook: one summary sheet plus one
// sheet per coin with the raw series.
func main() {
	var (
		out  = flag.String("out", "hashwatch-report.xlsx", "output file path")
		days = flag.Int("days", 0, "limit the series to the last N days (0 = all)")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "hashwatch-export").Logger()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	store := history.New(db, cfg.HistoryCacheTTL, log)

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	f.SetSheetName("Sheet1", summarySheet)
	_ = f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Coin", "Name", "Algorithm", "Entries", "Last Updated"})

	row := 2
	exported := 0
	for _, cc := range coins.All() {
		header, series, err := store.ReadRecent(cc.Symbol, *days)
		if err != nil {
			if !errors.Is(err, history.ErrNoHistory) {
				log.Error().Str("coin", cc.Symbol).Err(err).Msg("history read failed")
			}
			continue
		}

		cell := fmt.Sprintf("A%d", row)
		_ = f.SetSheetRow(summarySheet, cell, &[]interface{}{
			cc.Symbol, header.Name, header.Algorithm, len(series),
			header.LastUpdated.UTC().Format(time.RFC3339),
		})
		row++

		if _, err := f.NewSheet(cc.Symbol); err != nil {
			log.Error().Str("coin", cc.Symbol).Err(err).Msg("sheet create failed")
			continue
		}
		unitHeader := fmt.Sprintf("Hashrate (%s)", cc.Unit)
		_ = f.SetSheetRow(cc.Symbol, "A1", &[]interface{}{"Timestamp", "Datetime (UTC)", unitHeader, "Difficulty", "Price (USD)"})
		for i, e := range series {
			cell := fmt.Sprintf("A%d", i+2)
			_ = f.SetSheetRow(cc.Symbol, cell, &[]interface{}{
				e.ObservedAt,
				time.Unix(e.ObservedAt, 0).UTC().Format(time.RFC3339),
				e.Hashrate,
				e.Difficulty,
				e.Price,
			})
		}
		exported++
	}

	if exported == 0 {
		log.Error().Msg("no history to export")
		os.Exit(1)
	}
	if err := f.SaveAs(*out); err != nil {
		log.Fatal().Err(err).Msg("failed to write workbook")
	}
	log.Info().Str("file", *out).Int("coins", exported).Msg("report written")
}
