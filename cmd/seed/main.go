package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/rl1809/batch-allocation/internal/adapter/storage"
	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/port"
	"github.com/rl1809/batch-allocation/pkg/config"
	"github.com/rl1809/batch-allocation/pkg/logger"
)

type seedBatch struct {
	reference string
	sku       string
	qty       int
	etaDays   int // 0 means in stock
}

var seedBatches = []seedBatch{
	{reference: "in-stock-clock", sku: "RETRO-CLOCK", qty: 100},
	{reference: "shipment-clock", sku: "RETRO-CLOCK", qty: 100, etaDays: 1},
	{reference: "speedy-spoon", sku: "MINIMALIST-SPOON", qty: 100, etaDays: 1},
	{reference: "normal-spoon", sku: "MINIMALIST-SPOON", qty: 100, etaDays: 2},
	{reference: "slow-spoon", sku: "MINIMALIST-SPOON", qty: 100, etaDays: 12},
	{reference: "small-fork", sku: "SMALL-FORK", qty: 10},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}
	log := logger.New("seed", logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mysql")
	}
	defer db.Close()

	adapter := storage.NewMySQLAdapter(db, log)
	if err := adapter.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	created := 0
	for _, sb := range seedBatches {
		var eta *time.Time
		if sb.etaDays > 0 {
			d := today.AddDate(0, 0, sb.etaDays)
			eta = &d
		}

		err := adapter.AddBatch(ctx, domain.NewBatch(sb.reference, sb.sku, sb.qty, eta))
		if errors.Is(err, port.ErrBatchExists) {
			log.Info().Str("batch_ref", sb.reference).Msg("batch already present")
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("batch_ref", sb.reference).Msg("failed to add batch")
		}
		created++
	}

	log.Info().Int("created", created).Int("total", len(seedBatches)).Msg("seed complete")
}
