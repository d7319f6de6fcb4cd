package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DhavalSuthar-24/crickscore/config"
	"github.com/DhavalSuthar-24/crickscore/internal/logger"
	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/DhavalSuthar-24/crickscore/internal/standings"
	"github.com/DhavalSuthar-24/crickscore/internal/team"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(replayCmd)
}

func allModels() []interface{} {
	models := append(match.Models(), standings.Models()...)
	return append(models, team.Models()...)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the scoring tables in the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		db, err := config.ConnectDB(*cfg)
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(allModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables on %s\n", len(allModels()), cfg.DB.Driver)
		return nil
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded match on an in-memory database and print the scorecard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		var fixture Fixture
		if err := json.Unmarshal(raw, &fixture); err != nil {
			return fmt.Errorf("parse fixture %s: %w", args[0], err)
		}

		db, err := openMemoryDB()
		if err != nil {
			return err
		}

		log := logger.Discard()
		if verbose {
			log = logger.InitLogger("debug", "text", true)
			log.SetOutput(cmd.ErrOrStderr())
		}
		return Replay(cmd.Context(), db, fixture, log, cmd.OutOrStdout())
	},
}

func openMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return db, nil
}
