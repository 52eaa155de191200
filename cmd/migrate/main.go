package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"avatarshop/internal/config"
	"avatarshop/internal/logger"
)

func main() {
	envErr := godotenv.Load()

	command := flag.String("command", "up", "Migration command: up, down, down-to, status, create")
	name := flag.String("name", "", "Migration name (required for create)")
	targetVersion := flag.Int64("version", 0, "Target version for down-to command")
	migrationsDir := flag.String("dir", "migrations", "Directory holding goose SQL migrations")
	flag.Parse()

	cfg := config.Load()

	l, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer l.Sync()
	if envErr != nil {
		l.Info(".env not loaded, relying on environment")
	}

	db, err := open(cfg, *command == "up")
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal("failed to set dialect", zap.Error(err))
	}

	if err := run(db, *command, *migrationsDir, *name, *targetVersion); err != nil {
		l.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}
	l.Info("migration command finished", zap.String("command", *command))
}

// open connects to the configured database, creating it first when
// createMissing is set and it does not exist yet.
func open(cfg *config.Config, createMissing bool) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err == nil {
		return db, nil
	}
	db.Close()

	if !createMissing || !isDatabaseDoesNotExistError(err) {
		return nil, err
	}
	if err := createDatabase(cfg); err != nil {
		return nil, err
	}

	db, err = sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func run(db *sql.DB, command, dir, name string, version int64) error {
	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "down-to":
		return goose.DownTo(db, dir, version)
	case "status":
		return goose.Status(db, dir)
	case "create":
		if name == "" {
			return errors.New("migration name is required for create command")
		}
		return goose.Create(db, dir, name, "sql")
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func isDatabaseDoesNotExistError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "3D000"
}

func createDatabase(cfg *config.Config) error {
	maintenance := cfg.Database
	maintenance.Name = "postgres"

	db, err := sql.Open("postgres", maintenance.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}

	query := fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(cfg.Database.Name))
	if _, err = db.Exec(query); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}

	zap.L().Info("database created", zap.String("name", cfg.Database.Name))
	return nil
}
