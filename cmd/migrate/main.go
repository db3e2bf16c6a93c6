package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/amirasaad/budgettracker/internal/migrations"
	"github.com/amirasaad/budgettracker/pkg/config"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	steps := flag.Int("steps", 0, "migrations to apply; negative rolls back, 0 applies all")
	showVersion := flag.Bool("version", false, "print the applied schema version and exit")
	flag.Parse()

	cfg, err := config.LoadDB(".env")
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db, err := sql.Open("pgx", cfg.Url)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if *showVersion {
		version, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "version=%d dirty=%t\n", version, dirty)
		return nil
	}

	if *steps != 0 {
		if err := migrations.Steps(db, *steps); err != nil {
			return err
		}
		log.Printf("Applied %d migration step(s)", *steps)
		return nil
	}
	if err := migrations.Up(db); err != nil {
		return err
	}
	log.Println("Database is up to date")
	return nil
}
