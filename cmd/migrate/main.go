package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	"blog/pkg/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Usage: migrate [-dir migrations] <command> [args]
// Commands are goose's: up, up-by-one, down, redo, reset, status, version, create NAME sql.
func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	timeout := flag.Duration("timeout", time.Minute, "time allowed for the whole run")
	flag.Parse()

	command, args := "up", []string(nil)
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StorageDriver != config.StoragePostgres {
		log.Printf("STORAGE_DRIVER is %q; the posts table is only used by the postgres driver", cfg.StorageDriver)
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := goose.RunContext(ctx, command, db, *dir, args...); err != nil {
		log.Fatalf("goose %s failed: %v", command, err)
	}
	log.Printf("goose %s finished", command)
}
