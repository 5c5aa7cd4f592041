package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"paybridge/internal/db"

	"github.com/joho/godotenv"
)

// usage: migrate [-cmd up|down|status|version|redo|reset] [args...]
func main() {
	command := flag.String("cmd", "up", "goose command to run")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	addr, err := db.ResolveAddr(os.Getenv("DB_ADDR"), os.Getenv("DB_ADDR_BASE64"))
	if err != nil {
		log.Fatal(err)
	}
	if addr == "" {
		log.Fatal("DB_ADDR or DB_ADDR_BASE64 must be set")
	}

	pool, err := db.New(addr, 2, "1m")
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := db.Migrate(pool, *command, flag.Args()...); err != nil {
		log.Fatal(err)
	}
	log.Printf("migrate %s: done", *command)
}
