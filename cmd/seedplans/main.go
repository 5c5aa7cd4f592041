package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"paybridge/internal/db"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/storage"

	"github.com/joho/godotenv"
)

var defaultPlans = []plans.Plan{
	{Name: "Starter 500", ConversationsCount: 500, Amount: 5000},
	{Name: "Pro 1000", ConversationsCount: 1000, Amount: 10000},
	{Name: "Elite 5000", ConversationsCount: 5000, Amount: 45000},
}

// seedplans inserts the default catalog into an empty plans table.
func main() {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := seed(ctx, storage.NewContainer(pool))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("seeded %d plans", n)
}

func seed(ctx context.Context, uow interface {
	WithTx(ctx context.Context, fn func(r storage.Repos) error) error
}) (int, error) {
	inserted := 0
	err := uow.WithTx(ctx, func(r storage.Repos) error {
		count, err := r.Plans.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			log.Printf("plans table already has %d rows, skipping", count)
			return nil
		}
		for _, p := range defaultPlans {
			if err := r.Plans.Create(ctx, &p); err != nil {
				return err
			}
			log.Printf("created plan %s (%s)", p.Name, p.ID)
			inserted++
		}
		return nil
	})
	return inserted, err
}
