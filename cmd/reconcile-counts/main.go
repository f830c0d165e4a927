// cmd/reconcile-counts/main.go
// Recomputes denormalized like and comment counters from the source tables.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"Socialite/internal/config"
	"Socialite/internal/db/postgres"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report drift without writing corrections")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall time limit")
	flag.Parse()

	databaseURL, err := config.LoadDatabaseURL(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := postgres.Open(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	drift, err := postgres.ReconcileCounts(ctx, db, *dryRun)
	if err != nil {
		log.Fatalf("Reconcile failed: %v", err)
	}

	mode := "corrected"
	if *dryRun {
		mode = "found (dry run)"
	}
	log.Printf("Post comment counts %s: %d", mode, drift.PostComments)
	log.Printf("Post like counts %s: %d", mode, drift.PostLikes)
	log.Printf("Comment like counts %s: %d", mode, drift.CommentLikes)
	log.Printf("Total rows %s: %d", mode, drift.Total())
}
