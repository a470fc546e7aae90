package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/countryvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/countryvotes/internal/config"
)

// Usage: migrations [-direction up|down] [name]
// Without a name every embedded migration is applied in order.
func main() {
	direction := flag.String("direction", string(postgres.Up), "migration direction (up or down)")
	flag.Parse()

	dir := postgres.Direction(*direction)
	if dir != postgres.Up && dir != postgres.Down {
		log.Fatalf("invalid direction %q", *direction)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if name := flag.Arg(0); name != "" {
		err = postgres.MigrateOne(ctx, db, name, dir)
	} else {
		err = postgres.Migrate(ctx, db, dir)
	}
	if err != nil {
		log.Fatalf("Failed to execute migration: %v", err)
	}

	fmt.Println("Migration executed successfully.")
}
