package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4"
)

// Applies scripts/init_db.sql against DATABASE_URL. Idempotent.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		dsn = os.Args[1]
	}
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set and no DSN argument given")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	sqlContent, err := os.ReadFile("scripts/init_db.sql")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read init_db.sql: %v\n", err)
		os.Exit(1)
	}

	if _, err := conn.Exec(ctx, string(sqlContent)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to apply schema: %v\n", err)
		os.Exit(1)
	}

	tables := []string{"properties", "assets", "master_identifiers", "privacy_seeds", "service_events", "documents"}
	for _, table := range tables {
		var count int
		if err := conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "verify %s: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("table %s: %d rows\n", table, count)
	}

	fmt.Println("database setup complete")
}
