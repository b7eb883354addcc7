package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/coldbrew-labs/franchise-inventory/internal/repository/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func runInitSchema(c *cli.Context) error {
	db := dbFrom(c)
	for _, stmt := range postgres.SchemaStatements() {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	log.Println("schema initialized")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize and seed the inventory database",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "init-schema",
				Usage:  "Create tables, indexes and the system tenant",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runInitSchema,
			},
			{
				Name:  "import-catalog",
				Usage: "Import the template product catalog into the system tenant from CSV",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Catalog CSV file",
						Value:   "./data/catalog.csv",
						EnvVars: []string{"CATALOG_CSV"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImportCatalog,
			},
			{
				Name:  "demo",
				Usage: "Create a demo tenant with users, a cloned catalog and sample stock history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "name",
						Usage: "Demo company name",
						Value: "Demo Franchise",
					},
					&cli.Int64Flag{
						Name:     "admin-id",
						Usage:    "User id to register as the demo tenant admin",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
