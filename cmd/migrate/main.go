package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mizow1/satelite-column11/db"
)

const defaultSchemaPath = "db/schema.sql"

// Applies the schema file to the configured database. The schema uses
// IF NOT EXISTS throughout, so re-running is safe.
func main() {

	godotenv.Load()

	schemaPath := defaultSchemaPath
	if len(os.Args) > 1 {
		schemaPath = os.Args[1]
	}

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("error reading schema file %s: %v", schemaPath, err)
	}

	if err := db.Connect(); err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if _, err := db.DB.Exec(string(schema)); err != nil {
		log.Fatalf("error applying schema: %v", err)
	}

	slog.Info("schema applied", "file", schemaPath)
}
