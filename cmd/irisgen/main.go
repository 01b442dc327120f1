// Command irisgen populates a SQLite sample database with random
// plaintext iris records, in the schema the matcher tools read:
// iris_codes(id INTEGER PRIMARY KEY, code BLOB, mask BLOB).
package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
)

var (
	dbPath      string
	items       int
	shouldMatch bool

	rootCmd = &cobra.Command{
		Use:   "irisgen",
		Short: "Generate a sample iris-code database",
		Long: `Generate random plaintext iris records into a SQLite database. With
--should-match, one extra record is a noisy copy (5% of bits flipped)
of the first generated record, so a scan of the database exercises the
positive-match path.`,
		RunE: generate,
	}
)

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to the database file (required)")
	rootCmd.Flags().IntVar(&items, "items", 0, "Number of records to generate (required)")
	rootCmd.Flags().BoolVar(&shouldMatch, "should-match", false, "Append a near-copy of the first record")
	_ = rootCmd.MarkFlagRequired("db")
	_ = rootCmd.MarkFlagRequired("items")
}

func generate(cmd *cobra.Command, args []string) error {
	if items <= 0 {
		return errs.Wrap(errs.ErrConfig, "--items must be positive")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return errs.Wrap(errs.ErrIO, "open database")
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS iris_codes (
		id INTEGER PRIMARY KEY,
		code BLOB NOT NULL,
		mask BLOB NOT NULL
	)`); err != nil {
		return errs.Wrap(errs.ErrIO, "create table")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	records := make([]iriscode.IrisCode, 0, items+1)
	for i := 0; i < items; i++ {
		records = append(records, iriscode.Random(rng))
	}
	if shouldMatch {
		records = append(records, iriscode.Similar(rng, records[0], 0.05))
	}

	tx, err := db.Begin()
	if err != nil {
		return errs.Wrap(errs.ErrIO, "begin transaction")
	}
	stmt, err := tx.Prepare("INSERT INTO iris_codes (code, mask) VALUES (?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return errs.Wrap(errs.ErrIO, "prepare insert")
	}
	for _, rec := range records {
		if _, err := stmt.Exec([]byte(rec.Code), []byte(rec.Mask)); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return errs.Wrap(errs.ErrIO, "insert record")
		}
	}
	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrIO, "commit transaction")
	}

	fmt.Printf("wrote %d records to %s\n", len(records), dbPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
