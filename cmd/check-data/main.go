// Dumps the profiles database reference tables as JSON lines. Quick way to
// eyeball whether registration and catalog sync have landed where expected.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL_PROFILES")
	if dsn == "" {
		log.Fatal("DATABASE_URL_PROFILES must be set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("connection failed:", err)
	}
	defer db.Close()

	log.Println("Connected to database PROFILES")

	fmt.Println("\n--- User References ---")
	dumpRows(db, `SELECT id, name, email, status, role_id FROM user_reference`)

	fmt.Println("\n--- Student Profiles ---")
	dumpRows(db, `SELECT id, user_id, career_id FROM student_profile`)

	fmt.Println("\n--- Subject References ---")
	dumpRows(db, `SELECT id, name, capacity FROM subject_reference`)
}

func dumpRows(db *sql.DB, query string) {
	rows, err := db.Query(query)
	if err != nil {
		log.Fatal("query failed:", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		log.Fatal("failed to read columns:", err)
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Fatal("scan failed:", err)
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}

		line, err := json.Marshal(record)
		if err != nil {
			log.Fatal("marshal failed:", err)
		}
		fmt.Println(string(line))
	}
	if err := rows.Err(); err != nil {
		log.Fatal("iteration failed:", err)
	}
}
