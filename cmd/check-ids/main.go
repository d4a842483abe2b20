// Spot-checks individual rows in the profiles database by id. Takes the ids
// from flags so the same binary works against any environment.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	userID := flag.Int("user", 1, "user_reference id to inspect")
	studentUserID := flag.Int("student", 7, "user_id whose student_profile to inspect")
	subjectID := flag.Int("subject", 1, "subject_reference id to inspect")
	flag.Parse()

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

	fmt.Printf("--- Checking User %d ---\n", *userID)
	dumpOne(db, `SELECT * FROM user_reference WHERE id = $1`, *userID)

	fmt.Printf("--- Checking Student Profile for User %d ---\n", *studentUserID)
	dumpOne(db, `SELECT * FROM student_profile WHERE user_id = $1`, *studentUserID)

	fmt.Printf("--- Checking Subject %d ---\n", *subjectID)
	dumpOne(db, `SELECT * FROM subject_reference WHERE id = $1`, *subjectID)
}

func dumpOne(db *sql.DB, query string, arg any) {
	rows, err := db.Query(query, arg)
	if err != nil {
		log.Fatal("query failed:", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		log.Fatal("failed to read columns:", err)
	}

	if !rows.Next() {
		fmt.Println("(no row)")
		return
	}

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
