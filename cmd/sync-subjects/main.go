// One-shot catalog sync: copies every academic subject into the profiles
// subject_reference table. The running service does the same thing
// incrementally; this tool exists for initial backfill and manual repair.
package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	academicDSN := os.Getenv("DATABASE_URL_ACADEMIC")
	profilesDSN := os.Getenv("DATABASE_URL_PROFILES")
	if academicDSN == "" || profilesDSN == "" {
		log.Fatal("DATABASE_URL_ACADEMIC and DATABASE_URL_PROFILES must be set")
	}

	academic, err := sql.Open("postgres", academicDSN)
	if err != nil {
		log.Fatal("academic connection failed:", err)
	}
	defer academic.Close()

	profiles, err := sql.Open("postgres", profilesDSN)
	if err != nil {
		log.Fatal("profiles connection failed:", err)
	}
	defer profiles.Close()

	log.Println("Connected to both databases")

	rows, err := academic.Query(`SELECT id, name, career_id, cicle_number FROM subject`)
	if err != nil {
		log.Fatal("failed to read subjects:", err)
	}
	defer rows.Close()

	type subjectRow struct {
		ID          int
		Name        string
		CareerID    int
		CicleNumber int
	}

	var subjects []subjectRow
	for rows.Next() {
		var s subjectRow
		if err := rows.Scan(&s.ID, &s.Name, &s.CareerID, &s.CicleNumber); err != nil {
			log.Fatal("failed to scan subject:", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		log.Fatal("failed to iterate subjects:", err)
	}

	log.Printf("Found %d subjects in ACADEMIC", len(subjects))

	for _, s := range subjects {
		log.Printf("Syncing subject: %s (ID: %d)", s.Name, s.ID)
		// Capacity only takes effect on insert; existing rows keep their
		// remaining cupos.
		_, err := profiles.Exec(`
			INSERT INTO subject_reference (id, name, career_id, cicle_number, capacity, synced_at)
			VALUES ($1, $2, $3, $4, 30, NOW())
			ON CONFLICT (id) DO UPDATE SET
			  name = EXCLUDED.name,
			  career_id = EXCLUDED.career_id,
			  cicle_number = EXCLUDED.cicle_number,
			  synced_at = NOW()
		`, s.ID, s.Name, s.CareerID, s.CicleNumber)
		if err != nil {
			log.Fatalf("failed to upsert subject %d: %v", s.ID, err)
		}
	}

	log.Println("Sync completed successfully")
}
