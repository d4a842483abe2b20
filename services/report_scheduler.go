package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"university-admin-system/utils"
)

// StartReportArchiver schedules a daily snapshot of the enrollment report
// into object storage under reports/enrollment/. The job is best-effort:
// a failed upload is logged and retried at the next tick.
func (s *StudentService) StartReportArchiver(enabled bool) {
	if !enabled {
		log.Println("Report archiver disabled (R2 not configured)")
		return
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[ReportArchiver] scheduler init failed: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			rows, err := s.EnrollmentReport()
			if err != nil {
				log.Printf("[ReportArchiver] report query failed: %v", err)
				return
			}
			body, err := json.Marshal(rows)
			if err != nil {
				log.Printf("[ReportArchiver] marshal failed: %v", err)
				return
			}
			key := "reports/enrollment/" + uuid.NewString() + ".json"
			if err := utils.UploadBytesToR2(context.Background(), key, body, "application/json"); err != nil {
				log.Printf("[ReportArchiver] upload failed: %v", err)
				return
			}
			log.Printf("[ReportArchiver] archived %d report rows to %s", len(rows), key)
		}),
	)
	if err != nil {
		log.Printf("[ReportArchiver] job registration failed: %v", err)
	}
}
