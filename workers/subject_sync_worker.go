package workers

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"university-admin-system/models"
)

// SubjectSyncWorker mirrors the academic subject catalog into the profiles
// database (subject_reference). The academic database is the source of truth
// for names and cycle placement; capacity lives only in the reference copy
// and is never touched by the sync.
type SubjectSyncWorker struct {
	academic *gorm.DB
	profiles *gorm.DB
	interval time.Duration
}

func NewSubjectSyncWorker(academic, profiles *gorm.DB) *SubjectSyncWorker {
	return &SubjectSyncWorker{
		academic: academic,
		profiles: profiles,
		interval: 1 * time.Minute,
	}
}

func (w *SubjectSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Subject Sync Worker (academic.subject → profiles.subject_reference)…")
	go w.run(ctx)
}

func (w *SubjectSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.SyncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial subject sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.SyncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Subject sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Subject Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent SyncedAt from the local reference table.
func (w *SubjectSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.profiles.Raw("SELECT MAX(synced_at) FROM subject_reference").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// SyncBatch copies subjects changed since the watermark into subject_reference.
// On conflict it refreshes the catalog columns only; capacity keeps whatever
// value enrollment has left it at, and new rows start at the default capacity.
func (w *SubjectSyncWorker) SyncBatch(ctx context.Context, since time.Time) error {
	var subjects []models.Subject
	if err := w.academic.WithContext(ctx).
		Where("updated_at > ?", since).
		Find(&subjects).Error; err != nil {
		log.Printf("[SYNC] ❌ Failed to read academic subjects since=%v: %v", since, err)
		return err
	}

	if len(subjects) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d subject(s) changed since %s…", len(subjects), since.UTC().Format(time.RFC3339))

	now := time.Now()
	var upsertCount, errorCount int
	for _, subject := range subjects {
		ref := models.SubjectReference{
			ID:          subject.ID,
			Name:        subject.Name,
			CareerID:    subject.CareerID,
			CicleNumber: subject.CicleNumber,
			CycleID:     subject.CycleID,
			Capacity:    models.DefaultSubjectCapacity,
			SyncedAt:    now,
		}

		if err := w.profiles.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "career_id", "cicle_number", "cycle_id", "synced_at",
			}),
		}).Create(&ref).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert subject_reference (id=%d, name=%q): %v",
				subject.ID, subject.Name, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d subject(s) (%d upserted, %d errors)", len(subjects), upsertCount, errorCount)
	return nil
}
