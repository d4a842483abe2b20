package models

import (
	"time"
)

// Cycle is an academic period ("2025-1"). Owned by the academic database.
type Cycle struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Year      int       `json:"year" gorm:"not null;uniqueIndex:idx_cycle_year_period"`
	Period    int       `json:"period" gorm:"not null;uniqueIndex:idx_cycle_year_period"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Cycle) TableName() string { return "cycle" }

// Career is the source-of-truth catalog row for a degree program.
type Career struct {
	ID            int       `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug          string    `json:"slug" gorm:"index"`
	TotalCicles   int       `json:"total_cicles" gorm:"default:10"`
	DurationYears int       `json:"duration_years"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Career) TableName() string { return "career" }

type Speciality struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Speciality) TableName() string { return "speciality" }

// Subject belongs to a career and is taught during one cicle of it.
// The profiles database carries a denormalized copy (SubjectReference)
// that additionally tracks enrollment capacity.
type Subject struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_subject_career_cicle_name"`
	Slug        string    `json:"slug" gorm:"index"`
	CareerID    int       `json:"career_id" gorm:"not null;uniqueIndex:idx_subject_career_cicle_name"`
	CicleNumber int       `json:"cicle_number" gorm:"not null;uniqueIndex:idx_subject_career_cicle_name"`
	CycleID     *int      `json:"cycle_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Career Career `json:"career,omitempty" gorm:"foreignKey:CareerID"`
	Cycle  *Cycle `json:"cycle,omitempty" gorm:"foreignKey:CycleID"`
}

func (Subject) TableName() string { return "subject" }
