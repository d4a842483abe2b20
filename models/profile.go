package models

import (
	"time"
)

// The profiles database is the reference store: read-mostly denormalized
// copies of rows owned by the users and academic databases, plus the
// locally owned student/teacher profiles and enrollments. Reference rows
// share their id with the source-of-truth row; that shared id is the
// cross-database join key and is maintained by the sync code, never by a
// database-level foreign key.

// DefaultSubjectCapacity is assigned when a subject is first copied into
// the reference store. Later sync passes never touch capacity, so
// consumption already recorded by enrollments is preserved.
const DefaultSubjectCapacity = 30

const EnrollmentStatusEnrolled = "enrolled"

const (
	TeacherTypeFullTime = "FULL_TIME"
	TeacherTypePartTime = "PART_TIME"
)

type CareerReference struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string    `json:"name" gorm:"not null"`
	TotalCicles int       `json:"total_cicles" gorm:"default:10"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (CareerReference) TableName() string { return "career_reference" }

type SpecialityReference struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (SpecialityReference) TableName() string { return "speciality_reference" }

// SubjectReference mirrors an academic Subject and carries the remaining
// enrollment capacity ("cupos"). Capacity never goes below zero.
type SubjectReference struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string    `json:"name" gorm:"not null"`
	CareerID    int       `json:"career_id" gorm:"index"`
	CicleNumber int       `json:"cicle_number"`
	CycleID     *int      `json:"cycle_id,omitempty"`
	Capacity    int       `json:"capacity" gorm:"not null;default:30"`
	SyncedAt    time.Time `json:"synced_at"`
}

func (SubjectReference) TableName() string { return "subject_reference" }

// UserReference mirrors a User row; same id as the users database.
type UserReference struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Status    string    `json:"status" gorm:"default:'active'"`
	RoleID    int       `json:"role_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	StudentProfile *StudentProfile `json:"student_profile,omitempty" gorm:"foreignKey:UserID"`
	TeacherProfile *TeacherProfile `json:"teacher_profile,omitempty" gorm:"foreignKey:UserID"`
}

func (UserReference) TableName() string { return "user_reference" }

// StudentProfile is owned by the profiles database, created during
// student registration.
type StudentProfile struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	UserID       int       `json:"user_id" gorm:"uniqueIndex;not null"`
	CareerID     int       `json:"career_id" gorm:"not null;index"`
	CurrentCicle int       `json:"current_cicle" gorm:"default:1"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Career          *CareerReference `json:"career,omitempty" gorm:"foreignKey:CareerID"`
	StudentSubjects []StudentSubject `json:"student_subjects,omitempty" gorm:"foreignKey:StudentProfileID"`
}

func (StudentProfile) TableName() string { return "student_profile" }

type TeacherProfile struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	UserID       int       `json:"user_id" gorm:"uniqueIndex;not null"`
	SpecialityID int       `json:"speciality_id" gorm:"not null;index"`
	CareerID     int       `json:"career_id" gorm:"not null;index"`
	Type         string    `json:"type" gorm:"default:'FULL_TIME'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Speciality *SpecialityReference `json:"speciality,omitempty" gorm:"foreignKey:SpecialityID"`
	Career     *CareerReference     `json:"career,omitempty" gorm:"foreignKey:CareerID"`
	Subjects   []SubjectAssignment  `json:"subjects,omitempty" gorm:"foreignKey:TeacherProfileID"`
}

func (TeacherProfile) TableName() string { return "teacher_profile" }

// SubjectAssignment links a teacher profile to a subject it teaches.
type SubjectAssignment struct {
	ID               int       `json:"id" gorm:"primaryKey"`
	TeacherProfileID int       `json:"teacher_profile_id" gorm:"not null;uniqueIndex:idx_assignment_teacher_subject"`
	SubjectID        int       `json:"subject_id" gorm:"not null;uniqueIndex:idx_assignment_teacher_subject"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`

	Subject *SubjectReference `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (SubjectAssignment) TableName() string { return "subject_assignment" }

// StudentSubject is one enrollment. The unique (student profile, subject)
// pair is what turns duplicate enrollments into conflicts, and every row
// implies exactly one capacity decrement on its SubjectReference.
type StudentSubject struct {
	ID               int       `json:"id" gorm:"primaryKey"`
	StudentProfileID int       `json:"student_profile_id" gorm:"not null;uniqueIndex:idx_enrollment_student_subject"`
	SubjectID        int       `json:"subject_id" gorm:"not null;uniqueIndex:idx_enrollment_student_subject"`
	Status           string    `json:"status" gorm:"default:'enrolled'"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	StudentProfile *StudentProfile   `json:"student_profile,omitempty" gorm:"foreignKey:StudentProfileID"`
	Subject        *SubjectReference `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (StudentSubject) TableName() string { return "student_subject" }
