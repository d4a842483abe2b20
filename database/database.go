package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connections bundles the three database handles the system runs on.
// Users and Academic are sources of truth; Profiles is the reference
// store. There is no cross-database transaction support — only the
// enrollment path needs atomicity, and it lives entirely in Profiles.
type Connections struct {
	Users    *gorm.DB
	Academic *gorm.DB
	Profiles *gorm.DB
}

// Connect opens one GORM connection per DSN. The DSNs come straight from
// the environment (DATABASE_URL_USERS / _ACADEMIC / _PROFILES).
func Connect(usersDSN, academicDSN, profilesDSN string) (*Connections, error) {
	users, err := open(usersDSN)
	if err != nil {
		return nil, fmt.Errorf("users db: %w", err)
	}
	academic, err := open(academicDSN)
	if err != nil {
		return nil, fmt.Errorf("academic db: %w", err)
	}
	profiles, err := open(profilesDSN)
	if err != nil {
		return nil, fmt.Errorf("profiles db: %w", err)
	}
	return &Connections{Users: users, Academic: academic, Profiles: profiles}, nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // plays well with transaction-pooling proxies
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	tunePool(db)
	return db, nil
}

func tunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}
