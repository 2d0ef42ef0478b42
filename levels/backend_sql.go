package levels

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvEntry struct {
	Name      string    `gorm:"column:name;primaryKey;size:191;not null"`
	Value     []byte    `gorm:"column:value;type:longblob"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLBackend keeps blobs in a MySQL table.
type SQLBackend struct {
	db *gorm.DB
}

// OpenSQLBackend connects with a go-sql-driver DSN such as
// "user:pass@tcp(127.0.0.1:3306)/tilescape?parseTime=true".
func OpenSQLBackend(dsn string) (*SQLBackend, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("levels: open mysql: %w", err)
	}
	return NewSQLBackend(db)
}

// NewSQLBackend uses an existing connection and creates the table if needed.
func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("levels: migrate kv_entries: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

func (b *SQLBackend) Get(key string) ([]byte, bool, error) {
	var e kvEntry
	err := b.db.Where("name = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("levels: select %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (b *SQLBackend) Set(key string, value []byte) error {
	e := kvEntry{Name: key, Value: value, UpdatedAt: time.Now()}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("levels: upsert %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
