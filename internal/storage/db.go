package storage

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRecord is one durable key-value row.
type ClientRecord struct {
	Scope     string         `gorm:"type:varchar(64);primaryKey"`
	Key       string         `gorm:"column:record_key;type:varchar(64);primaryKey"`
	Value     datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time      `gorm:"type:datetime(3);not null"`
}

func (ClientRecord) TableName() string { return "client_records" }

// DBTier is the durable tier backed by a SQL database through gorm.
type DBTier struct {
	db *gorm.DB
}

func NewDBTier(db *gorm.DB) *DBTier { return &DBTier{db: db} }

// Migrate creates the client_records table if needed.
func (t *DBTier) Migrate(ctx context.Context) error {
	return t.db.WithContext(ctx).AutoMigrate(&ClientRecord{})
}

func (t *DBTier) Name() string { return "db" }

func (t *DBTier) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	if err := checkScope(scope, key); err != nil {
		return nil, false, err
	}
	var rows []ClientRecord
	err := t.db.WithContext(ctx).
		Where("scope = ? AND record_key = ?", scope, key).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return []byte(rows[0].Value), true, nil
}

func (t *DBTier) Put(ctx context.Context, scope, key string, value []byte) error {
	if err := checkScope(scope, key); err != nil {
		return err
	}
	rec := ClientRecord{
		Scope:     scope,
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	return withRetry(ctx, 3, func() error {
		return t.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "scope"}, {Name: "record_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(&rec).Error
	})
}

func (t *DBTier) Delete(ctx context.Context, scope, key string) error {
	if err := checkScope(scope, key); err != nil {
		return err
	}
	return withRetry(ctx, 3, func() error {
		return t.db.WithContext(ctx).
			Where("scope = ? AND record_key = ?", scope, key).
			Delete(&ClientRecord{}).Error
	})
}

// --- retry helpers (deadlock/lock timeout) ---

func withRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryableMySQLError(err) || i == attempts-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(50*(i+1)) * time.Millisecond):
		}
	}
	return lastErr
}

func isRetryableMySQLError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1213: deadlock found; 1205: lock wait timeout
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
