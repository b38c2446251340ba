// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/logger"
)

// slowQueryThreshold is where the gorm adapter starts warning
const slowQueryThreshold = 200 * time.Millisecond

// Interface abstracts the underlying database implementation and defines the interface for database operations.
type Interface interface {
	Open() error
	Save(ctx context.Context, r *Reduction) error
	Latest(ctx context.Context, fileBase string) (*Reduction, error)
	List(ctx context.Context, band string, limit int) ([]Reduction, error)
	Close() error
}

// DataStore implements the shared queries on a GORM database.
type DataStore struct {
	DB     *gorm.DB // GORM database instance
	Logger logger.Logger
}

// New creates the configured store, or nil when no database output is
// enabled. SQLite wins when both are enabled.
func New(settings *conf.Settings, log logger.Logger) Interface {
	ds := DataStore{Logger: log}
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{DataStore: ds, Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{DataStore: ds, Settings: settings}
	default:
		return nil
	}
}

func (ds *DataStore) log() logger.Logger {
	if ds.Logger == nil {
		ds.Logger = logger.NewSlogLogger(nil, logger.LogLevelError, nil).Module("datastore")
	}
	return ds.Logger
}

func (ds *DataStore) gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.NewGormLoggerAdapter(ds.log(), slowQueryThreshold)}
}

func dbError(err error, op string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", op).
		Build()
}

func (ds *DataStore) ready() error {
	if ds.DB == nil {
		return dbError(fmt.Errorf("database connection is not initialized"), "check")
	}
	return nil
}

// Save inserts one reduction
func (ds *DataStore) Save(ctx context.Context, r *Reduction) error {
	if err := ds.ready(); err != nil {
		return err
	}
	if err := ds.DB.WithContext(ctx).Create(r).Error; err != nil {
		return dbError(fmt.Errorf("failed to save reduction %s: %w", r.FileBase, err), "save")
	}
	ds.log().Debug("reduction saved",
		logger.String("file", r.FileBase),
		logger.String("run_id", r.RunID))
	return nil
}

// Latest returns the most recent reduction of a log file
func (ds *DataStore) Latest(ctx context.Context, fileBase string) (*Reduction, error) {
	if err := ds.ready(); err != nil {
		return nil, err
	}
	var r Reduction
	err := ds.DB.WithContext(ctx).
		Where("file_base = ?", fileBase).
		Order("created_at DESC").Order("id DESC").
		First(&r).Error
	if err != nil {
		return nil, dbError(fmt.Errorf("failed to get latest reduction of %s: %w", fileBase, err), "latest")
	}
	return &r, nil
}

// List returns reductions of a band, newest first. A limit <= 0 returns all.
func (ds *DataStore) List(ctx context.Context, band string, limit int) ([]Reduction, error) {
	if err := ds.ready(); err != nil {
		return nil, err
	}
	q := ds.DB.WithContext(ctx).Where("band = ?", band).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Reduction
	if err := q.Find(&out).Error; err != nil {
		return nil, dbError(fmt.Errorf("failed to list %s reductions: %w", band, err), "list")
	}
	return out, nil
}

// Close releases the underlying connection pool
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(fmt.Errorf("failed to retrieve generic DB object: %w", err), "close")
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(fmt.Errorf("failed to close database: %w", err), "close")
	}
	ds.DB = nil
	return nil
}

// performAutoMigration creates or updates the reductions table
func performAutoMigration(db *gorm.DB, log logger.Logger, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Reduction{}); err != nil {
		return dbError(fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err), "migrate")
	}
	log.Debug("database initialized",
		logger.String("db_type", dbType),
		logger.String("connection", connectionInfo))
	return nil
}
