package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/logger"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings *conf.Settings
}

// dsn builds the connection string; the password is never logged
func (store *MySQLStore) dsn() string {
	m := &store.Settings.Output.MySQL
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.Username, m.Password, m.Host, m.Port, m.Database)
}

// Open connects to the configured MySQL server
func (store *MySQLStore) Open() error {
	m := &store.Settings.Output.MySQL
	db, err := gorm.Open(mysql.Open(store.dsn()), store.gormConfig())
	if err != nil {
		store.log().Error("failed to open MySQL database",
			logger.String("host", m.Host),
			logger.String("port", m.Port),
			logger.String("database", m.Database),
			logger.Error(err))
		return dbError(fmt.Errorf("failed to open MySQL database: %w", err), "open")
	}

	store.DB = db
	return performAutoMigration(db, store.log(), "MySQL", fmt.Sprintf("%s:%s/%s", m.Host, m.Port, m.Database))
}
