package xormstore

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/go-xorm/xorm"
	"go.uber.org/zap"
	"xorm.io/core"
)

// NewEngine opens the MySQL engine and syncs the schema. xorm v0.7 has no
// context plumbing, so repository methods accept a context for interface
// symmetry but cannot propagate deadlines into the driver.
func NewEngine(host string, port int, user, password, dbname string, showSQL bool, logger *zap.SugaredLogger) (*xorm.Engine, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	engine, err := xorm.NewEngine("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql engine: %w", err)
	}

	engine.SetColumnMapper(core.SnakeMapper{})
	engine.ShowSQL(showSQL)

	if err := engine.Sync2(new(userRow), new(messageRow), new(notificationRow)); err != nil {
		return nil, fmt.Errorf("failed to sync schema: %w", err)
	}

	if err := engine.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	if logger != nil {
		logger.Infow("connected to mysql",
			"host", host,
			"port", port,
			"database", dbname,
		)
	}
	return engine, nil
}
