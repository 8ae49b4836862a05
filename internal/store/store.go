// Package store 持久化适配器
//
// 只接受装配器产出的已校验实体，不再做字段级校验；
// 唯一性（用户名、邮箱、主电话、VIN、地址指纹）由数据库约束兜底，冲突统一映射为 ErrDuplicate。
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/internal/logger"
	"katydid-vehicle-market/pkg/idgen"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("store: duplicate")
	// ErrAlreadySold 广告已成交
	ErrAlreadySold = errors.New("store: advertisement already sold")
	// ErrNotForSale 广告已下架或被封禁
	ErrNotForSale = errors.New("store: advertisement is not for sale")
	// ErrSellerMismatch 卖家不是广告发布者
	ErrSellerMismatch = errors.New("store: seller does not own the advertisement")
)

// Store 基于 gorm 的持久化实现，并发安全
type Store struct {
	db  *gorm.DB
	ids idgen.Generator
	log *zap.Logger
}

// Open 按配置连接数据库
func Open(cfg config.DatabaseConfig, logCfg config.LogConfig, log *zap.Logger, ids idgen.Generator) (*Store, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logCfg.SlowQuery),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite 只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return New(db, log, ids), nil
}

// New 使用已有连接创建 Store
func New(db *gorm.DB, log *zap.Logger, ids idgen.Generator) *Store {
	return &Store{db: db, ids: ids, log: log.Named("store")}
}

// DB 底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close 关闭连接池
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 检查数据库连通性
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate 创建或更新表结构
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *Store) nextID() (int64, error) {
	id, err := s.ids.NextID()
	if err != nil {
		return 0, fmt.Errorf("store: generate id: %w", err)
	}
	return id, nil
}

// translate 把驱动错误映射为包内哨兵错误
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrDuplicate, what, err)
	default:
		return fmt.Errorf("store: %s: %w", what, err)
	}
}

// isUniqueViolation 驱动未实现错误翻译时按消息识别
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
