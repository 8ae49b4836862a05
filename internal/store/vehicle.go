package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"katydid-vehicle-market/pkg/catalog"
	"katydid-vehicle-market/pkg/types"
	"katydid-vehicle-market/pkg/validator"
)

// 预置类别 ID
const (
	CategoryCar        int64 = 1
	CategoryMotorcycle int64 = 2
	CategoryTruck      int64 = 3
	CategoryElectroCar int64 = 4
)

// DefaultCategories 预置类别
var DefaultCategories = []Category{
	{ID: CategoryCar, Name: "Car", Description: "Passenger cars"},
	{ID: CategoryMotorcycle, Name: "Motorcycle", Description: "Motorcycles and scooters"},
	{ID: CategoryTruck, Name: "Truck", Description: "Trucks and commercial vehicles"},
	{ID: CategoryElectroCar, Name: "ElectroCar", Description: "Battery electric cars"},
}

// SeedCategories 写入预置类别，已存在的跳过
func (s *Store) SeedCategories(ctx context.Context) error {
	categories := append([]Category(nil), DefaultCategories...)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&categories).Error
	return translate(err, "seed categories")
}

// ListCategories 按 ID 列出类别
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, translate(err, "list categories")
	}
	return categories, nil
}

// ImportVehicles 把目录条目导入到指定类别，全部成功或全部回滚
// 没有车型的品牌条目跳过；已存在的 品牌-车型 不重复写入，返回新写入的数量
func (s *Store) ImportVehicles(ctx context.Context, categoryID int64, entries []catalog.Entry) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCategory(tx, categoryID); err != nil {
			return err
		}
		for _, e := range entries {
			if e.Model == "" {
				continue
			}
			if err := checkEntry(e); err != nil {
				return err
			}
			_, isNew, err := s.findOrCreateVehicle(tx, e.Maker, e.Model, categoryID, e.Types)
			if err != nil {
				return fmt.Errorf("import %s %s: %w", e.Maker, e.Model, err)
			}
			if isNew {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("vehicles imported", zap.Int64("category_id", categoryID),
		zap.Int("entries", len(entries)), zap.Int("created", created))
	return created, nil
}

// checkEntry 目录条目同样要满足广告中 maker/model 的字段规则
func checkEntry(e catalog.Entry) error {
	report := validator.NewReport("vehicle")
	if out := validator.ValidateMaker(e.Maker); !out.IsValid() {
		report.Add("maker", e.Maker, out.Reasons()...)
	}
	if out := validator.ValidateModel(e.Model); !out.IsValid() {
		report.Add("model", e.Model, out.Reasons()...)
	}
	if report.HasErrors() {
		return report
	}
	return nil
}

func requireCategory(tx *gorm.DB, id int64) error {
	var n int64
	if err := tx.Model(&Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err, "find category")
	}
	if n == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

func (s *Store) findOrCreateVehicle(tx *gorm.DB, maker, model string, categoryID int64, bodyTypes []string) (*Vehicle, bool, error) {
	var v Vehicle
	err := tx.Where("maker = ? AND model = ? AND category_id = ?", maker, model, categoryID).Take(&v).Error
	if err == nil {
		return &v, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, translate(err, "find vehicle")
	}

	id, err := s.nextID()
	if err != nil {
		return nil, false, err
	}
	v = Vehicle{ID: id, Maker: maker, Model: model, CategoryID: categoryID}
	if len(bodyTypes) > 0 {
		v.Attributes = types.NewExtras(1)
		v.Attributes.Set("types", bodyTypes)
	}
	if err := tx.Create(&v).Error; err != nil {
		return nil, false, translate(err, "create vehicle")
	}
	return &v, true, nil
}
