package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"katydid-vehicle-market/pkg/assembler"
	"katydid-vehicle-market/pkg/types"
)

// 列表分页上限
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateAdvertisement 写入广告，品牌-车型不存在时在同一事务内创建
func (s *Store) CreateAdvertisement(ctx context.Context, ad assembler.VehicleAd) (*Advertisement, error) {
	var created *Advertisement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&User{}).Where("id = ?", ad.UserID).Count(&owners).Error; err != nil {
			return translate(err, "find user")
		}
		if owners == 0 {
			return fmt.Errorf("%w: user %d", ErrNotFound, ad.UserID)
		}
		if err := requireCategory(tx, ad.CategoryID); err != nil {
			return err
		}

		vehicle, _, err := s.findOrCreateVehicle(tx, ad.Maker, ad.Model, ad.CategoryID, nil)
		if err != nil {
			return err
		}

		id, err := s.nextID()
		if err != nil {
			return err
		}
		row := newAdvertisement(id, vehicle.ID, ad)
		if err := tx.Create(row).Error; err != nil {
			return translate(err, "create advertisement")
		}
		row.Vehicle = vehicle
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("advertisement created", zap.Int64("ad_id", created.ID),
		zap.Int64("user_id", created.UserID), zap.String("vin", created.VIN))
	return created, nil
}

func newAdvertisement(id, vehicleID int64, ad assembler.VehicleAd) *Advertisement {
	return &Advertisement{
		ID:                  id,
		UserID:              ad.UserID,
		VehicleID:           vehicleID,
		Status:              types.AdStatusNone,
		Price:               ad.Price,
		Condition:           ad.Condition,
		Used:                ad.Used,
		Fuel:                ad.Fuel,
		PowerOutput:         ad.PowerOutput,
		Gearbox:             ad.Gearbox,
		Mileage:             ad.Mileage,
		Color:               ad.Color,
		VIN:                 ad.VIN,
		PrimaryRegistration: ad.PrimaryRegistration,
		ManufacturedDate:    ad.ManufacturedDate,
		EngineVolume:        ad.EngineVolume,
		AverageConsumption:  ad.AverageConsumption,
		BodyType:            ad.BodyType,
		WheelDrive:          ad.WheelDrive,
		Description:         ad.Description,
		Interior:            ad.Interior,
		AudioVideoSystem:    ad.AudioVideoSystem,
		WheelsDiscs:         ad.WheelsDiscs,
		SafetyEquip:         ad.SafetyEquip,
		Lights:              ad.Lights,
		ComfortEquip:        ad.ComfortEquip,
		MiscellEquip:        ad.MiscellEquip,
		MiscellInfo:         ad.MiscellInfo,
		NumberOfSeats:       ad.NumberOfSeats,
		NumberOfDoors:       ad.NumberOfDoors,
		EmptyWeight:         ad.EmptyWeight,
		MaxWeight:           ad.MaxWeight,
	}
}

// GetAdvertisement 按 ID 获取广告（含品牌-车型），不过滤状态
func (s *Store) GetAdvertisement(ctx context.Context, id int64) (*Advertisement, error) {
	var ad Advertisement
	err := s.db.WithContext(ctx).Preload("Vehicle").Take(&ad, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("advertisement %d", id))
	}
	return &ad, nil
}

// ListAdvertisements 公开列表：只含在售且未隐藏的广告，新发布的在前
func (s *Store) ListAdvertisements(ctx context.Context, limit, offset int) ([]Advertisement, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var ads []Advertisement
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Where("status & ? = 0", int64(types.AdStatusUnlisted)).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&ads).Error
	if err != nil {
		return nil, translate(err, "list advertisements")
	}
	return ads, nil
}

// RecordSale 记录成交：广告标记为 已成交+已下架，并写入成交记录
// 卖家必须是广告发布者；重复成交返回 ErrAlreadySold
func (s *Store) RecordSale(ctx context.Context, sale assembler.Sale) (*SalesRecord, error) {
	var record *SalesRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ad Advertisement
		if err := tx.Take(&ad, "id = ?", sale.AdID).Error; err != nil {
			return translate(err, fmt.Sprintf("advertisement %d", sale.AdID))
		}
		if ad.UserID != sale.SellerID {
			return fmt.Errorf("%w: advertisement %d", ErrSellerMismatch, ad.ID)
		}
		if ad.Status.IsSold() {
			return fmt.Errorf("%w: advertisement %d", ErrAlreadySold, ad.ID)
		}
		if !ad.Status.CanSell() {
			return fmt.Errorf("%w: advertisement %d is %s", ErrNotForSale, ad.ID, ad.Status)
		}

		next := ad.Status
		next.Set(types.AdStatusSold, types.AdStatusDiscontinued)
		res := tx.Model(&Advertisement{}).
			Where("id = ? AND status = ?", ad.ID, ad.Status).
			Update("status", next)
		if res.Error != nil {
			return translate(res.Error, "mark advertisement sold")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: advertisement %d", ErrAlreadySold, ad.ID)
		}

		id, err := s.nextID()
		if err != nil {
			return err
		}
		record = &SalesRecord{ID: id, SellerID: sale.SellerID, BuyerID: sale.BuyerID, AdID: sale.AdID}
		if err := tx.Create(record).Error; err != nil {
			err = translate(err, "create sales record")
			if errors.Is(err, ErrDuplicate) {
				return fmt.Errorf("%w: advertisement %d", ErrAlreadySold, ad.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("advertisement sold", zap.Int64("ad_id", record.AdID), zap.Int64("record_id", record.ID))
	return record, nil
}
