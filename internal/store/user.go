package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"katydid-vehicle-market/pkg/assembler"
)

// CreateUser 在一个事务内写入地址和用户
// 地址按指纹去重：已存在且未被占用时复用，已被其他用户占用时返回 ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, u assembler.User, a assembler.Address) (*User, error) {
	var created *User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addr, err := s.findOrCreateAddress(tx, a)
		if err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&User{}).Where("address_id = ?", addr.ID).Count(&taken).Error; err != nil {
			return translate(err, "count address owners")
		}
		if taken > 0 {
			return fmt.Errorf("%w: address already belongs to another user", ErrDuplicate)
		}

		id, err := s.nextID()
		if err != nil {
			return err
		}
		user := &User{
			ID:                    id,
			Username:              u.Username,
			FirstName:             u.FirstName,
			LastName:              u.LastName,
			EmailAddress:          u.EmailAddress,
			MainPhoneNumber:       u.MainPhoneNumber,
			AdditionalPhoneNumber: u.AdditionalPhoneNumber,
			Gender:                u.Gender,
			AddressID:             addr.ID,
		}
		if err := tx.Create(user).Error; err != nil {
			return translate(err, "create user")
		}
		user.Address = addr
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.Int64("user_id", created.ID), zap.Int64("address_id", created.AddressID))
	return created, nil
}

func (s *Store) findOrCreateAddress(tx *gorm.DB, a assembler.Address) (*Address, error) {
	var existing Address
	err := tx.Where("address_hash = ?", a.Hash).Take(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, "find address")
	}

	id, err := s.nextID()
	if err != nil {
		return nil, err
	}
	addr := &Address{
		ID:            id,
		Hash:          a.Hash,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		ZipCode:       a.ZipCode,
		Country:       a.Country,
	}
	if err := tx.Create(addr).Error; err != nil {
		return nil, translate(err, "create address")
	}
	return addr, nil
}

// GetUser 按 ID 获取用户及其地址
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Address").Take(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %d", id))
	}
	return &user, nil
}
