package store

import (
	"time"

	"katydid-vehicle-market/pkg/types"
)

// Address 地址表，address_hash 唯一用于去重
type Address struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Hash          string    `gorm:"column:address_hash;size:64;not null;uniqueIndex" json:"address_hash"`
	StreetAddress string    `gorm:"size:255;not null" json:"street_address"`
	City          string    `gorm:"size:40;not null" json:"city"`
	State         *string   `gorm:"size:40" json:"state,omitempty"`
	ZipCode       *string   `gorm:"size:5" json:"zip_code,omitempty"`
	Country       string    `gorm:"size:40;not null" json:"country"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// User 用户表，每个用户唯一对应一个地址
type User struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Username              string    `gorm:"size:20;not null;uniqueIndex" json:"username"`
	FirstName             string    `gorm:"size:20;not null" json:"first_name"`
	LastName              string    `gorm:"size:20;not null" json:"last_name"`
	EmailAddress          string    `gorm:"size:255;not null;uniqueIndex" json:"email_address"`
	MainPhoneNumber       string    `gorm:"size:20;not null;uniqueIndex" json:"main_phone_number"`
	AdditionalPhoneNumber *string   `gorm:"size:20" json:"additional_phone_number,omitempty"`
	Gender                string    `gorm:"size:7;not null" json:"gender"`
	AddressID             int64     `gorm:"not null;uniqueIndex" json:"address_id,string"`
	Address               *Address  `gorm:"constraint:OnDelete:RESTRICT" json:"address,omitempty"`
	RegisteredAt          time.Time `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Category 车辆类别
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Description string `gorm:"size:255;not null" json:"description"`
}

// Vehicle 品牌-车型，按 (maker, model, category_id) 唯一
type Vehicle struct {
	ID         int64        `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Maker      string       `gorm:"size:20;not null;uniqueIndex:idx_vehicle_identity" json:"maker"`
	Model      string       `gorm:"size:20;not null;uniqueIndex:idx_vehicle_identity" json:"model"`
	CategoryID int64        `gorm:"not null;uniqueIndex:idx_vehicle_identity" json:"category_id,string"`
	Category   *Category    `json:"category,omitempty"`
	Attributes types.Extras `json:"attributes,omitempty"`
}

// Advertisement 车辆广告
type Advertisement struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID    int64          `gorm:"not null;index" json:"user_id,string"`
	VehicleID int64          `gorm:"not null;index" json:"vehicle_id,string"`
	Vehicle   *Vehicle       `json:"vehicle,omitempty"`
	Status    types.AdStatus `gorm:"not null;default:0;index" json:"status"`

	Price       int64  `gorm:"not null" json:"price"`
	Condition   string `gorm:"column:condition_type;size:50;not null" json:"condition"`
	Used        bool   `gorm:"not null" json:"used"`
	Fuel        string `gorm:"size:20;not null" json:"fuel"`
	PowerOutput int64  `gorm:"not null" json:"power_output"`
	Gearbox     string `gorm:"size:20;not null" json:"gearbox"`
	Mileage     int64  `gorm:"not null" json:"mileage"`
	Color       string `gorm:"size:20;not null" json:"color"`
	VIN         string `gorm:"column:vin_number;size:17;not null;uniqueIndex" json:"vin_number"`

	PrimaryRegistration time.Time `gorm:"not null" json:"primary_registration"`
	ManufacturedDate    time.Time `gorm:"not null" json:"manufactured_date"`
	EngineVolume        float64   `gorm:"not null" json:"engine_volume"`
	AverageConsumption  *float64  `json:"average_consumption,omitempty"`

	BodyType         string `gorm:"size:255" json:"body_type"`
	WheelDrive       string `gorm:"size:255" json:"wheel_drive"`
	Description      string `gorm:"size:255" json:"description"`
	Interior         string `gorm:"size:255" json:"interior"`
	AudioVideoSystem string `gorm:"size:255" json:"audio_video_system"`
	WheelsDiscs      string `gorm:"size:255" json:"wheels_discs"`
	SafetyEquip      string `gorm:"size:255" json:"safety_equip"`
	Lights           string `gorm:"size:255" json:"lights"`
	ComfortEquip     string `gorm:"size:255" json:"comfort_equip"`
	MiscellEquip     string `gorm:"size:255" json:"miscell_equip"`
	MiscellInfo      string `gorm:"size:255" json:"miscell_info"`

	NumberOfSeats *int64 `json:"number_of_seats,omitempty"`
	NumberOfDoors *int64 `json:"number_of_doors,omitempty"`
	EmptyWeight   *int64 `json:"empty_weight,omitempty"`
	MaxWeight     *int64 `json:"max_weight,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SalesRecord 成交记录，每条广告最多一条
type SalesRecord struct {
	ID       int64     `gorm:"column:record_id;primaryKey;autoIncrement:false" json:"id,string"`
	SaleDate time.Time `gorm:"autoCreateTime" json:"sale_date"`
	SellerID int64     `gorm:"not null;index" json:"seller_id,string"`
	BuyerID  *int64    `gorm:"index" json:"buyer_id,omitempty,string"`
	AdID     int64     `gorm:"not null;uniqueIndex" json:"ad_id,string"`
}

func (SalesRecord) TableName() string { return "sales_records" }

// allModels 迁移顺序：被引用的表在前
var allModels = []any{
	&Address{},
	&User{},
	&Category{},
	&Vehicle{},
	&Advertisement{},
	&SalesRecord{},
}
