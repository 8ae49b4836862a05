// Package assembler 把实体草稿装配为已校验实体
//
// 每个装配器对草稿的所有字段执行对应的字段校验，收集全部失败原因后再决定接受或拒绝，
// 然后检查跨字段约束。装配器是纯函数：无 I/O、无全局可变状态，可并发调用。
package assembler

import "time"

// 实体名，用于 validator.Report.Entity
const (
	EntityUser      = "user"
	EntityAddress   = "address"
	EntityVehicleAd = "vehicle_ad"
	EntitySale      = "sale"
)

// User 已校验的用户
type User struct {
	Username              string  `json:"username"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	EmailAddress          string  `json:"email_address"`
	MainPhoneNumber       string  `json:"main_phone_number"`
	AdditionalPhoneNumber *string `json:"additional_phone_number,omitempty"`
	Gender                string  `json:"gender"`
}

// Address 已校验的地址
// Hash 总是由装配器重新计算，调用方提供的值只用于比对
type Address struct {
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`
	Country       string  `json:"country"`
	Hash          string  `json:"address_hash"`
}

// VehicleAd 已校验的车辆广告
type VehicleAd struct {
	UserID     int64  `json:"user_id"`
	CategoryID int64  `json:"category_id"`
	Maker      string `json:"maker"`
	Model      string `json:"model"`

	Price       int64  `json:"price"`
	PowerOutput int64  `json:"power_output"`
	Mileage     int64  `json:"mileage"`
	Condition   string `json:"condition"`
	Used        bool   `json:"used"`
	Fuel        string `json:"fuel"`
	Gearbox     string `json:"gearbox"`
	Color       string `json:"color"`
	VIN         string `json:"vin_number"`

	PrimaryRegistration time.Time `json:"primary_registration"`
	ManufacturedDate    time.Time `json:"manufactured_date"`
	EngineVolume        float64   `json:"engine_volume"`
	AverageConsumption  *float64  `json:"average_consumption,omitempty"`

	// 可选描述，未提供时为 validator.NotProvided
	BodyType         string `json:"body_type"`
	WheelDrive       string `json:"wheel_drive"`
	Description      string `json:"description"`
	Interior         string `json:"interior"`
	AudioVideoSystem string `json:"audio_video_system"`
	WheelsDiscs      string `json:"wheels_discs"`
	SafetyEquip      string `json:"safety_equip"`
	Lights           string `json:"lights"`
	ComfortEquip     string `json:"comfort_equip"`
	MiscellEquip     string `json:"miscell_equip"`
	MiscellInfo      string `json:"miscell_info"`

	NumberOfSeats *int64 `json:"number_of_seats,omitempty"`
	NumberOfDoors *int64 `json:"number_of_doors,omitempty"`
	EmptyWeight   *int64 `json:"empty_weight,omitempty"`
	MaxWeight     *int64 `json:"max_weight,omitempty"`
}

// Sale 已校验的成交记录
type Sale struct {
	SellerID int64  `json:"seller_id"`
	BuyerID  *int64 `json:"buyer_id,omitempty"`
	AdID     int64  `json:"ad_id"`
}
