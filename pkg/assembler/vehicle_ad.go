package assembler

import (
	"katydid-vehicle-market/pkg/validator"
)

// 车辆广告草稿字段
const (
	FieldUserID              = "user_id"
	FieldCategoryID          = "category_id"
	FieldMaker               = "maker"
	FieldModel               = "model"
	FieldPrice               = "price"
	FieldPowerOutput         = "power_output"
	FieldMileage             = "mileage"
	FieldCondition           = "condition"
	FieldFuel                = "fuel"
	FieldGearbox             = "gearbox"
	FieldColor               = "color"
	FieldPrimaryRegistration = "primary_registration"
	FieldManufacturedDate    = "manufactured_date"
	FieldEngineVolume        = "engine_volume"
	FieldAverageConsumption  = "average_consumption"
	FieldVIN                 = "vin_number"
	FieldBodyType            = "body_type"
	FieldWheelDrive          = "wheel_drive"
	FieldDescription         = "description"
	FieldInterior            = "interior"
	FieldAudioVideoSystem    = "audio_video_system"
	FieldWheelsDiscs         = "wheels_discs"
	FieldSafetyEquip         = "safety_equip"
	FieldLights              = "lights"
	FieldComfortEquip        = "comfort_equip"
	FieldMiscellEquip        = "miscell_equip"
	FieldMiscellInfo         = "miscell_info"
	FieldNumberOfSeats       = "number_of_seats"
	FieldNumberOfDoors       = "number_of_doors"
	FieldEmptyWeight         = "empty_weight"
	FieldMaxWeight           = "max_weight"
)

// VehicleAdRequiredFields 必填字段，按声明顺序
// user_id、category_id、maker、model 通常由调用方（登录用户、品牌目录）提供，不在此列
var VehicleAdRequiredFields = []string{
	FieldPrice,
	FieldCondition,
	FieldFuel,
	FieldPowerOutput,
	FieldGearbox,
	FieldMileage,
	FieldColor,
	FieldPrimaryRegistration,
	FieldManufacturedDate,
	FieldEngineVolume,
	FieldVIN,
}

// VehicleAdOptionalFields 可选字段，按声明顺序
var VehicleAdOptionalFields = []string{
	FieldAverageConsumption,
	FieldBodyType,
	FieldWheelDrive,
	FieldDescription,
	FieldInterior,
	FieldAudioVideoSystem,
	FieldWheelsDiscs,
	FieldSafetyEquip,
	FieldLights,
	FieldComfortEquip,
	FieldMiscellEquip,
	FieldMiscellInfo,
	FieldNumberOfSeats,
	FieldNumberOfDoors,
	FieldEmptyWeight,
	FieldMaxWeight,
}

// AssembleVehicleAd 装配车辆广告
// 跨字段约束：manufactured_date 不能晚于 primary_registration；used 由 condition 推导
func AssembleVehicleAd(draft validator.Draft) validator.EntityOutcome[VehicleAd] {
	c := validator.NewCollector(EntityVehicleAd, draft)
	text := func(key string) string {
		return validator.OptionalOr(c, key, validator.ValidateText, validator.NotProvided)
	}

	ad := VehicleAd{
		UserID:     validator.Field(c, FieldUserID, validator.ValidateIdentifier),
		CategoryID: validator.Field(c, FieldCategoryID, validator.ValidateIdentifier),
		Maker:      validator.Field(c, FieldMaker, validator.ValidateMaker),
		Model:      validator.Field(c, FieldModel, validator.ValidateModel),

		Price:       validator.Field(c, FieldPrice, validator.ValidatePrice),
		Condition:   validator.Field(c, FieldCondition, validator.ValidateCondition),
		Fuel:        validator.Field(c, FieldFuel, validator.ValidateFuel),
		PowerOutput: validator.Field(c, FieldPowerOutput, validator.ValidatePowerOutput),
		Gearbox:     validator.Field(c, FieldGearbox, validator.ValidateGearbox),
		Mileage:     validator.Field(c, FieldMileage, validator.ValidateMileage),
		Color:       validator.Field(c, FieldColor, validator.ValidateColor),

		PrimaryRegistration: validator.Field(c, FieldPrimaryRegistration, validator.ValidateDate),
		ManufacturedDate:    validator.Field(c, FieldManufacturedDate, validator.ValidateDate),
		EngineVolume:        validator.Field(c, FieldEngineVolume, validator.ValidateEngineVolume),
		VIN:                 validator.Field(c, FieldVIN, validator.ValidateVIN),
		AverageConsumption:  validator.Optional(c, FieldAverageConsumption, validator.ValidateConsumption),

		BodyType:         text(FieldBodyType),
		WheelDrive:       text(FieldWheelDrive),
		Description:      text(FieldDescription),
		Interior:         text(FieldInterior),
		AudioVideoSystem: text(FieldAudioVideoSystem),
		WheelsDiscs:      text(FieldWheelsDiscs),
		SafetyEquip:      text(FieldSafetyEquip),
		Lights:           text(FieldLights),
		ComfortEquip:     text(FieldComfortEquip),
		MiscellEquip:     text(FieldMiscellEquip),
		MiscellInfo:      text(FieldMiscellInfo),

		NumberOfSeats: validator.Optional(c, FieldNumberOfSeats, validator.ValidateCount),
		NumberOfDoors: validator.Optional(c, FieldNumberOfDoors, validator.ValidateCount),
		EmptyWeight:   validator.Optional(c, FieldEmptyWeight, validator.ValidateCount),
		MaxWeight:     validator.Optional(c, FieldMaxWeight, validator.ValidateCount),
	}
	ad.Used = ad.Condition == validator.ConditionUsed

	if !c.Failed(FieldPrimaryRegistration) && !c.Failed(FieldManufacturedDate) &&
		ad.ManufacturedDate.After(ad.PrimaryRegistration) {
		raw, _ := c.Raw(FieldManufacturedDate)
		c.Fail(FieldManufacturedDate, raw, validator.NewReason(validator.CodeOutOfRange,
			FieldPrimaryRegistration, "must not be after primary_registration"))
	}

	if report := c.Finish(); report != nil {
		return validator.Reject[VehicleAd](report)
	}
	return validator.Accept(ad)
}
