package validator

import "fmt"

// FieldKind 字段语义类别，每个类别对应唯一一套校验规则
// 闭合枚举：新增类别必须同时在 kindNames 和 Validate 分发表中登记
type FieldKind int

const (
	KindName FieldKind = iota + 1 // 名/姓
	KindUsername
	KindEmail
	KindPhoneNumber
	KindGender
	KindStreetAddress
	KindState
	KindZipCode
	KindCity
	KindCountry

	// 车辆广告字段
	KindMaker
	KindModel
	KindPrice
	KindPowerOutput
	KindMileage
	KindCondition
	KindFuel
	KindGearbox
	KindColor
	KindVIN
	KindEngineVolume
	KindConsumption
	KindDate
	KindIdentifier
	KindText
	KindCount
)

var kindNames = map[FieldKind]string{
	KindName:          "name",
	KindUsername:      "username",
	KindEmail:         "email",
	KindPhoneNumber:   "phone_number",
	KindGender:        "gender",
	KindStreetAddress: "street_address",
	KindState:         "state",
	KindZipCode:       "zip_code",
	KindCity:          "city",
	KindCountry:       "country",
	KindMaker:         "maker",
	KindModel:         "model",
	KindPrice:         "price",
	KindPowerOutput:   "power_output",
	KindMileage:       "mileage",
	KindCondition:     "condition",
	KindFuel:          "fuel",
	KindGearbox:       "gearbox",
	KindColor:         "color",
	KindVIN:           "vin",
	KindEngineVolume:  "engine_volume",
	KindConsumption:   "consumption",
	KindDate:          "date",
	KindIdentifier:    "identifier",
	KindText:          "text",
	KindCount:         "count",
}

// String 返回类别的蛇形名称，未知类别返回 kind(N)
func (k FieldKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Known 是否为已登记的类别
func (k FieldKind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseFieldKind 按名称解析类别（用于 API 路径参数与 CLI 参数）
func ParseFieldKind(name string) (FieldKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds 返回全部已登记类别，按枚举顺序
func Kinds() []FieldKind {
	kinds := make([]FieldKind, 0, len(kindNames))
	for k := KindName; k <= KindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
