package validator

import (
	"strings"
	"time"
)

const (
	conditionOneOf = "New Used"
	fuelOneOf      = "Petrol Diesel Electric Hybrid LPG"

	// ConditionUsed 二手车况
	ConditionUsed = "Used"
	// NotProvided 可选描述字段缺省值
	NotProvided = "Not provided"
)

// earliestVehicleDate 最早允许的车辆日期
var earliestVehicleDate = time.Date(1886, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	shortTextRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=20", CodeTooLong, "20", "must be at most %d characters", 20),
	}

	conditionRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("oneof="+conditionOneOf, CodeNotInEnumeration, conditionOneOf, "must be one of: %s", conditionOneOf),
	}

	fuelRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("oneof="+fuelOneOf, CodeNotInEnumeration, fuelOneOf, "must be one of: %s", fuelOneOf),
	}

	vinRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("vin", CodePatternMismatch, "", "must be 17 characters of A-Z and 0-9 without I, O and Q"),
	}

	textRules = []rule{
		newRule("max=255", CodeTooLong, "255", "must be at most %d characters", 255),
	}

	nonNegativeRules = []rule{
		newRule("gte=0", CodeOutOfRange, "0", "must not be negative"),
	}

	positiveRules = []rule{
		newRule("gt=0", CodeOutOfRange, "0", "must be greater than zero"),
	}
)

// ValidateMaker 厂商：非空、不超过 20 字符
func ValidateMaker(raw any) Outcome[string] {
	return Default().validateString(raw, shortTextRules, nil)
}

// ValidateModel 车型：非空、不超过 20 字符
func ValidateModel(raw any) Outcome[string] {
	return Default().validateString(raw, shortTextRules, nil)
}

// ValidateGearbox 变速箱：非空、不超过 20 字符
func ValidateGearbox(raw any) Outcome[string] {
	return Default().validateString(raw, shortTextRules, nil)
}

// ValidateColor 颜色：非空、不超过 20 字符
func ValidateColor(raw any) Outcome[string] {
	return Default().validateString(raw, shortTextRules, nil)
}

// ValidateCondition 车况：New 或 Used
func ValidateCondition(raw any) Outcome[string] {
	return Default().validateString(raw, conditionRules, nil)
}

// ValidateFuel 燃料类型
func ValidateFuel(raw any) Outcome[string] {
	return Default().validateString(raw, fuelRules, nil)
}

// ValidateVIN 车架号，规范化为大写
func ValidateVIN(raw any) Outcome[string] {
	return Default().validateString(raw, vinRules, strings.ToUpper)
}

// ValidateText 可选描述文本：不超过 255 字符，允许为空串
func ValidateText(raw any) Outcome[string] {
	return Default().validateString(raw, textRules, nil)
}

// ValidatePrice 价格（欧元）：非负整数
func ValidatePrice(raw any) Outcome[int64] {
	return Default().validateInt(raw, nonNegativeRules)
}

// ValidatePowerOutput 功率（kW）：非负整数
func ValidatePowerOutput(raw any) Outcome[int64] {
	return Default().validateInt(raw, nonNegativeRules)
}

// ValidateMileage 里程：非负整数
func ValidateMileage(raw any) Outcome[int64] {
	return Default().validateInt(raw, nonNegativeRules)
}

// ValidateIdentifier 实体 ID：正整数
func ValidateIdentifier(raw any) Outcome[int64] {
	return Default().validateInt(raw, positiveRules)
}

// ValidateCount 座位数、车门数、重量等：正整数
func ValidateCount(raw any) Outcome[int64] {
	return Default().validateInt(raw, positiveRules)
}

// ValidateEngineVolume 排量：正数
func ValidateEngineVolume(raw any) Outcome[float64] {
	return Default().validateFloat(raw, positiveRules)
}

// ValidateConsumption 平均油耗：正数
func ValidateConsumption(raw any) Outcome[float64] {
	return Default().validateFloat(raw, positiveRules)
}

// ValidateDate 日期：可解析且不早于 1886 年
func ValidateDate(raw any) Outcome[time.Time] {
	t, reason, ok := asTime(raw)
	if !ok {
		return Invalid[time.Time](reason)
	}
	if t.Before(earliestVehicleDate) {
		return Invalid[time.Time](NewReason(CodeOutOfRange, "1886-01-01", "must not be before 1886-01-01"))
	}
	return Valid(t)
}
