package validator

import "fmt"

// dispatch FieldKind -> 校验函数
var dispatch = map[FieldKind]func(raw any) Outcome[any]{
	KindName:          erased(ValidateName),
	KindUsername:      erased(ValidateUsername),
	KindEmail:         erased(ValidateEmail),
	KindPhoneNumber:   erased(ValidatePhoneNumber),
	KindGender:        erased(ValidateGender),
	KindStreetAddress: erased(ValidateStreetAddress),
	KindState:         erased(ValidateState),
	KindZipCode:       erased(ValidateZipCode),
	KindCity:          erased(ValidateCity),
	KindCountry:       erased(ValidateCountry),
	KindMaker:         erased(ValidateMaker),
	KindModel:         erased(ValidateModel),
	KindPrice:         erased(ValidatePrice),
	KindPowerOutput:   erased(ValidatePowerOutput),
	KindMileage:       erased(ValidateMileage),
	KindCondition:     erased(ValidateCondition),
	KindFuel:          erased(ValidateFuel),
	KindGearbox:       erased(ValidateGearbox),
	KindColor:         erased(ValidateColor),
	KindVIN:           erased(ValidateVIN),
	KindEngineVolume:  erased(ValidateEngineVolume),
	KindConsumption:   erased(ValidateConsumption),
	KindDate:          erased(ValidateDate),
	KindIdentifier:    erased(ValidateIdentifier),
	KindText:          erased(ValidateText),
	KindCount:         erased(ValidateCount),
}

func erased[T any](fn func(any) Outcome[T]) func(any) Outcome[any] {
	return func(raw any) Outcome[any] {
		return Erase(fn(raw))
	}
}

// Validate 按类别分发校验
// 未登记的 FieldKind 属于调用方的编程错误，立即 panic
func Validate(kind FieldKind, raw any) Outcome[any] {
	if !kind.Known() {
		panic(fmt.Sprintf("validator: unknown field kind %s", kind))
	}
	fn, ok := dispatch[kind]
	if !ok {
		panic(fmt.Sprintf("validator: field kind %s has no validator", kind))
	}
	return fn(raw)
}
