package prompt

import (
	"strings"

	"katydid-vehicle-market/pkg/assembler"
)

// UserForm 用户录入表单
func UserForm() []Field {
	return form(assembler.UserFields, assembler.FieldAdditionalPhoneNumber)
}

// AddressForm 地址录入表单
func AddressForm() []Field {
	return form(assembler.AddressFields, assembler.FieldState, assembler.FieldZipCode)
}

// VehicleAdForm 广告录入表单，不含 user_id、category_id、maker、model
func VehicleAdForm() []Field {
	keys := append(append([]string(nil), assembler.VehicleAdRequiredFields...), assembler.VehicleAdOptionalFields...)
	return form(keys, assembler.VehicleAdOptionalFields...)
}

func form(keys []string, optional ...string) []Field {
	opt := make(map[string]bool, len(optional))
	for _, k := range optional {
		opt[k] = true
	}
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, Field{Key: k, Label: label(k), Optional: opt[k]})
	}
	return fields
}

// label vin_number -> "Vin number"
func label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
