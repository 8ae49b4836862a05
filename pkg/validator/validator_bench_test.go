package validator

import (
	"testing"
)

// BenchmarkValidateName 名字校验（标点、数字两次扫描）
func BenchmarkValidateName(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateName("Jade")
	}
}

// BenchmarkValidateUsername 用户名校验
func BenchmarkValidateUsername(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateUsername("jadesmith2024")
	}
}

// BenchmarkValidateEmail 邮箱正则匹配
func BenchmarkValidateEmail(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateEmail("utEeMFTeli@yahoo.com")
	}
}

// BenchmarkValidatePhoneNumber 电话号码解析，开销主要在 phonenumbers
func BenchmarkValidatePhoneNumber(b *testing.B) {
	numbers := []string{"+380501234567", "+37255123456", "+37121234567", "+37067673346"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ValidatePhoneNumber(numbers[i%len(numbers)])
	}
}

// BenchmarkValidateGender 枚举校验
func BenchmarkValidateGender(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateGender("unknown")
	}
}

// BenchmarkValidateZipCode 邮编校验
func BenchmarkValidateZipCode(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateZipCode("10001")
	}
}

// BenchmarkValidate_Invalid 多条规则同时失败时的原因收集
func BenchmarkValidate_Invalid(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ValidateName("Jade-2024-the-first-of-her-name")
	}
}

// BenchmarkValidate_Dispatch 按类别分发
func BenchmarkValidate_Dispatch(b *testing.B) {
	kinds := Kinds()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Validate(kinds[i%len(kinds)], "42")
	}
}

// BenchmarkCollector_User 整个用户草稿的收集流程
func BenchmarkCollector_User(b *testing.B) {
	draft := Draft{
		"username":          "jadesmith",
		"first_name":        "Jade",
		"last_name":         "Smith",
		"email_address":     "jade@example.com",
		"main_phone_number": "+37067673346",
		"gender":            "female",
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCollector("user", draft)
		Field(c, "username", ValidateUsername)
		Field(c, "first_name", ValidateName)
		Field(c, "last_name", ValidateName)
		Field(c, "email_address", ValidateEmail)
		Field(c, "main_phone_number", ValidatePhoneNumber)
		Field(c, "gender", ValidateGender)
		_ = c.Finish()
	}
}

// BenchmarkReport_Error 错误格式化性能（字符串构建器池）
func BenchmarkReport_Error(b *testing.B) {
	c := NewCollector("user", Draft{"username": "a!", "first_name": "J4de", "email_address": "x", "extra": 1})
	Field(c, "username", ValidateUsername)
	Field(c, "first_name", ValidateName)
	Field(c, "email_address", ValidateEmail)
	report := c.Finish()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = report.Error()
	}
}
