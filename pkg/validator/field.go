package validator

// 用户与地址字段的规则集
// 同一类别只有一套规则，历史上各处重复且互相矛盾的版本统一为以下定义
var (
	nameRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=20", CodeTooLong, "20", "must be at most %d characters", 20),
		newRule("nopunct", CodePatternMismatch, "", "must not contain punctuation"),
		newRule("nodigit", CodePatternMismatch, "", "must not contain digits"),
	}

	// 纯空白用户名没有可用字符，与空串一样按 TooShort 报告
	usernameRules = []rule{
		newRule("min=6,notblank", CodeTooShort, "6", "must be at least %d characters", 6),
		newRule("max=20", CodeTooLong, "20", "must be at most %d characters", 20),
		newRule("nopunct", CodePatternMismatch, "", "must not contain punctuation"),
	}

	emailRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=255", CodeTooLong, "255", "must be at most %d characters", 255),
		newRule("strict_email", CodePatternMismatch, "", "must look like name@example.com"),
	}

	phoneRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=20", CodeTooLong, "20", "must be at most %d characters", 20),
		newRule("phone", CodePatternMismatch, "", "must be a possible phone number with country code, e.g. +37060012345"),
	}

	genderRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("oneof="+genderOneOf, CodeNotInEnumeration, genderOneOf, "must be one of: %s", genderOneOf),
	}

	streetAddressRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=255", CodeTooLong, "255", "must be at most %d characters", 255),
	}

	// 州、城市、国家共用 40 字符上限
	regionRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("max=40", CodeTooLong, "40", "must be at most %d characters", 40),
	}

	zipCodeRules = []rule{
		newRule("notblank", CodeEmpty, "", "cannot be empty"),
		newRule("min=5", CodeTooShort, "5", "must be exactly %d characters", 5),
		newRule("max=5", CodeTooLong, "5", "must be exactly %d characters", 5),
		newRule("number", CodePatternMismatch, "", "must contain digits only"),
	}
)

const genderOneOf = "male female other unknown"

// Genders 允许的性别取值（区分大小写）
var Genders = []string{"male", "female", "other", "unknown"}

// ValidateName 名或姓：非空、不超过 20 字符、不含标点和数字，保留大小写
func ValidateName(raw any) Outcome[string] {
	return Default().validateString(raw, nameRules, nil)
}

// ValidateUsername 用户名：6-20 字符、不含标点
func ValidateUsername(raw any) Outcome[string] {
	return Default().validateString(raw, usernameRules, nil)
}

// ValidateEmail 邮箱：local-part@domain.tld
func ValidateEmail(raw any) Outcome[string] {
	return Default().validateString(raw, emailRules, nil)
}

// ValidatePhoneNumber 电话号码：必须带国家码且在号码长度上可能成立
func ValidatePhoneNumber(raw any) Outcome[string] {
	return Default().validateString(raw, phoneRules, nil)
}

// ValidateGender 性别：male/female/other/unknown 之一
func ValidateGender(raw any) Outcome[string] {
	return Default().validateString(raw, genderRules, nil)
}

// ValidateStreetAddress 街道地址：非空、不超过 255 字符
func ValidateStreetAddress(raw any) Outcome[string] {
	return Default().validateString(raw, streetAddressRules, nil)
}

// ValidateState 州/省：非空、不超过 40 字符
func ValidateState(raw any) Outcome[string] {
	return Default().validateString(raw, regionRules, nil)
}

// ValidateCity 城市：非空、不超过 40 字符
func ValidateCity(raw any) Outcome[string] {
	return Default().validateString(raw, regionRules, nil)
}

// ValidateCountry 国家：非空、不超过 40 字符
func ValidateCountry(raw any) Outcome[string] {
	return Default().validateString(raw, regionRules, nil)
}

// ValidateZipCode 邮编：恰好 5 位数字
func ValidateZipCode(raw any) Outcome[string] {
	return Default().validateString(raw, zipCodeRules, nil)
}
