package assembler

import (
	"katydid-vehicle-market/pkg/validator"
)

// 用户草稿字段
const (
	FieldUsername              = "username"
	FieldFirstName             = "first_name"
	FieldLastName              = "last_name"
	FieldEmailAddress          = "email_address"
	FieldMainPhoneNumber       = "main_phone_number"
	FieldAdditionalPhoneNumber = "additional_phone_number"
	FieldGender                = "gender"
)

// UserFields 用户草稿的字段声明顺序（交互式录入也按此顺序提问）
var UserFields = []string{
	FieldUsername,
	FieldFirstName,
	FieldLastName,
	FieldEmailAddress,
	FieldMainPhoneNumber,
	FieldAdditionalPhoneNumber,
	FieldGender,
}

// AssembleUser 装配用户
// additional_phone_number 可选：缺失或 null 总是合法，提供时按电话号码规则校验
func AssembleUser(draft validator.Draft) validator.EntityOutcome[User] {
	c := validator.NewCollector(EntityUser, draft)

	user := User{
		Username:              validator.Field(c, FieldUsername, validator.ValidateUsername),
		FirstName:             validator.Field(c, FieldFirstName, validator.ValidateName),
		LastName:              validator.Field(c, FieldLastName, validator.ValidateName),
		EmailAddress:          validator.Field(c, FieldEmailAddress, validator.ValidateEmail),
		MainPhoneNumber:       validator.Field(c, FieldMainPhoneNumber, validator.ValidatePhoneNumber),
		AdditionalPhoneNumber: validator.Optional(c, FieldAdditionalPhoneNumber, validator.ValidatePhoneNumber),
		Gender:                validator.Field(c, FieldGender, validator.ValidateGender),
	}

	if report := c.Finish(); report != nil {
		return validator.Reject[User](report)
	}
	return validator.Accept(user)
}
