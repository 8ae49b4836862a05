package assembler

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"katydid-vehicle-market/pkg/validator"
)

// 地址草稿字段
const (
	FieldStreetAddress = "street_address"
	FieldCity          = "city"
	FieldState         = "state"
	FieldZipCode       = "zip_code"
	FieldCountry       = "country"
	FieldAddressHash   = "address_hash"
)

// AddressFields 地址草稿的字段声明顺序
// address_hash 由系统计算，不需要交互录入
var AddressFields = []string{
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldCountry,
}

// AddressHash 地址指纹：BLAKE2b-256(country + city + street_address) 的十六进制小写形式
// 同一地址总是得到同一指纹，用于入库前去重
func AddressHash(country, city, streetAddress string) string {
	sum := blake2b.Sum256([]byte(country + city + streetAddress))
	return hex.EncodeToString(sum[:])
}

// AssembleAddress 装配地址
// state 与 zip_code 可选；address_hash 可选，提供时必须与重新计算的指纹一致，
// 只有三个指纹分量全部合法时才做比对，否则分量本身的错误已经足够说明问题
func AssembleAddress(draft validator.Draft) validator.EntityOutcome[Address] {
	c := validator.NewCollector(EntityAddress, draft)

	addr := Address{
		StreetAddress: validator.Field(c, FieldStreetAddress, validator.ValidateStreetAddress),
		City:          validator.Field(c, FieldCity, validator.ValidateCity),
		State:         validator.Optional(c, FieldState, validator.ValidateState),
		ZipCode:       validator.Optional(c, FieldZipCode, validator.ValidateZipCode),
		Country:       validator.Field(c, FieldCountry, validator.ValidateCountry),
	}

	supplied, _ := c.Raw(FieldAddressHash)
	componentsValid := !c.Failed(FieldStreetAddress) && !c.Failed(FieldCity) && !c.Failed(FieldCountry)
	if componentsValid {
		addr.Hash = AddressHash(addr.Country, addr.City, addr.StreetAddress)
	}

	if supplied != nil && componentsValid {
		if reason, ok := checkHash(supplied, addr.Hash); !ok {
			c.Fail(FieldAddressHash, supplied, reason)
		}
	}

	if report := c.Finish(); report != nil {
		return validator.Reject[Address](report)
	}
	return validator.Accept(addr)
}

func checkHash(supplied any, want string) (validator.Reason, bool) {
	got, ok := supplied.(string)
	if !ok {
		return validator.NewReason(validator.CodeWrongType, "", "has an unsupported type %T", supplied), false
	}
	if got != want {
		return validator.NewReason(validator.CodeDuplicateHashMismatch, "",
			"does not match the fingerprint of country, city and street_address"), false
	}
	return validator.Reason{}, true
}
