package assembler

import (
	"katydid-vehicle-market/pkg/validator"
)

// 成交记录草稿字段
const (
	FieldSellerID = "seller_id"
	FieldBuyerID  = "buyer_id"
	FieldAdID     = "ad_id"
)

// AssembleSale 装配成交记录，买家可选但不能与卖家相同
func AssembleSale(draft validator.Draft) validator.EntityOutcome[Sale] {
	c := validator.NewCollector(EntitySale, draft)

	sale := Sale{
		SellerID: validator.Field(c, FieldSellerID, validator.ValidateIdentifier),
		BuyerID:  validator.Optional(c, FieldBuyerID, validator.ValidateIdentifier),
		AdID:     validator.Field(c, FieldAdID, validator.ValidateIdentifier),
	}

	if sale.BuyerID != nil && !c.Failed(FieldSellerID) && *sale.BuyerID == sale.SellerID {
		raw, _ := c.Raw(FieldBuyerID)
		c.Fail(FieldBuyerID, raw, validator.NewReason(validator.CodeOutOfRange,
			FieldSellerID, "must differ from seller_id"))
	}

	if report := c.Finish(); report != nil {
		return validator.Reject[Sale](report)
	}
	return validator.Accept(sale)
}
