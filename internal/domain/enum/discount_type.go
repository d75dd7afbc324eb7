package enum

// DiscountType controls how an invoice discount value is interpreted
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypePercentage DiscountType = "percentage"
)

var discountTypes = []DiscountType{DiscountTypeFixed, DiscountTypePercentage}

func (t DiscountType) String() string {
	if t == "" {
		return string(DiscountTypeFixed)
	}
	return string(t)
}

func (t DiscountType) IsValid() bool {
	_, ok := match(discountTypes, string(t))
	return ok
}

// IsPercentage reports whether the discount is a percentage of the subtotal.
// Anything else, including an unset type, is a fixed amount.
func (t DiscountType) IsPercentage() bool {
	return t == DiscountTypePercentage
}

// ParseDiscountType treats an empty string as fixed.
func ParseDiscountType(s string) (DiscountType, bool) {
	if s == "" {
		return DiscountTypeFixed, true
	}
	return match(discountTypes, s)
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	if string(data) == `""` || string(data) == "null" {
		*t = DiscountTypeFixed
		return nil
	}
	return unmarshal(data, discountTypes, "discount type", t)
}
