package enum

// PaymentMethod is one of the tender types an invoice can be settled with
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodCheck   PaymentMethod = "check"
	PaymentMethodDigital PaymentMethod = "digital"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodCheck,
	PaymentMethodDigital,
}

// PaymentMethods returns every method in display order.
func PaymentMethods() []PaymentMethod {
	return append([]PaymentMethod(nil), paymentMethods...)
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	_, ok := match(paymentMethods, string(m))
	return ok
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	return match(paymentMethods, s)
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	return unmarshal(data, paymentMethods, "payment method", m)
}

// UnmarshalText lets PaymentMethod be used as a JSON object key.
func (m *PaymentMethod) UnmarshalText(text []byte) error {
	v, ok := match(paymentMethods, string(text))
	if !ok {
		return &invalidValueError{kind: "payment method", value: string(text)}
	}
	*m = v
	return nil
}
