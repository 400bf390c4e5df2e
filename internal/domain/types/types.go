package types

// Enum for observer roles
type Role string

func (r Role) String() string {
	return string(r)
}

const (
	RoleCustomer Role = "CUSTOMER"
	RoleDriver   Role = "DRIVER"
	RoleOperator Role = "OPERATOR"
)

// Valid reports whether the role is one of the known constants.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleOperator:
		return true
	default:
		return false
	}
}

// Enum for notification event kinds
type EventKind string

func (k EventKind) String() string {
	return string(k)
}

const (
	EventStatusChanged   EventKind = "STATUS_CHANGED"
	EventLocationChanged EventKind = "LOCATION_CHANGED"
)

// Enum for car classes
type CarType string

const (
	EconomyCar CarType = "ECONOMY"
	PremiumCar CarType = "PREMIUM"
	XLCar      CarType = "XL"
)

// Enum for payment methods
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)
