package card

// Type is the card product.
type Type string

const (
	TypePlatinum Type = "platinum"
	TypeCash     Type = "cash"
	TypeGreen    Type = "green"
)

// IsValid returns true if the type is one of the defined constants.
func (t Type) IsValid() bool {
	switch t {
	case TypePlatinum, TypeCash, TypeGreen:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of a card.
type Status string

const (
	StatusUnissued Status = ""
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusLost     Status = "lost"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == StatusUnissued {
		return "unissued"
	}
	return string(s)
}
