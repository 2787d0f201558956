package account

// Type is the kind of account.
type Type string

const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
)

// IsValid returns true if the type is one of the defined constants.
func (t Type) IsValid() bool {
	switch t {
	case TypeChecking, TypeSavings:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// Status is the lifecycle state of an account.
type Status string

const (
	StatusUnopened Status = ""
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == StatusUnopened {
		return "unopened"
	}
	return string(s)
}
