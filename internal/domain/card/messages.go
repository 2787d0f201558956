package card

// Command names.
const (
	CommandIssue      = "card.issue"
	CommandActivate   = "card.activate"
	CommandDeactivate = "card.deactivate"
	CommandReportLost = "card.report_lost"
)

// Event names.
const (
	EventIssued      = "card.issued"
	EventActivated   = "card.activated"
	EventDeactivated = "card.deactivated"
	EventLost        = "card.lost"
)

// Command is an intent addressed to one card.
type Command interface {
	CommandName() string
	AggregateID() string
	isCommand()
}

// Event is a fact recorded on a card stream.
type Event interface {
	EventName() string
	AggregateID() string
	isEvent()
}

// Issue issues a new card against an account. An empty CardID asks the
// aggregate to generate one; an empty Type means TypeGreen.
type Issue struct {
	CardID    string `json:"card_id,omitempty"`
	AccountID string `json:"account_id"`
	Type      Type   `json:"card_type,omitempty"`
}

func (Issue) CommandName() string   { return CommandIssue }
func (c Issue) AggregateID() string { return c.CardID }
func (Issue) isCommand()            {}

// Activate enables an issued card.
type Activate struct {
	CardID string `json:"card_id"`
}

func (Activate) CommandName() string   { return CommandActivate }
func (c Activate) AggregateID() string { return c.CardID }
func (Activate) isCommand()            {}

// Deactivate disables an active card.
type Deactivate struct {
	CardID string `json:"card_id"`
}

func (Deactivate) CommandName() string   { return CommandDeactivate }
func (c Deactivate) AggregateID() string { return c.CardID }
func (Deactivate) isCommand()            {}

// ReportLost permanently blocks a card.
type ReportLost struct {
	CardID string `json:"card_id"`
}

func (ReportLost) CommandName() string   { return CommandReportLost }
func (c ReportLost) AggregateID() string { return c.CardID }
func (ReportLost) isCommand()            {}

// Issued records a newly issued card. Number is sensitive.
type Issued struct {
	CardID    string `json:"card_id"`
	AccountID string `json:"account_id"`
	Type      Type   `json:"card_type"`
	Number    string `json:"card_number"`
}

func (Issued) EventName() string     { return EventIssued }
func (e Issued) AggregateID() string { return e.CardID }
func (Issued) isEvent()              {}

// Activated records that a card was enabled.
type Activated struct {
	CardID string `json:"card_id"`
}

func (Activated) EventName() string     { return EventActivated }
func (e Activated) AggregateID() string { return e.CardID }
func (Activated) isEvent()              {}

// Deactivated records that a card was disabled.
type Deactivated struct {
	CardID string `json:"card_id"`
}

func (Deactivated) EventName() string     { return EventDeactivated }
func (e Deactivated) AggregateID() string { return e.CardID }
func (Deactivated) isEvent()              {}

// Lost records that a card was reported lost.
type Lost struct {
	CardID string `json:"card_id"`
}

func (Lost) EventName() string     { return EventLost }
func (e Lost) AggregateID() string { return e.CardID }
func (Lost) isEvent()              {}
