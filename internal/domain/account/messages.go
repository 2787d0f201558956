package account

// Command names.
const (
	CommandOpen  = "account.open"
	CommandClose = "account.close"
)

// Event names.
const (
	EventOpened = "account.opened"
	EventClosed = "account.closed"
)

// Command is an intent addressed to one account.
type Command interface {
	CommandName() string
	// AggregateID is the target account, or empty when the aggregate
	// assigns the id itself.
	AggregateID() string
	isCommand()
}

// Event is a fact recorded on an account stream.
type Event interface {
	EventName() string
	AggregateID() string
	isEvent()
}

// Open opens a new account. An empty AccountID asks the aggregate to
// generate one; an empty Type means TypeChecking.
type Open struct {
	AccountID string `json:"account_id,omitempty"`
	MemberID  string `json:"member_id"`
	Type      Type   `json:"account_type,omitempty"`
}

func (Open) CommandName() string   { return CommandOpen }
func (c Open) AggregateID() string { return c.AccountID }
func (Open) isCommand()            {}

// Close closes an open account.
type Close struct {
	AccountID string `json:"account_id"`
}

func (Close) CommandName() string   { return CommandClose }
func (c Close) AggregateID() string { return c.AccountID }
func (Close) isCommand()            {}

// Opened records that an account was opened.
type Opened struct {
	AccountID string `json:"account_id"`
	MemberID  string `json:"member_id"`
	Type      Type   `json:"account_type"`
}

func (Opened) EventName() string     { return EventOpened }
func (e Opened) AggregateID() string { return e.AccountID }
func (Opened) isEvent()              {}

// Closed records that an account was closed.
type Closed struct {
	AccountID string `json:"account_id"`
}

func (Closed) EventName() string     { return EventClosed }
func (e Closed) AggregateID() string { return e.AccountID }
func (Closed) isEvent()              {}
