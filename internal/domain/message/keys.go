package message

// Standard metadata keys. Any serialized message uses these exact keys when
// the corresponding value is present.
const (
	EventNameKey     = "bor:event:name"
	CommandNameKey   = "bor:command:name"
	EntityKey        = "bor:entity"
	EntityIDKey      = "bor:entity:id"
	EntityNameKey    = "bor:entity:name"
	CorrelationIDKey = "bor:correlation:id"
	TraceIDKey       = "bor:trace:id"
)

// Keys stamped on event messages produced by a command service.
const (
	StreamIDKey      = "bor:stream:id"
	StreamVersionKey = "bor:stream:version"
)

// AnonymousEntityName is the name given to entities created without one.
const AnonymousEntityName = "bor:event:name/anonymous"
