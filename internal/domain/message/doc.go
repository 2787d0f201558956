// Package message defines the identity, metadata, and payload model shared by
// every message that flows through the core: commands wrapped for a unit of
// work, domain events published after a successful decision, and anything a
// correlation provider derives from them.
//
// Standard metadata keys are fixed strings so that serialized messages agree
// on their wire representation:
//
//	evt := message.NewEventMessage("account.opened", opened)
//	name, _ := evt.Metadata().GetString(message.EventNameKey) // "account.opened"
//
// MetaData, Entity, and Payload are value types. Builder methods (With,
// WithMeta, WithIdentifier) return copies and never mutate the receiver.
package message
