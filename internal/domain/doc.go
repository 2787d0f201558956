// Package domain contains shared domain types used across aggregate sub-packages.
// The message model lives in domain/message, the event-sourcing runtime in
// domain/aggregate, and the reference aggregates in domain/account and
// domain/card. This root package holds the sentinel errors and validation
// types every aggregate's error taxonomy wraps.
package domain
