package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields is the set of attribute names whose values never reach the
// log output. Card aggregates and command payloads log under these names.
var SensitiveFields = map[string]bool{
	"card_number": true,
	"cvv":         true,
	"pin":         true,
	"password":    true,
	"secret":      true,
	"token":       true,
}

// panPattern matches bare primary account numbers (13 to 19 digits) that
// show up inside free-form strings such as error messages.
var panPattern = regexp.MustCompile(`\b[0-9]{13,19}\b`)

// bearerPattern matches "Bearer <token>" strings that appear as raw values.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// fixedRedactOptions is the number of masq options beyond SensitiveFields
// (1 prefix + 2 regexes).
const fixedRedactOptions = 3

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, fixedRedactOptions+len(SensitiveFields))

	for name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithRegex(panPattern),
		masq.WithRegex(bearerPattern),
	)

	return masq.New(opts...)
}
