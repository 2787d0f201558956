package correlation

import (
	"github.com/jsamuelsen11/go-eventcore/internal/platform/config"
)

// FromConfig builds the standard provider chain for a message whose
// descendants should carry correlationID: configured header keys are copied
// first, then the originator keys are stamped over them.
func FromConfig(cfg config.CorrelationConfig, correlationID string) *Multi {
	return NewMulti(
		NewSimple(cfg.Headers...),
		NewOriginator(correlationID, cfg.FallbackTraceID),
	)
}
