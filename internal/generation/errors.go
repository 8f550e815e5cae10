package generation

import (
	"fmt"
	"strings"

	"cadenza/internal/services"
)

// QualityError reports that no attempt cleared the quality threshold. It
// carries the final attempt's diagnostics and matches services.ErrGenerationQuality.
type QualityError struct {
	Term        string
	Attempts    int
	Threshold   int
	LastScore   int
	Issues      []string
	Suggestions []string
}

func (e *QualityError) Error() string {
	msg := fmt.Sprintf("generate %q: best effort scored %d after %d attempts (threshold %d)",
		e.Term, e.LastScore, e.Attempts, e.Threshold)
	if len(e.Issues) > 0 {
		msg += ": " + strings.Join(e.Issues, "; ")
	}
	return msg
}

// Unwrap lets errors.Is match services.ErrGenerationQuality.
func (e *QualityError) Unwrap() error {
	return services.ErrGenerationQuality
}
