package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samiksha-labs/samiksha/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrInsufficientEvidence marks a bundle missing a whole scoring
	// dimension; the analysis fails without a partial result.
	ErrInsufficientEvidence = errors.New("insufficient evidence")
)

// InsufficientEvidenceError reports which dimensions carried no evidence at
// all. A single missing check within a covered dimension is tolerated and
// does not raise this error.
type InsufficientEvidenceError struct {
	DocumentID string
	Missing    []model.Dimension
}

func (e *InsufficientEvidenceError) Error() string {
	names := make([]string, len(e.Missing))
	for i, d := range e.Missing {
		names[i] = string(d)
	}
	return fmt.Sprintf("insufficient evidence for document %s: no findings for dimension(s) %s",
		e.DocumentID, strings.Join(names, ", "))
}

// Unwrap lets errors.Is(err, ErrInsufficientEvidence) match.
func (e *InsufficientEvidenceError) Unwrap() error {
	return ErrInsufficientEvidence
}
