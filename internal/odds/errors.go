package odds

import "fmt"

// InvalidOddsError is returned for malformed American quotes.
type InvalidOddsError struct {
	Odds    American
	Message string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid odds %s: %s", e.Odds, e.Message)
}

// DegenerateOddsError is returned when a probability group cannot be
// normalized because its sum is not positive.
type DegenerateOddsError struct {
	Sum float64
}

func (e *DegenerateOddsError) Error() string {
	return fmt.Sprintf("degenerate odds: probabilities sum to %v", e.Sum)
}

// NewInvalidOddsError creates a new invalid odds error
func NewInvalidOddsError(odds American, message string) *InvalidOddsError {
	return &InvalidOddsError{Odds: odds, Message: message}
}

// NewDegenerateOddsError creates a new degenerate odds error
func NewDegenerateOddsError(sum float64) *DegenerateOddsError {
	return &DegenerateOddsError{Sum: sum}
}
