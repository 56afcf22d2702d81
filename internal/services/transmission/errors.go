package transmission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anhardeni/tps40-merak-sub001/internal/codec/cocotangki"
	"github.com/anhardeni/tps40-merak-sub001/internal/validation"
)

var (
	// ErrNotFound is returned when the document does not exist
	ErrNotFound = errors.New("document not found")
	// ErrAlreadySent is returned when a document was already accepted by the authority
	ErrAlreadySent = errors.New("document already sent")
	// ErrInFlight is returned while another attempt on the document awaits the authority
	ErrInFlight = errors.New("document transmission already in progress")
)

// SchemaError is raised by the encoder; it is a defect, not a user error
type SchemaError = cocotangki.SchemaError

// ValidationError carries the failed validation result. No network call was made.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document is not valid for transmission: %s", strings.Join(e.Result.Errors, "; "))
}
