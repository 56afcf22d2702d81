package transmission

import (
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
)

// Outcome is the structured result of one send attempt. Network and SOAP
// failures are reported here, never as Go errors.
type Outcome struct {
	DocumentID     uint                     `json:"documentId"`
	RefNumber      string                   `json:"refNumber"`
	AttemptID      string                   `json:"attemptId,omitempty"`
	State          models.TransmissionState `json:"state"`
	Success        bool                     `json:"success"`
	Error          string                   `json:"error,omitempty"`
	Response       string                   `json:"response,omitempty"`
	HTTPStatus     int                      `json:"httpStatus,omitempty"`
	ResponseTimeMs int64                    `json:"responseTimeMs"`
	PayloadSize    int                      `json:"payloadSize"`
	AttemptedAt    time.Time                `json:"attemptedAt"`
}

// BulkResult lists outcomes in input order plus aggregate counts
type BulkResult struct {
	Outcomes  []Outcome `json:"outcomes"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// Notifier receives every recorded outcome. Delivery is best effort.
type Notifier interface {
	NotifyOutcome(Outcome)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Outcome)

// NotifyOutcome calls f(o)
func (f NotifierFunc) NotifyOutcome(o Outcome) { f(o) }
