package session

import "strings"

// Escalation reasons attached to automatically triggered escalations.
const (
	ReasonLowConfidence     = "low confidence score"
	ReasonCustomerRequested = "customer requested escalation"
)

// DefaultLowConfidenceThreshold is the confidence below which a turn
// escalates automatically.
const DefaultLowConfidenceThreshold float32 = 0.3

// EscalationConfig holds the escalation triggers.
type EscalationConfig struct {
	// Keywords are lower-cased substrings that trigger escalation when
	// found in a customer message.
	Keywords []string `json:"keywords"`
	// LowConfidenceThreshold triggers escalation for turns whose
	// caller-supplied confidence falls below it.
	LowConfidenceThreshold float32 `json:"low_confidence_threshold"`
}

// DefaultEscalationConfig returns the standard trigger set.
func DefaultEscalationConfig() *EscalationConfig {
	return &EscalationConfig{
		Keywords: []string{
			"complaint", "terrible", "awful", "manager", "legal", "court",
			"lawsuit", "cancel", "not satisfied", "unacceptable",
			"human", "representative", "operator", "real person",
		},
		LowConfidenceThreshold: DefaultLowConfidenceThreshold,
	}
}

// Evaluator decides per turn whether human intervention is required.
type Evaluator struct {
	config *EscalationConfig
}

// NewEvaluator creates an evaluator from the given config.
func NewEvaluator(config *EscalationConfig) *Evaluator {
	if config == nil {
		config = DefaultEscalationConfig()
	}
	return &Evaluator{config: config}
}

// Evaluate checks the low-confidence trigger first, then the keyword
// trigger. The first trigger that fires owns the reason.
func (e *Evaluator) Evaluate(userMessage string, confidence *float32) (bool, string) {
	if confidence != nil && *confidence < e.config.LowConfidenceThreshold {
		return true, ReasonLowConfidence
	}

	lowered := strings.ToLower(userMessage)
	for _, keyword := range e.config.Keywords {
		if strings.Contains(lowered, keyword) {
			return true, ReasonCustomerRequested
		}
	}

	return false, ""
}
