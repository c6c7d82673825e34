package model

import (
	"regexp"
	"time"
)

var (
	rentPattern   = regexp.MustCompile(`AED\s*([0-9][0-9,]*)`)
	chequePattern = regexp.MustCompile(`(?i)(\d+)\s*cheque`)
	datePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// AllFieldsMissing is the sentinel placed in missing_critical and
// missing_important when the AI stage produced nothing usable.
const AllFieldsMissing = "all_fields"

// NewFallbackAnalysis builds the deterministic degraded analysis used when
// the AI call fails, returns malformed JSON, or is disabled entirely.
// The result always conforms to the analysis schema: all contract fields
// null, score 0, empty event list. Whatever the rule-based patterns can
// recover from the raw text is filled in on top.
func NewFallbackAnalysis(rawText, note string, now time.Time) *ContractAnalysis {
	analysis := &ContractAnalysis{
		ContractData: ContractData{
			ParsedAt:   now.Format(time.RFC3339),
			AIModel:    FallbackModel,
			Confidence: ConfidenceLow,
		},
		RentalEvents: []RentalEvent{},
		Completeness: CompletenessAnalysis{
			CompletenessScore:     0,
			QualityStatus:         "poor",
			MissingCritical:       []string{AllFieldsMissing},
			MissingImportant:      []string{AllFieldsMissing},
			ActionableGaps:        []ActionableGap{},
			SuggestedImprovements: []string{"Manual review required - AI parsing failed"},
			ValidationNotes:       note,
		},
	}

	extractByRules(rawText, &analysis.ContractData)
	return analysis
}

// extractByRules pulls what it can from the raw OCR text with fixed
// patterns: the first AED amount, the cheque count, and the first pair of
// ISO dates. Fields stay null when no pattern matches.
func extractByRules(rawText string, data *ContractData) {
	if m := rentPattern.FindStringSubmatch(rawText); m != nil {
		amount := "AED " + m[1]
		data.RentAmount = &amount
	}

	if m := chequePattern.FindStringSubmatch(rawText); m != nil {
		schedule := m[1] + " cheques"
		data.PaymentSchedule = &schedule
	}

	if dates := datePattern.FindAllString(rawText, 2); len(dates) >= 2 {
		data.LeaseStartDate = &dates[0]
		data.LeaseEndDate = &dates[1]
	}
}
