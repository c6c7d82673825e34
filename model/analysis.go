package model

// ExtractionResult is the outcome of the OCR stage for a single document.
// A failed extraction is a value, not an error: the gateway converts every
// upstream fault into Succeeded=false with a human-readable detail.
type ExtractionResult struct {
	Text        string `json:"text"`
	Succeeded   bool   `json:"succeeded"`
	ErrorDetail string `json:"error_detail,omitempty"`
	Pages       int    `json:"pages,omitempty"`
}

// ContractAnalysis is the structured result of the AI analysis stage.
// It is produced once per request and returned directly to the caller.
type ContractAnalysis struct {
	ContractData ContractData         `json:"contract_data"`
	RentalEvents []RentalEvent        `json:"rental_events"`
	Completeness CompletenessAnalysis `json:"completeness_analysis"`
}

// ContractData holds everything extracted from the contract text.
// Leaf fields are pointers so that information the contract does not
// explicitly state stays null in the JSON output.
type ContractData struct {
	Property         Property         `json:"property"`
	Parties          Parties          `json:"parties"`
	Identifiers      Identifiers      `json:"identifiers"`
	Lease            Lease            `json:"lease"`
	Rent             Rent             `json:"rent"`
	Deposit          Deposit          `json:"deposit"`
	Furnishing       Furnishing       `json:"furnishing"`
	Responsibilities Responsibilities `json:"responsibilities"`
	Terms            Terms            `json:"terms"`

	// Flat fields populated only by the rule-based fallback extractor.
	RentAmount      *string `json:"rent_amount,omitempty"`
	PaymentSchedule *string `json:"payment_schedule,omitempty"`
	LeaseStartDate  *string `json:"lease_start_date,omitempty"`
	LeaseEndDate    *string `json:"lease_end_date,omitempty"`

	// Provenance metadata, always set by the structuring service.
	ParsedAt   string `json:"parsed_at"`
	AIModel    string `json:"ai_model"`
	Confidence string `json:"confidence"`
}

type Property struct {
	Building *string  `json:"building"`
	Unit     *string  `json:"unit"`
	Location *string  `json:"location"`
	SizeSqm  *float64 `json:"size_sqm"`
	Type     *string  `json:"type"`
}

type Parties struct {
	Landlord Party `json:"landlord"`
	Tenant   Party `json:"tenant"`
	Agent    Party `json:"agent"`
}

type Party struct {
	Name         *string `json:"name"`
	PassportNo   *string `json:"passport_no,omitempty"`
	PhonePrimary *string `json:"phone_primary,omitempty"`
	PhoneAlt     *string `json:"phone_alt,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
}

type Identifiers struct {
	EjariNumber   *string `json:"ejari_number"`
	DewaPremiseNo *string `json:"dewa_premise_no"`
	PlotNo        *string `json:"plot_no"`
}

type Lease struct {
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
	DurationMonths    *int    `json:"duration_months"`
	RenewalNoticeDays *int    `json:"renewal_notice_days,omitempty"`
}

type Rent struct {
	AnnualAED  *float64        `json:"annual_aed"`
	MonthlyAED *float64        `json:"monthly_aed"`
	Cheques    *ChequeSchedule `json:"cheques,omitempty"`
}

type ChequeSchedule struct {
	Count   *int      `json:"count"`
	Amounts []float64 `json:"amounts,omitempty"`
	Dates   []string  `json:"dates,omitempty"`
}

type Deposit struct {
	RefundableAED *float64 `json:"refundable_aed"`
	Type          *string  `json:"type,omitempty"`
}

type Furnishing struct {
	Status           *string `json:"status"`
	InventoryPresent *bool   `json:"inventory_present,omitempty"`
}

// Responsibilities records which party carries each recurring charge or
// maintenance duty. Values are "Landlord" or "Tenant" when stated.
type Responsibilities struct {
	ServiceCharges         *string  `json:"service_charges"`
	Dewa                   *string  `json:"dewa"`
	Chiller                *string  `json:"chiller"`
	MaintenanceMajor       *string  `json:"maintenance_major"`
	MaintenanceMinor       *string  `json:"maintenance_minor"`
	MaintenanceMinorCapAED *float64 `json:"maintenance_minor_cap,omitempty"`
	EjariRegistration      *string  `json:"ejari_registration,omitempty"`
}

type Terms struct {
	PetsAllowed             *bool   `json:"pets_allowed"`
	SublettingAllowed       *bool   `json:"subletting_allowed"`
	EarlyTerminationNotice  *int    `json:"early_termination_notice,omitempty"`
	EarlyTerminationPenalty *string `json:"early_termination_penalty,omitempty"`
	RenewalNoticeDays       *int    `json:"renewal_notice_days,omitempty"`
	BrokerFee               *string `json:"broker_fee,omitempty"`
	GoverningLaw            *string `json:"governing_law,omitempty"`
}

// RentalEvent is one actionable calendar item derived from the contract:
// payment due dates, renewal windows, move-out checklists and the like.
type RentalEvent struct {
	EventType        string   `json:"event_type"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	DueDate          string   `json:"due_date,omitempty"`
	ReminderDate     string   `json:"reminder_date,omitempty"`
	Priority         string   `json:"priority,omitempty"` // critical, high, medium, low
	Amount           *float64 `json:"amount,omitempty"`
	PaymentNumber    *int     `json:"payment_number,omitempty"`
	TotalPayments    *int     `json:"total_payments,omitempty"`
	ActionRequired   string   `json:"action_required,omitempty"`
	ChecklistItems   []string `json:"checklist_items,omitempty"`
	AutomatedActions []string `json:"automated_actions,omitempty"`
}

// CompletenessAnalysis scores how much of the expected contract data was
// actually found. Score is always within [0,100]; the fallback path pins
// it to 0.
type CompletenessAnalysis struct {
	CompletenessScore     int             `json:"completeness_score"`
	QualityStatus         string          `json:"quality_status,omitempty"`
	MissingCritical       []string        `json:"missing_critical"`
	MissingImportant      []string        `json:"missing_important"`
	NeedsConfirmation     []string        `json:"needs_confirmation,omitempty"`
	ActionableGaps        []ActionableGap `json:"actionable_gaps"`
	SuggestedImprovements []string        `json:"suggested_improvements,omitempty"`
	ValidationNotes       string          `json:"validation_notes,omitempty"`
}

// ActionableGap describes one missing or conflicting piece of contract
// data together with the action that would resolve it.
type ActionableGap struct {
	Type            string `json:"type"` // upload, contact, confirmation
	Field           string `json:"field"`
	Label           string `json:"label"`
	Description     string `json:"description,omitempty"`
	Priority        string `json:"priority,omitempty"` // critical, important, optional
	Status          string `json:"status,omitempty"`   // missing, conflict, incomplete
	ConflictDetails string `json:"conflict_details,omitempty"`
	AutomatedAction string `json:"automated_action,omitempty"`
}

// Confidence labels attached to contract_data.confidence.
const (
	ConfidenceHigh = "high"
	ConfidenceLow  = "low"
)

// FallbackModel is reported as contract_data.ai_model when the analysis
// was produced by the rule-based fallback instead of the AI call.
const FallbackModel = "rule_based_fallback"
