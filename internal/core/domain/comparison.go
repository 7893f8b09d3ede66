package domain

// TamperSeverity qualifies how significantly a candidate document diverges
// from the verified original.
type TamperSeverity string

// TamperSeverity values, ordered
const (
	SeverityNone     TamperSeverity = "none"
	SeverityMinor    TamperSeverity = "minor"
	SeverityModerate TamperSeverity = "moderate"
	SeveritySevere   TamperSeverity = "severe"
)

var severityRank = map[TamperSeverity]int{
	SeverityNone:     0,
	SeverityMinor:    1,
	SeverityModerate: 2,
	SeveritySevere:   3,
}

// AtLeast tells whether the severity is equal or worse than other
func (s TamperSeverity) AtLeast(other TamperSeverity) bool {
	return severityRank[s] >= severityRank[other]
}

// ComparisonStatus is the verdict of a document comparison
type ComparisonStatus string

// ComparisonStatus values, from best to worst. StatusMismatch is the
// short-circuit outcome when the two documents are not even the same kind of
// credential.
const (
	StatusIdentical  ComparisonStatus = "identical"
	StatusAuthentic  ComparisonStatus = "authentic"
	StatusSuspicious ComparisonStatus = "suspicious"
	StatusTampered   ComparisonStatus = "tampered"
	StatusMismatch   ComparisonStatus = "mismatch"
)

var statusRank = map[ComparisonStatus]int{
	StatusIdentical:  0,
	StatusAuthentic:  1,
	StatusSuspicious: 2,
	StatusTampered:   3,
	StatusMismatch:   4,
}

// Worse returns the worse of the two statuses. Status transitions are
// monotonic: once a comparison is flagged it cannot be upgraded by a later
// positive signal.
func (s ComparisonStatus) Worse(other ComparisonStatus) ComparisonStatus {
	if statusRank[other] > statusRank[s] {
		return other
	}
	return s
}

// TamperFinding is a field-level tampering observation from the visual
// analysis.
type TamperFinding struct {
	Field         string         `json:"field"`
	Location      string         `json:"location,omitempty"`
	OriginalValue string         `json:"originalValue,omitempty"`
	TamperedValue string         `json:"tamperedValue,omitempty"`
	Method        string         `json:"method,omitempty"`
	Severity      TamperSeverity `json:"severity"`
}

// VisualAnalysis is the structured verdict of the AI visual comparison
// capability.
type VisualAnalysis struct {
	ExactSameDocument bool            `json:"exactSameDocument"`
	AuthenticityScore int             `json:"authenticityScore"`
	SealMatch         *bool           `json:"sealMatch,omitempty"`
	SignatureMatch    *bool           `json:"signatureMatch,omitempty"`
	TamperingDetected bool            `json:"tamperingDetected"`
	TamperSeverity    TamperSeverity  `json:"tamperSeverity"`
	Findings          []TamperFinding `json:"specificTampering,omitempty"`
}

// ComparisonResult is the ephemeral output of a document comparison. It is
// never persisted.
type ComparisonResult struct {
	Status         ComparisonStatus `json:"status"`
	TypeMismatch   bool             `json:"typeMismatch"`
	OriginalType   string           `json:"originalType,omitempty"`
	CandidateType  string           `json:"candidateType,omitempty"`
	TextSimilarity float64          `json:"textSimilarity"`
	ModifiedPct    float64          `json:"modifiedPct"`
	AddedTokens    []string         `json:"addedTokens,omitempty"`
	RemovedTokens  []string         `json:"removedTokens,omitempty"`
	OCROnly        bool             `json:"ocrOnly"`
	PartialText    bool             `json:"partialText"`
	Visual         *VisualAnalysis  `json:"visual,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
}
