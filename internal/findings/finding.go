package findings

// Severity levels, ordered. Critical outranks high outranks medium outranks low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a numeric rank for ordering (higher = more severe).
// Unknown severities rank below low.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Category identifies the vulnerability class a scanner reports.
type Category string

const (
	CategorySecret         Category = "secret"
	CategoryInjection      Category = "injection"
	CategoryUnsafeFunction Category = "unsafe-function"
	CategoryCrypto         Category = "crypto"
	CategoryDependency     Category = "dependency"
	CategoryConfig         Category = "config"
)

// Categories lists every known category in registry order.
func Categories() []Category {
	return []Category{
		CategorySecret,
		CategoryInjection,
		CategoryUnsafeFunction,
		CategoryCrypto,
		CategoryDependency,
		CategoryConfig,
	}
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// RawFinding is a scanner-produced issue before validation. Confidence is kept
// untyped because scanner and advisor payloads are not trusted to be well formed;
// the confidence policy normalizes it into [0,1].
type RawFinding struct {
	File       string      `json:"file"`
	LineStart  int         `json:"line_start"`
	LineEnd    int         `json:"line_end"`
	Category   Category    `json:"category"`
	Severity   Severity    `json:"severity"`
	Evidence   string      `json:"evidence"`
	Confidence interface{} `json:"confidence"`
	Scanner    string      `json:"scanner"`
}

// Finding is a validated, canonical issue held by the ledger. ID is a
// deterministic content hash; Scanner is audit metadata and not part of identity.
type Finding struct {
	ID           string   `json:"id"`
	File         string   `json:"file"`
	LineStart    int      `json:"line_start"`
	LineEnd      int      `json:"line_end"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Evidence     string   `json:"evidence"`
	Confidence   float64  `json:"confidence"`
	Scanner      string   `json:"scanner"`
	Observations int      `json:"observations"`
}
