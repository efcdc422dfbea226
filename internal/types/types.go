package types

import (
	"strings"
	"time"
)

// Category names a class of risky content a detector can report.
type Category string

const (
	CatAadhaar     Category = "Aadhaar"
	CatPhoneNumber Category = "PhoneNumber"
	CatEmail       Category = "Email"
	CatBankDetail  Category = "BankDetail"
	CatPassword    Category = "Password"
	CatCreditCard  Category = "CreditCard"
	CatBannedTerm  Category = "BannedTerm"

	CatMalware          Category = "Malware"
	CatPhishing         Category = "Phishing"
	CatSuspiciousLink   Category = "SuspiciousLink"
	CatExplicitContent  Category = "ExplicitContent"
	CatInjectionAttack  Category = "InjectionAttack"
	CatDataExfiltration Category = "DataExfiltration"
)

// AllCategories lists every known category in canonical order. Anything that
// iterates detection results for output uses this order.
var AllCategories = []Category{
	CatAadhaar, CatPhoneNumber, CatEmail, CatBankDetail, CatPassword, CatCreditCard, CatBannedTerm,
	CatMalware, CatPhishing, CatSuspiciousLink, CatExplicitContent, CatInjectionAttack, CatDataExfiltration,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Level is a discrete severity band derived from a score.
type Level string

const (
	LevelSafe     Level = "SAFE"
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// DetectionResult maps a category to the substrings that matched it.
// A missing key and an empty list both mean "no match".
type DetectionResult map[Category][]string

// Matched reports whether c has at least one match.
func (d DetectionResult) Matched(c Category) bool {
	return len(d[c]) > 0
}

// Categories returns the matched categories in canonical order.
func (d DetectionResult) Categories() []Category {
	var out []Category
	for _, c := range AllCategories {
		if d.Matched(c) {
			out = append(out, c)
		}
	}
	return out
}

// RiskAssessment is the evaluator's verdict for one detection result.
type RiskAssessment struct {
	Score              int        `json:"score"`
	Level              Level      `json:"level"`
	Profile            string     `json:"profile"`
	DetectedCategories []Category `json:"detected_categories"`
	Recommendations    []string   `json:"recommendations"` // message IDs, see risk.Text
	Reason             string     `json:"reason,omitempty"`
	ContentType        string     `json:"content_type,omitempty"`
	Timestamp          time.Time  `json:"timestamp"`
}

// Stats carries aggregate scan counters supplied to the hub.
type Stats struct {
	TotalScans       int       `json:"total_scans"`
	AverageRiskScore float64   `json:"average_risk_score"`
	HighRiskCount    int       `json:"high_risk_count"`
	LastScanTime     time.Time `json:"last_scan_time"`
}
