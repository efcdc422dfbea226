package risk

import "github.com/Sowmya0137/riskwatch/internal/types"

// Recommendation message IDs. Display text lives in the catalog below;
// clients may localize by ID.
const (
	RecCriticalContact = "critical.contact_security"
	RecHighTakeAction  = "high.take_action"

	RecMalwareScan    = "malware.antivirus_scan"
	RecMalwareIsolate = "malware.isolate_system"
	RecMalwareReview  = "malware.review_execution_history"

	RecPhishingNoLinks      = "phishing.do_not_click"
	RecPhishingVerifySender = "phishing.verify_sender"
	RecPhishingReport       = "phishing.report_security_team"

	RecLinkVerify  = "links.verify_destination"
	RecLinkChecker = "links.use_url_checker"
	RecLinkPreview = "links.enable_preview"

	RecExplicitBlock    = "explicit.block_source"
	RecExplicitDocument = "explicit.document_incident"
	RecExplicitReport   = "explicit.report_authorities"

	RecInjectionSanitize = "injection.sanitize_inputs"
	RecInjectionParams   = "injection.parameterized_queries"
	RecInjectionWAF      = "injection.update_waf_rules"

	RecExfilStop   = "exfil.stop_processes"
	RecExfilRevoke = "exfil.revoke_credentials"
	RecExfilTrace  = "exfil.trace_access_patterns"
)

type remediation struct {
	category types.Category
	ids      []string
}

// remediations is walked in order; it fixes the recommendation ordering
// independent of how the caller built its detection result.
var remediations = []remediation{
	{types.CatMalware, []string{RecMalwareScan, RecMalwareIsolate, RecMalwareReview}},
	{types.CatPhishing, []string{RecPhishingNoLinks, RecPhishingVerifySender, RecPhishingReport}},
	{types.CatSuspiciousLink, []string{RecLinkVerify, RecLinkChecker, RecLinkPreview}},
	{types.CatExplicitContent, []string{RecExplicitBlock, RecExplicitDocument, RecExplicitReport}},
	{types.CatInjectionAttack, []string{RecInjectionSanitize, RecInjectionParams, RecInjectionWAF}},
	{types.CatDataExfiltration, []string{RecExfilStop, RecExfilRevoke, RecExfilTrace}},
}

var catalog = map[string]string{
	RecCriticalContact: "CRITICAL: Contact security team immediately",
	RecHighTakeAction:  "HIGH RISK: Take immediate action",

	RecMalwareScan:    "Run antivirus scan immediately",
	RecMalwareIsolate: "Isolate affected system from network",
	RecMalwareReview:  "Review file execution history",

	RecPhishingNoLinks:      "Do not click on links or submit forms",
	RecPhishingVerifySender: "Verify sender identity through official channels",
	RecPhishingReport:       "Report to security team",

	RecLinkVerify:  "Verify URL destination before clicking",
	RecLinkChecker: "Use URL checker tools",
	RecLinkPreview: "Enable link preview before visiting",

	RecExplicitBlock:    "Block content source",
	RecExplicitDocument: "Document incident",
	RecExplicitReport:   "Report to appropriate authorities if needed",

	RecInjectionSanitize: "Sanitize all user inputs",
	RecInjectionParams:   "Use parameterized queries",
	RecInjectionWAF:      "Update WAF rules",

	RecExfilStop:   "Stop all processes immediately",
	RecExfilRevoke: "Revoke compromised credentials",
	RecExfilTrace:  "Trace data access patterns",
}

// Text returns the display text for a recommendation ID, or the ID itself
// when it is not in the catalog.
func Text(id string) string {
	if t, ok := catalog[id]; ok {
		return t
	}
	return id
}

// Texts maps a list of IDs through Text.
func Texts(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Text(id)
	}
	return out
}

// Recommend builds the ordered recommendation IDs for a set of matched
// categories and a level. The level header, when any, is always first.
func Recommend(d types.DetectionResult, level types.Level) []string {
	out := []string{}
	switch level {
	case types.LevelCritical:
		out = append(out, RecCriticalContact)
	case types.LevelHigh:
		out = append(out, RecHighTakeAction)
	}
	for _, r := range remediations {
		if d.Matched(r.category) {
			out = append(out, r.ids...)
		}
	}
	return out
}
