package detectors

import (
	"regexp"
	"strings"
)

var (
	reMalware = regexp.MustCompile(`(?i)\b(malware|ransomware|trojan|keylogger|spyware|rootkit|backdoor|botnet|worm\.[a-z]+)\b|\b[\w-]+\.(exe|scr|vbs|bat|msi|jar)\b`)

	rePhishing = regexp.MustCompile(`(?i)(verify your (account|identity)|confirm your (password|identity|account)|account (has been |will be )?(suspended|locked|disabled)|urgent action required|click here to (log ?in|verify|claim)|update your (payment|billing) (details|information)|you have won)`)

	reURL = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`)

	reExplicit = regexp.MustCompile(`(?i)\b(porn|porno|xxx|nsfw|nude|nudes|explicit content)\b`)

	reInjection = regexp.MustCompile(`(?i)('\s*or\s+'?1'?\s*=\s*'?1|\bunion\s+(all\s+)?select\b|\bdrop\s+table\b|;\s*--|<script\b|javascript:|\bonerror\s*=|\$\{jndi:|\.\./\.\./)`)

	reExfil = regexp.MustCompile(`(?i)(exfiltrat\w*|dump (the |all )?(database|db|credentials)|send (all )?(the )?(data|files|credentials|passwords) to|upload\b.{0,40}\bto (pastebin|an? external)|copy (all )?(customer|user) records)`)
)

var shorteners = []string{"bit.ly/", "tinyurl.com/", "t.co/", "goo.gl/", "is.gd/", "ow.ly/", "rb.gy/"}

var reIPHost = regexp.MustCompile(`^https?://\d{1,3}(\.\d{1,3}){3}([:/]|$)`)

func Malware(text string) []string          { return findAll(text, reMalware) }
func Phishing(text string) []string         { return findAll(text, rePhishing) }
func ExplicitContent(text string) []string  { return findAll(text, reExplicit) }
func InjectionAttack(text string) []string  { return findAll(text, reInjection) }
func DataExfiltration(text string) []string { return findAll(text, reExfil) }

// SuspiciousLink flags URLs that hide their destination: raw IP hosts,
// punycode hosts, userinfo tricks and link shorteners.
func SuspiciousLink(text string) []string {
	return findFiltered(text, reURL, suspiciousURL)
}

func suspiciousURL(u string) bool {
	lu := strings.ToLower(u)
	if reIPHost.MatchString(lu) {
		return true
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(lu, "http://"), "https://")
	host := rest
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if strings.Contains(host, "@") || strings.Contains(host, "xn--") {
		return true
	}
	for _, s := range shorteners {
		if strings.HasPrefix(rest, s) {
			return true
		}
	}
	return false
}

// BannedTerms returns a detector reporting each occurrence of any of terms,
// matched case-insensitively as substrings. Matches are reported lowercased.
func BannedTerms(terms []string) Detector {
	norm := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			norm = append(norm, t)
		}
	}
	return func(text string) []string {
		var out []string
		lines(text, func(line string) {
			l := strings.ToLower(line)
			for _, t := range norm {
				for n := strings.Count(l, t); n > 0; n-- {
					out = append(out, t)
				}
			}
		})
		return out
	}
}
