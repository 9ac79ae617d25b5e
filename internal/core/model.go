package core

import (
	"time"
)

// Verdict is the discrete risk classification shown to the user.
type Verdict string

const (
	VerdictSafe       Verdict = "Safe"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictDangerous  Verdict = "Dangerous"
	VerdictClean      Verdict = "Clean"
	VerdictMalicious  Verdict = "Malicious"
)

// Label is the categorical output of the text classifier.
type Label string

const (
	LabelSafe       Label = "Safe"
	LabelSuspicious Label = "Suspicious"
	LabelDangerous  Label = "Dangerous"
)

// Text signal names. The vocabulary is closed; extractors never invent keys.
const (
	SignalSuspiciousLink      = "suspicious_link"
	SignalEmailAddressPresent = "email_address_present"
	SignalUrgentLanguage      = "urgent_language"
	SignalImpersonation       = "impersonation"
	SignalCredentialRequest   = "credential_request"
)

// File signal names.
const (
	SignalSuspiciousExtension = "suspicious_extension"
	SignalMaliciousSignature  = "malicious_signature"
)

// textSignalOrder fixes the reporting order of text signals.
var textSignalOrder = []string{
	SignalSuspiciousLink,
	SignalEmailAddressPresent,
	SignalUrgentLanguage,
	SignalImpersonation,
	SignalCredentialRequest,
}

// SignalSet maps a signal name to its boolean presence.
type SignalSet map[string]bool

// Count returns the number of active signals.
func (s SignalSet) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Active returns the active signal names in a fixed order, with underscores
// replaced by spaces, matching the display format of the original reports.
func (s SignalSet) Active() []string {
	active := make([]string, 0, len(s))
	for _, name := range textSignalOrder {
		if s[name] {
			active = append(active, displayName(name))
		}
	}
	for _, name := range []string{SignalSuspiciousExtension, SignalMaliciousSignature} {
		if s[name] {
			active = append(active, displayName(name))
		}
	}
	return active
}

func displayName(signal string) string {
	out := []byte(signal)
	for i := range out {
		if out[i] == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}

// Message is a free-text input submitted for phishing analysis.
type Message struct {
	Body     string
	Language string
}

// ScanMetadata identifies a single scan for auditing.
type ScanMetadata struct {
	ScanID       string    `json:"scan_id"`
	Engine       string    `json:"engine"`
	TimestampUTC time.Time `json:"timestamp_utc"`
}

// TextAnalysis is the outcome of scoring a message.
type TextAnalysis struct {
	Verdict           Verdict      `json:"risk"`
	Confidence        int          `json:"confidence"`
	Score             int          `json:"score"`
	Signals           SignalSet    `json:"phishing_signals"`
	ActiveSignals     []string     `json:"active_signals"`
	ClassifierLabel   Label        `json:"classifier_label"`
	Explanation       string       `json:"ai_explanation"`
	RecommendedAction string       `json:"recommended_action"`
	Metadata          ScanMetadata `json:"scan_metadata"`
}

// FileAnalysis is the outcome of scoring an uploaded file.
type FileAnalysis struct {
	FileName    string       `json:"file_name"`
	Entropy     float64      `json:"entropy"`
	RiskScore   int          `json:"risk_score"`
	Verdict     Verdict      `json:"verdict"`
	Findings    []string     `json:"findings,omitempty"`
	Signals     SignalSet    `json:"signals,omitempty"`
	Status      string       `json:"status,omitempty"`
	Explanation string       `json:"ai_explanation"`
	Metadata    ScanMetadata `json:"scan_metadata"`
}

// CacheEntry is a stored analysis result keyed by content digest.
type CacheEntry struct {
	Key       string
	Domain    string
	Result    []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}
