package core

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileScanner matches uploaded files against a fixed deny-set of extensions
// and a fixed list of byte signatures. Both lists are configuration data.
type FileScanner struct {
	denyExtensions map[string]bool
	signatures     []Signature
	logger         *zap.Logger
}

// Signature is a named byte marker associated with known-bad tooling.
type Signature struct {
	Name    string
	Pattern []byte
}

// ScanReport holds the raw findings of a signature scan before fusion.
type ScanReport struct {
	SuspiciousExtension bool
	Extension           string
	MatchedSignatures   int
	Findings            []string
}

// DefaultDenyExtensions is the built-in extension deny-set.
func DefaultDenyExtensions() []string {
	return []string{".exe", ".dll", ".js", ".bat", ".cmd", ".ps1", ".vbs", ".jar"}
}

// DefaultSignatures returns the built-in byte signature list. Markers are
// plain substrings of shell and remote-execution tooling seen in droppers.
func DefaultSignatures() []Signature {
	return []Signature{
		{Name: "powershell-encoded-command", Pattern: []byte("powershell -enc")},
		{Name: "powershell-invoke-expression", Pattern: []byte("Invoke-Expression")},
		{Name: "cmd-remote-shell", Pattern: []byte("cmd.exe /c")},
		{Name: "wscript-shell", Pattern: []byte("WScript.Shell")},
		{Name: "eval-base64", Pattern: []byte("eval(base64_decode")},
		{Name: "remote-thread-injection", Pattern: []byte("CreateRemoteThread")},
		{Name: "curl-pipe-shell", Pattern: []byte("curl | sh")},
	}
}

// NewFileScanner builds a scanner from an extension deny-set and a
// signature list.
func NewFileScanner(denyExtensions []string, signatures []Signature, logger *zap.Logger) *FileScanner {
	deny := make(map[string]bool, len(denyExtensions))
	for _, ext := range denyExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		deny[ext] = true
	}

	return &FileScanner{
		denyExtensions: deny,
		signatures:     signatures,
		logger:         logger,
	}
}

// Scan checks the filename extension against the deny-set and the raw bytes
// against every signature. One finding is recorded per signature match;
// findings are not deduplicated across signatures.
func (s *FileScanner) Scan(filename string, data []byte) ScanReport {
	report := ScanReport{
		Extension: strings.ToLower(filepath.Ext(filename)),
	}

	if s.denyExtensions[report.Extension] {
		report.SuspiciousExtension = true
		report.Findings = append(report.Findings,
			fmt.Sprintf("suspicious extension %s", report.Extension))
	}

	for _, sig := range s.signatures {
		if bytes.Contains(data, sig.Pattern) {
			report.MatchedSignatures++
			report.Findings = append(report.Findings,
				fmt.Sprintf("matched signature %s", sig.Name))
		}
	}

	if s.logger != nil && (report.SuspiciousExtension || report.MatchedSignatures > 0) {
		s.logger.Info("File scan findings",
			zap.String("file", filename),
			zap.String("extension", report.Extension),
			zap.Int("signature_matches", report.MatchedSignatures))
	}
	return report
}

// Signals converts the report into the file-domain SignalSet.
func (r ScanReport) Signals() SignalSet {
	return SignalSet{
		SignalSuspiciousExtension: r.SuspiciousExtension,
		SignalMaliciousSignature:  r.MatchedSignatures > 0,
	}
}
