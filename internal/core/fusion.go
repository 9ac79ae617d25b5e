package core

// FusionPolicy holds the deterministic scoring constants. Thresholds are
// policy data: tunable through configuration, never adaptive within a
// request. Boundary comparisons are part of the contract; changing a >= to
// a > is a correctness bug, not a tuning decision.
type FusionPolicy struct {
	// Text domain.
	TextDangerousThreshold  int
	TextSuspiciousThreshold int
	WeightDangerous         int
	WeightSuspicious        int

	// File domain, signature table.
	ExtensionWeight         int
	SignatureWeight         int
	FileMaliciousThreshold  int
	FileSuspiciousThreshold int

	// File domain, entropy table.
	EntropyMalicious      float64
	EntropySuspicious     float64
	EntropyMaliciousRisk  int
	EntropySuspiciousRisk int
	EntropyCleanRisk      int
}

// DefaultFusionPolicy returns the canonical threshold tables.
func DefaultFusionPolicy() FusionPolicy {
	return FusionPolicy{
		TextDangerousThreshold:  4,
		TextSuspiciousThreshold: 2,
		WeightDangerous:         3,
		WeightSuspicious:        1,

		ExtensionWeight:         30,
		SignatureWeight:         40,
		FileMaliciousThreshold:  70,
		FileSuspiciousThreshold: 40,

		EntropyMalicious:      7.6,
		EntropySuspicious:     6.8,
		EntropyMaliciousRisk:  90,
		EntropySuspiciousRisk: 60,
		EntropyCleanRisk:      20,
	}
}

// ClassifierWeight maps a classifier label to its additive score
// contribution.
func (p FusionPolicy) ClassifierWeight(label Label) int {
	switch label {
	case LabelDangerous:
		return p.WeightDangerous
	case LabelSuspicious:
		return p.WeightSuspicious
	default:
		return 0
	}
}

// FuseText combines the heuristic signals and the classifier label into a
// single non-negative score.
func (p FusionPolicy) FuseText(signals SignalSet, label Label) int {
	return signals.Count() + p.ClassifierWeight(label)
}

// MapTextVerdict maps a fused text score to a verdict and a confidence
// percentage.
func (p FusionPolicy) MapTextVerdict(score int) (Verdict, int) {
	switch {
	case score >= p.TextDangerousThreshold:
		return VerdictDangerous, min(95, 70+score*5)
	case score >= p.TextSuspiciousThreshold:
		return VerdictSuspicious, min(85, 55+score*5)
	default:
		return VerdictSafe, max(30, 85-score*10)
	}
}

// FuseFile combines signature findings into a single score.
func (p FusionPolicy) FuseFile(report ScanReport) int {
	score := 0
	if report.SuspiciousExtension {
		score += p.ExtensionWeight
	}
	score += p.SignatureWeight * report.MatchedSignatures
	return score
}

// MapFileVerdict maps a fused signature score to a verdict and the reported
// risk score, which is nudged up by 10 and capped at 100.
func (p FusionPolicy) MapFileVerdict(score int) (Verdict, int) {
	reported := min(score+10, 100)
	switch {
	case score >= p.FileMaliciousThreshold:
		return VerdictMalicious, reported
	case score >= p.FileSuspiciousThreshold:
		return VerdictSuspicious, reported
	default:
		return VerdictClean, reported
	}
}

// MapEntropyVerdict maps a file's Shannon entropy to a verdict and risk
// score using the entropy-only table.
func (p FusionPolicy) MapEntropyVerdict(entropy float64) (Verdict, int) {
	switch {
	case entropy > p.EntropyMalicious:
		return VerdictMalicious, p.EntropyMaliciousRisk
	case entropy > p.EntropySuspicious:
		return VerdictSuspicious, p.EntropySuspiciousRisk
	default:
		return VerdictClean, p.EntropyCleanRisk
	}
}
