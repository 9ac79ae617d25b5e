package core

import (
	"testing"
)

func TestFuseText(t *testing.T) {
	policy := DefaultFusionPolicy()

	signals := SignalSet{
		SignalSuspiciousLink:    true,
		SignalUrgentLanguage:    true,
		SignalCredentialRequest: false,
	}

	tests := []struct {
		label Label
		want  int
	}{
		{LabelSafe, 2},
		{LabelSuspicious, 3},
		{LabelDangerous, 5},
	}

	for _, tt := range tests {
		if got := policy.FuseText(signals, tt.label); got != tt.want {
			t.Errorf("FuseText(2 signals, %s) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestMapTextVerdict(t *testing.T) {
	policy := DefaultFusionPolicy()

	tests := []struct {
		score          int
		wantVerdict    Verdict
		wantConfidence int
	}{
		{0, VerdictSafe, 85},
		{1, VerdictSafe, 75},
		{2, VerdictSuspicious, 65},
		{3, VerdictSuspicious, 70},
		{4, VerdictDangerous, 90},
		{5, VerdictDangerous, 95},
		{8, VerdictDangerous, 95}, // confidence capped
	}

	for _, tt := range tests {
		verdict, confidence := policy.MapTextVerdict(tt.score)
		if verdict != tt.wantVerdict || confidence != tt.wantConfidence {
			t.Errorf("MapTextVerdict(%d) = (%s, %d), want (%s, %d)",
				tt.score, verdict, confidence, tt.wantVerdict, tt.wantConfidence)
		}
	}
}

func TestMapTextVerdictConfidenceFloor(t *testing.T) {
	policy := DefaultFusionPolicy()
	policy.TextSuspiciousThreshold = 10
	policy.TextDangerousThreshold = 20

	if _, confidence := policy.MapTextVerdict(9); confidence != 30 {
		t.Errorf("safe confidence = %d, want floor 30", confidence)
	}
}

func TestFuseFile(t *testing.T) {
	policy := DefaultFusionPolicy()

	tests := []struct {
		name   string
		report ScanReport
		want   int
	}{
		{"clean", ScanReport{}, 0},
		{"extension only", ScanReport{SuspiciousExtension: true}, 30},
		{"one signature", ScanReport{MatchedSignatures: 1}, 40},
		{"extension plus two signatures", ScanReport{SuspiciousExtension: true, MatchedSignatures: 2}, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.FuseFile(tt.report); got != tt.want {
				t.Errorf("FuseFile(%+v) = %d, want %d", tt.report, got, tt.want)
			}
		})
	}
}

func TestMapFileVerdict(t *testing.T) {
	policy := DefaultFusionPolicy()

	tests := []struct {
		score       int
		wantVerdict Verdict
		wantRisk    int
	}{
		{0, VerdictClean, 10},
		{30, VerdictClean, 40},
		{40, VerdictSuspicious, 50},
		{70, VerdictMalicious, 80},
		{110, VerdictMalicious, 100}, // reported risk capped
	}

	for _, tt := range tests {
		verdict, risk := policy.MapFileVerdict(tt.score)
		if verdict != tt.wantVerdict || risk != tt.wantRisk {
			t.Errorf("MapFileVerdict(%d) = (%s, %d), want (%s, %d)",
				tt.score, verdict, risk, tt.wantVerdict, tt.wantRisk)
		}
	}
}

func TestMapEntropyVerdict(t *testing.T) {
	policy := DefaultFusionPolicy()

	tests := []struct {
		entropy     float64
		wantVerdict Verdict
		wantRisk    int
	}{
		{0, VerdictClean, 20},
		{6.8, VerdictClean, 20}, // boundary is exclusive
		{6.81, VerdictSuspicious, 60},
		{7.6, VerdictSuspicious, 60}, // boundary is exclusive
		{7.61, VerdictMalicious, 90},
		{8.0, VerdictMalicious, 90},
	}

	for _, tt := range tests {
		verdict, risk := policy.MapEntropyVerdict(tt.entropy)
		if verdict != tt.wantVerdict || risk != tt.wantRisk {
			t.Errorf("MapEntropyVerdict(%v) = (%s, %d), want (%s, %d)",
				tt.entropy, verdict, risk, tt.wantVerdict, tt.wantRisk)
		}
	}
}
