package judge

import (
	"strings"
	"testing"
)

func TestParseScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		response    string
		wantScore   float64
		wantExplain string
	}{
		{
			name:        "well formed",
			response:    "SCORE: 0.83\nEXPLANATION: looks good",
			wantScore:   0.83,
			wantExplain: "looks good",
		},
		{
			name:        "lowercase labels",
			response:    "score: 0.4\nexplanation: weak answer",
			wantScore:   0.4,
			wantExplain: "weak answer",
		},
		{
			name:        "leading whitespace and surrounding prose",
			response:    "Here is my assessment.\n  SCORE: 0.75\n  EXPLANATION: mostly correct\nThanks!",
			wantScore:   0.75,
			wantExplain: "mostly correct",
		},
		{
			name:        "trailing text after score value",
			response:    "SCORE: 0.6 out of 1.0\nEXPLANATION: partial",
			wantScore:   0.6,
			wantExplain: "partial",
		},
		{
			name:        "clamped above one",
			response:    "SCORE: 1.4\nEXPLANATION: enthusiastic",
			wantScore:   1.0,
			wantExplain: "enthusiastic",
		},
		{
			name:        "clamped below zero",
			response:    "SCORE: -0.3\nEXPLANATION: hostile",
			wantScore:   0.0,
			wantExplain: "hostile",
		},
		{
			name:        "missing explanation",
			response:    "SCORE: 0.9",
			wantScore:   0.9,
			wantExplain: "Evaluation completed",
		},
		{
			name:        "missing score with explanation",
			response:    "EXPLANATION: no number today",
			wantScore:   0.5,
			wantExplain: "no number today",
		},
		{
			name:        "no recognizable lines",
			response:    "The response seems adequate overall.",
			wantScore:   0.5,
			wantExplain: "Evaluation completed",
		},
		{
			name:        "empty response",
			response:    "",
			wantScore:   0.5,
			wantExplain: "Evaluation completed",
		},
		{
			name:        "empty score value",
			response:    "SCORE:\nEXPLANATION: blank value",
			wantScore:   0.5,
			wantExplain: "blank value",
		},
		{
			name:      "judge failure sentinel",
			response:  "LLM evaluation failed: connection reset",
			wantScore: 0.5,
			// No SCORE/EXPLANATION lines; neutral defaults apply.
			wantExplain: "Evaluation completed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			score, explanation := ParseScore(tc.response)
			if score != tc.wantScore {
				t.Fatalf("score = %v, want %v", score, tc.wantScore)
			}
			if explanation != tc.wantExplain {
				t.Fatalf("explanation = %q, want %q", explanation, tc.wantExplain)
			}
		})
	}
}

func TestParseScore_GarbledNumber(t *testing.T) {
	t.Parallel()

	score, explanation := ParseScore("SCORE: banana\nEXPLANATION: ignored")
	if score != 0.5 {
		t.Fatalf("score = %v, want 0.5", score)
	}
	if !strings.HasPrefix(explanation, "Failed to parse evaluation: ") {
		t.Fatalf("explanation = %q, want parse-failure diagnostic", explanation)
	}
}
