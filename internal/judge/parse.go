package judge

import (
	"strconv"
	"strings"
)

// ParseScore extracts a score and explanation from a judge reply.
//
// The reply is unstructured natural language, not a guaranteed grammar, so
// parsing is best-effort by contract: it scans line by line for "SCORE:"
// and "EXPLANATION:" (case-insensitive), takes the first token after
// "SCORE:" as the number, clamps to [0,1], and falls back to a neutral 0.5
// when no score line parses. A malformed score value yields the diagnostic
// "Failed to parse evaluation" explanation; a missing explanation line
// yields "Evaluation completed".
func ParseScore(response string) (score float64, explanation string) {
	score = 0.5
	explanation = "Evaluation completed"

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(upper, "SCORE:"):
			value := afterColon(line)
			if fields := strings.Fields(value); len(fields) > 0 {
				value = fields[0]
			} else {
				value = "0.5"
			}
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0.5, "Failed to parse evaluation: " + err.Error()
			}
			score = f
		case strings.HasPrefix(upper, "EXPLANATION:"):
			explanation = afterColon(line)
		}
	}

	return clamp01(score), explanation
}

func afterColon(line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
