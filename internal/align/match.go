package align

import (
	"math"
	"strings"
	"time"

	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/signal"
)

// Match qualities for topic scoring, best match per topic wins.
const (
	qualityExact     = 1.0
	qualitySubstring = 0.75
	qualityFuzzy     = 0.5
)

// minSubstringLen guards substring matches: the contained side must be
// at least this long, or "re" would match "requirements".
const minSubstringLen = 3

// recencyHalfLifeDays halves a candidate's recency score every week.
const recencyHalfLifeDays = 7.0

// minRecencyScore is the floor for stale candidates; recency never
// reaches exactly zero.
const minRecencyScore = 0.001

// topicScore measures fuzzy token overlap between conversation topics
// and folder name tokens: each topic contributes its best match quality,
// normalized by the topic count.
func topicScore(topics, nameTokens []string, maxEditDistance int) float64 {
	if len(topics) == 0 || len(nameTokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, topic := range topics {
		sum += matchQuality(topic, nameTokens, maxEditDistance)
	}
	return clamp01(sum / float64(len(topics)))
}

func matchQuality(topic string, nameTokens []string, maxEditDistance int) float64 {
	best := 0.0
	for _, tok := range nameTokens {
		switch {
		case topic == tok:
			return qualityExact
		case containsToken(topic, tok):
			best = max(best, qualitySubstring)
		case maxEditDistance > 0 && withinEditDistance(topic, tok, maxEditDistance):
			best = max(best, qualityFuzzy)
		}
	}
	return best
}

// containsToken reports substring containment in either direction, with
// the contained side at least minSubstringLen runes.
func containsToken(a, b string) bool {
	if len(a) >= minSubstringLen && len(b) > len(a) && strings.Contains(b, a) {
		return true
	}
	return len(b) >= minSubstringLen && len(a) > len(b) && strings.Contains(a, b)
}

// withinEditDistance reports whether two tokens differ by at most limit
// single-rune insertions, deletions, or substitutions.
func withinEditDistance(a, b string, limit int) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(rb)-len(ra) > limit {
		return false
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
			rowMin = min(rowMin, curr[i])
		}
		if rowMin > limit {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)] <= limit
}

// fileScore measures overlap between touched files and the candidate's
// known files. The matched fraction is boosted toward 1.0 by the share
// of matched files modified within the freshness window. No touched
// files means no evidence, which scores zero rather than guessing.
func fileScore(touched []string, c folder.Candidate, freshWindow time.Duration, now time.Time) float64 {
	touched = signal.CleanPaths(touched)
	if len(touched) == 0 {
		return 0
	}
	known := make(map[string]bool, len(c.KnownFiles))
	for _, f := range signal.CleanPaths(c.KnownFiles) {
		known[f] = true
	}

	matched, fresh := 0, 0
	for _, f := range touched {
		if !known[f] {
			continue
		}
		matched++
		if mtime, ok := c.FileTimes[f]; ok && now.Sub(mtime) <= freshWindow {
			fresh++
		}
	}
	if matched == 0 {
		return 0
	}

	m := float64(matched) / float64(len(touched))
	r := float64(fresh) / float64(matched)
	return clamp01(m + 0.5*r*(1-m))
}

// phaseScore compares workflow phases: 1.0 on a known match, 0.0 on a
// known mismatch, 0.5 when either side is unknown.
func phaseScore(sigPhase, stage signal.Phase) float64 {
	if !sigPhase.Known() || !stage.Known() {
		return 0.5
	}
	if sigPhase == stage {
		return 1.0
	}
	return 0.0
}

// recencyScore decays with folder age: 2^(-ageDays/7), clamped to 1.0
// for timestamps in the future and floored so stale folders keep a
// nonzero pulse. A zero LastModified means missing metadata and earns
// only the floor.
func recencyScore(lastModified, now time.Time) float64 {
	if lastModified.IsZero() {
		return minRecencyScore
	}
	age := now.Sub(lastModified)
	if age < 0 {
		return 1.0
	}
	days := age.Hours() / 24
	score := math.Exp2(-days / recencyHalfLifeDays)
	if score < minRecencyScore {
		return minRecencyScore
	}
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
