// Package align - conversation to spec-folder alignment scoring.
//
// The scorer answers one question: which spec folder does this
// conversation belong to? Each candidate folder earns a composite score
// from four evidence channels (topic overlap, file overlap, workflow
// phase, folder recency), and the decision is either a silent selection,
// a prompt with the ranked list, or a report that nothing matched.
//
// Scoring is pure: candidates and the clock instant come in as
// arguments, nothing is read from disk or the environment.
package align

import (
	"sort"
	"time"

	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/signal"
)

// Component weights of the composite score. They sum to 1.0.
const (
	weightTopic   = 0.40
	weightFile    = 0.30
	weightPhase   = 0.20
	weightRecency = 0.10
)

// maxTotal is the score ceiling; totals are reported on a 0-100 scale.
const maxTotal = 100.0

// AutoSelectThreshold is the minimum total for selecting a folder
// without asking. Below it the caller must prompt.
const AutoSelectThreshold = 70.0

// Outcome is the kind of decision the scorer reached.
type Outcome string

const (
	AutoSelected Outcome = "AutoSelected"
	PromptUser   Outcome = "PromptUser"
	NoCandidates Outcome = "NoCandidates"
)

// ScoreResult holds one candidate's sub-scores and composite total.
// Sub-scores are in [0,1], Total in [0,100].
type ScoreResult struct {
	CandidateID  string  `json:"candidateId"`
	TopicScore   float64 `json:"topicScore"`
	FileScore    float64 `json:"fileScore"`
	PhaseScore   float64 `json:"phaseScore"`
	RecencyScore float64 `json:"recencyScore"`
	Total        float64 `json:"total"`
}

// Decision is the scorer's verdict over a candidate set.
type Decision struct {
	Outcome Outcome       `json:"outcome"`
	Chosen  *ScoreResult  `json:"chosen,omitempty"`
	Ranked  []ScoreResult `json:"ranked,omitempty"`
}

// Options are the boundary-resolved knobs for one scoring call. The
// zero value disables auto-selection and fuzzy distance matching; start
// from DefaultOptions.
type Options struct {
	// AutoSave permits silent selection above the threshold. When false
	// every non-empty result becomes PromptUser.
	AutoSave bool

	// ExplicitFolder routes to the named candidate regardless of its
	// total, provided it exists and is not excluded.
	ExplicitFolder string

	// MaxEditDistance is the fuzzy tolerance for topic matching.
	// 0 disables edit-distance matching; substring containment always
	// applies.
	MaxEditDistance int

	// FreshWindow bounds the file-overlap freshness boost.
	FreshWindow time.Duration

	// Now is the scoring instant. Zero means "read the clock once at
	// the start of the call".
	Now time.Time
}

// DefaultOptions returns the standard scoring options.
func DefaultOptions() Options {
	return Options{
		AutoSave:        true,
		MaxEditDistance: 1,
		FreshWindow:     7 * 24 * time.Hour,
	}
}

// Score ranks candidates against a conversation signal and decides how
// to proceed. Excluded candidates are dropped before scoring; an empty
// field yields NoCandidates. The ranked list is ordered by total
// descending, ties broken by recency descending then ID ascending, so
// identical inputs always produce identical output.
func Score(sig signal.Signal, candidates []folder.Candidate, opts Options) Decision {
	now := opts.Now
	if now.IsZero() {
		now = timeNow()
	}
	if opts.FreshWindow <= 0 {
		opts.FreshWindow = DefaultOptions().FreshWindow
	}

	ranked := make([]ScoreResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Excluded || folder.IsExcludedName(c.ID) {
			continue
		}
		ranked = append(ranked, scoreOne(sig, c, opts, now))
	}

	if len(ranked) == 0 {
		return Decision{Outcome: NoCandidates}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		if ranked[i].RecencyScore != ranked[j].RecencyScore {
			return ranked[i].RecencyScore > ranked[j].RecencyScore
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	if opts.ExplicitFolder != "" {
		for i := range ranked {
			if ranked[i].CandidateID == opts.ExplicitFolder {
				chosen := ranked[i]
				return Decision{Outcome: AutoSelected, Chosen: &chosen, Ranked: ranked}
			}
		}
	}

	if opts.AutoSave && ranked[0].Total >= AutoSelectThreshold {
		chosen := ranked[0]
		return Decision{Outcome: AutoSelected, Chosen: &chosen, Ranked: ranked}
	}

	return Decision{Outcome: PromptUser, Ranked: ranked}
}

func scoreOne(sig signal.Signal, c folder.Candidate, opts Options, now time.Time) ScoreResult {
	res := ScoreResult{
		CandidateID:  c.ID,
		TopicScore:   topicScore(sig.Topics, c.NameTokens, opts.MaxEditDistance),
		FileScore:    fileScore(sig.FilesTouched, c, opts.FreshWindow, now),
		PhaseScore:   phaseScore(sig.Phase, c.Stage),
		RecencyScore: recencyScore(c.LastModified, now),
	}
	// 40, 30, 20, and 10 are exact in float64; full channels sum
	// without rounding error.
	res.Total = maxTotal*weightTopic*res.TopicScore +
		maxTotal*weightFile*res.FileScore +
		maxTotal*weightPhase*res.PhaseScore +
		maxTotal*weightRecency*res.RecencyScore
	return res
}
