package align

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/signal"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Now = testNow
	return opts
}

// --- Composite decisions ---

func TestScore_StrongAlignmentAutoSelects(t *testing.T) {
	sig := signal.Signal{
		Topics: []string{"tab", "menu", "border", "hover"},
		FilesTouched: []string{
			"src/ui/tabs.css",
			"src/ui/menu.css",
			"docs/border.md",
			"README.md",
		},
		Phase: signal.PhaseImplementation,
	}
	twoDaysAgo := testNow.Add(-48 * time.Hour)
	cand := folder.Candidate{
		ID:           "tab-menu-border-fix",
		NameTokens:   []string{"tab", "menu", "border", "fix"},
		KnownFiles:   []string{"src/ui/tabs.css", "src/ui/menu.css", "docs/border.md"},
		Stage:        signal.PhaseImplementation,
		LastModified: twoDaysAgo,
		FileTimes: map[string]time.Time{
			"src/ui/tabs.css": twoDaysAgo,
			"src/ui/menu.css": twoDaysAgo,
			"docs/border.md":  twoDaysAgo,
		},
	}

	got := Score(sig, []folder.Candidate{cand}, testOptions())

	if got.Outcome != AutoSelected {
		t.Fatalf("Outcome = %q, want %q", got.Outcome, AutoSelected)
	}
	if got.Chosen == nil || got.Chosen.CandidateID != "tab-menu-border-fix" {
		t.Fatalf("Chosen = %+v, want tab-menu-border-fix", got.Chosen)
	}
	res := *got.Chosen
	if res.TopicScore != 0.75 {
		t.Errorf("TopicScore = %v, want 0.75 (3 of 4 topics exact)", res.TopicScore)
	}
	if res.FileScore != 0.875 {
		t.Errorf("FileScore = %v, want 0.875 (3/4 matched, all fresh)", res.FileScore)
	}
	if res.PhaseScore != 1.0 {
		t.Errorf("PhaseScore = %v, want 1.0", res.PhaseScore)
	}
	if math.Abs(res.RecencyScore-0.8203) > 0.0005 {
		t.Errorf("RecencyScore = %v, want ~0.8203 (two-day half-life decay)", res.RecencyScore)
	}
	// 30 + 26.25 + 20 + 8.2 — lands just under 84.5.
	if math.Abs(res.Total-84.45) > 0.05 {
		t.Errorf("Total = %v, want ~84.45", res.Total)
	}
}

func TestScore_AutoSelectsHighestAboveThreshold(t *testing.T) {
	sig := signal.Signal{
		Topics: []string{"payments", "retry", "webhook", "backoff"},
		FilesTouched: []string{
			"src/pay/retry.go",
			"src/pay/webhook.go",
			"src/pay/backoff.go",
			"src/pay/queue.go",
			"docs/payments.md",
		},
		Phase: signal.PhaseImplementation,
	}
	candidates := []folder.Candidate{
		{
			ID:           "payments-backoff",
			NameTokens:   []string{"payments", "backoff"},
			KnownFiles:   []string{"src/pay/backoff.go", "src/pay/queue.go", "docs/payments.md"},
			Stage:        signal.PhaseImplementation,
			LastModified: testNow,
		},
		{
			ID:           "payments-retry-webhook",
			NameTokens:   []string{"payments", "retry", "webhook"},
			KnownFiles:   []string{"src/pay/retry.go", "src/pay/webhook.go"},
			Stage:        signal.PhaseImplementation,
			LastModified: testNow,
		},
	}

	got := Score(sig, candidates, testOptions())

	if got.Outcome != AutoSelected {
		t.Fatalf("Outcome = %q, want %q", got.Outcome, AutoSelected)
	}
	if got.Chosen.CandidateID != "payments-retry-webhook" {
		t.Errorf("Chosen = %q, want payments-retry-webhook", got.Chosen.CandidateID)
	}
	if len(got.Ranked) != 2 {
		t.Fatalf("len(Ranked) = %d, want 2 (runner-up stays ranked)", len(got.Ranked))
	}
	if math.Abs(got.Ranked[0].Total-72) > 0.05 {
		t.Errorf("Ranked[0].Total = %v, want ~72", got.Ranked[0].Total)
	}
	if math.Abs(got.Ranked[1].Total-68) > 0.05 {
		t.Errorf("Ranked[1].Total = %v, want ~68", got.Ranked[1].Total)
	}
	if got.Ranked[1].CandidateID != "payments-backoff" {
		t.Errorf("Ranked[1] = %q, want payments-backoff", got.Ranked[1].CandidateID)
	}
}

func TestScore_ThresholdBoundary(t *testing.T) {
	sig := signal.Signal{
		Topics: []string{"auth", "retry"},
		Phase:  signal.PhasePlanning,
	}
	base := folder.Candidate{
		ID:         "auth-retry",
		NameTokens: []string{"auth", "retry"},
		Stage:      signal.PhasePlanning,
	}

	// Full topic + phase + recency with no file evidence is exactly 70.
	at := base
	at.LastModified = testNow
	got := Score(sig, []folder.Candidate{at}, testOptions())
	if got.Ranked[0].Total != 70.0 {
		t.Fatalf("Total = %v, want exactly 70.0", got.Ranked[0].Total)
	}
	if got.Outcome != AutoSelected {
		t.Errorf("Outcome at 70.0 = %q, want %q", got.Outcome, AutoSelected)
	}

	// One minute of decay drops the total a hair under the threshold.
	below := base
	below.LastModified = testNow.Add(-time.Minute)
	got = Score(sig, []folder.Candidate{below}, testOptions())
	if total := got.Ranked[0].Total; total >= 70.0 || total < 69.99 {
		t.Fatalf("Total = %v, want just below 70", total)
	}
	if got.Outcome != PromptUser {
		t.Errorf("Outcome below threshold = %q, want %q", got.Outcome, PromptUser)
	}
	if got.Chosen != nil {
		t.Errorf("Chosen = %+v, want nil for PromptUser", got.Chosen)
	}
}

func TestScore_ExcludedNeverRanked(t *testing.T) {
	sig := signal.Signal{Topics: []string{"feature"}, Phase: signal.PhaseUnknown}
	candidates := []folder.Candidate{
		{ID: "feature-work", NameTokens: []string{"feature", "work"}, LastModified: testNow},
		{ID: "z_old-feature", NameTokens: []string{"old", "feature"}, LastModified: testNow, Excluded: true},
		{ID: "old-feature-take2", NameTokens: []string{"old", "feature", "take2"}, LastModified: testNow},
		{ID: "feature-archive", NameTokens: []string{"feature", "archive"}, LastModified: testNow},
	}

	got := Score(sig, candidates, testOptions())

	if got.Outcome == NoCandidates {
		t.Fatal("Outcome = NoCandidates, want scored decision")
	}
	for _, r := range got.Ranked {
		if r.CandidateID != "feature-work" {
			t.Errorf("excluded candidate %q appeared in ranked list", r.CandidateID)
		}
	}
	if got.Chosen != nil && got.Chosen.CandidateID != "feature-work" {
		t.Errorf("Chosen = %q, want feature-work or nil", got.Chosen.CandidateID)
	}
}

func TestScore_ExcludedNameWithoutFlag(t *testing.T) {
	// The name rules hold even when the catalog flag was not set.
	sig := signal.Signal{Topics: []string{"feature"}}
	got := Score(sig, []folder.Candidate{
		{ID: "z_old-feature", NameTokens: []string{"old", "feature"}, LastModified: testNow},
	}, testOptions())
	if got.Outcome != NoCandidates {
		t.Errorf("Outcome = %q, want %q", got.Outcome, NoCandidates)
	}
}

func TestScore_EmptyCandidates(t *testing.T) {
	sig := signal.Signal{Topics: []string{"anything"}}

	got := Score(sig, nil, testOptions())
	if got.Outcome != NoCandidates {
		t.Errorf("Outcome = %q, want %q", got.Outcome, NoCandidates)
	}
	if got.Chosen != nil || len(got.Ranked) != 0 {
		t.Errorf("NoCandidates decision carries data: %+v", got)
	}
}

func TestScore_Deterministic(t *testing.T) {
	sig := signal.Signal{
		Topics:       []string{"parser", "tokens", "cache"},
		FilesTouched: []string{"internal/parse/parse.go", "internal/cache/lru.go"},
		Phase:        signal.PhaseVerification,
	}
	candidates := []folder.Candidate{
		{
			ID:           "parser-rework",
			NameTokens:   []string{"parser", "rework"},
			KnownFiles:   []string{"internal/parse/parse.go"},
			Stage:        signal.PhaseVerification,
			LastModified: testNow.Add(-72 * time.Hour),
			FileTimes:    map[string]time.Time{"internal/parse/parse.go": testNow.Add(-time.Hour)},
		},
		{
			ID:           "cache-eviction",
			NameTokens:   []string{"cache", "eviction"},
			KnownFiles:   []string{"internal/cache/lru.go"},
			Stage:        signal.PhaseImplementation,
			LastModified: testNow.Add(-240 * time.Hour),
		},
		{ID: "docs-sweep", NameTokens: []string{"docs", "sweep"}, LastModified: testNow.Add(-1000 * time.Hour)},
	}

	first := Score(sig, candidates, testOptions())
	for i := 0; i < 5; i++ {
		again := Score(sig, candidates, testOptions())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed:\nfirst = %+v\nagain = %+v", i, first, again)
		}
	}
}

func TestScore_TieBreakRecencyThenID(t *testing.T) {
	sig := signal.Signal{Topics: []string{"tab", "menu"}, Phase: signal.PhasePlanning}

	// Same total (65) through different channels: the fresher folder
	// wins the tie.
	byRecency := []folder.Candidate{
		{
			ID:           "exact-tokens",
			NameTokens:   []string{"tab", "menu"},
			Stage:        signal.PhasePlanning,
			LastModified: testNow.Add(-7 * 24 * time.Hour),
		},
		{
			ID:           "fuzzy-tokens",
			NameTokens:   []string{"tabs", "menu"},
			Stage:        signal.PhasePlanning,
			LastModified: testNow,
		},
	}
	got := Score(sig, byRecency, testOptions())
	if got.Ranked[0].Total != got.Ranked[1].Total {
		t.Fatalf("totals differ (%v vs %v), fixture broken", got.Ranked[0].Total, got.Ranked[1].Total)
	}
	if got.Ranked[0].CandidateID != "fuzzy-tokens" {
		t.Errorf("Ranked[0] = %q, want fuzzy-tokens (fresher wins tie)", got.Ranked[0].CandidateID)
	}

	// Identical scores fall back to ID order.
	byID := []folder.Candidate{
		{ID: "beta-sync", NameTokens: []string{"tab", "menu"}, Stage: signal.PhasePlanning, LastModified: testNow},
		{ID: "alpha-sync", NameTokens: []string{"tab", "menu"}, Stage: signal.PhasePlanning, LastModified: testNow},
	}
	got = Score(sig, byID, testOptions())
	if got.Ranked[0].CandidateID != "alpha-sync" {
		t.Errorf("Ranked[0] = %q, want alpha-sync (ID ascending on full tie)", got.Ranked[0].CandidateID)
	}
}

func TestScore_WeightsAndBounds(t *testing.T) {
	if w := weightTopic + weightFile + weightPhase + weightRecency; w != 1.0 {
		t.Fatalf("weights sum to %v, want 1.0", w)
	}

	sig := signal.Signal{
		Topics:       []string{"alpha", "beta"},
		FilesTouched: []string{"a.go", "b.go"},
		Phase:        signal.PhaseImplementation,
	}
	candidates := []folder.Candidate{
		{
			ID:           "perfect",
			NameTokens:   []string{"alpha", "beta"},
			KnownFiles:   []string{"a.go", "b.go"},
			Stage:        signal.PhaseImplementation,
			LastModified: testNow,
		},
		{ID: "hollow"},
		{
			ID:           "partial",
			NameTokens:   []string{"alphas"},
			KnownFiles:   []string{"b.go"},
			Stage:        signal.PhaseVerification,
			LastModified: testNow.Add(-100 * 24 * time.Hour),
		},
	}

	got := Score(sig, candidates, testOptions())
	for _, r := range got.Ranked {
		for name, v := range map[string]float64{
			"TopicScore":   r.TopicScore,
			"FileScore":    r.FileScore,
			"PhaseScore":   r.PhaseScore,
			"RecencyScore": r.RecencyScore,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%s: %s = %v, want within [0,1]", r.CandidateID, name, v)
			}
		}
		if r.Total < 0 || r.Total > 100 {
			t.Errorf("%s: Total = %v, want within [0,100]", r.CandidateID, r.Total)
		}
	}
	if top := got.Ranked[0]; top.CandidateID != "perfect" || top.Total != 100.0 {
		t.Errorf("Ranked[0] = %q at %v, want perfect at 100", top.CandidateID, top.Total)
	}
}

// --- Options ---

func TestScore_NoAutoSaveForcesPrompt(t *testing.T) {
	sig := signal.Signal{Topics: []string{"auth"}, Phase: signal.PhasePlanning}
	cand := folder.Candidate{
		ID:           "auth",
		NameTokens:   []string{"auth"},
		Stage:        signal.PhasePlanning,
		LastModified: testNow,
	}

	opts := testOptions()
	opts.AutoSave = false
	got := Score(sig, []folder.Candidate{cand}, opts)

	if got.Outcome != PromptUser {
		t.Errorf("Outcome = %q, want %q when auto-save is off", got.Outcome, PromptUser)
	}
	if got.Ranked[0].Total < AutoSelectThreshold {
		t.Errorf("fixture total = %v, want above threshold to prove the override", got.Ranked[0].Total)
	}
}

func TestScore_ExplicitFolderWins(t *testing.T) {
	sig := signal.Signal{Topics: []string{"auth"}, Phase: signal.PhasePlanning}
	candidates := []folder.Candidate{
		{ID: "auth", NameTokens: []string{"auth"}, Stage: signal.PhasePlanning, LastModified: testNow},
		{ID: "misc-notes", NameTokens: []string{"misc", "notes"}, LastModified: testNow.Add(-2000 * time.Hour)},
	}

	opts := testOptions()
	opts.ExplicitFolder = "misc-notes"
	got := Score(sig, candidates, opts)

	if got.Outcome != AutoSelected {
		t.Fatalf("Outcome = %q, want %q", got.Outcome, AutoSelected)
	}
	if got.Chosen.CandidateID != "misc-notes" {
		t.Errorf("Chosen = %q, want the explicit folder", got.Chosen.CandidateID)
	}
	if got.Ranked[0].CandidateID != "auth" {
		t.Errorf("Ranked[0] = %q, want auth (ranking unaffected by override)", got.Ranked[0].CandidateID)
	}
}

func TestScore_ExplicitFolderNeverResurrectsExcluded(t *testing.T) {
	sig := signal.Signal{Topics: []string{"auth"}, Phase: signal.PhasePlanning}
	candidates := []folder.Candidate{
		{ID: "auth", NameTokens: []string{"auth"}, Stage: signal.PhasePlanning, LastModified: testNow},
		{ID: "z_retired", NameTokens: []string{"retired"}, LastModified: testNow, Excluded: true},
	}

	opts := testOptions()
	opts.ExplicitFolder = "z_retired"
	got := Score(sig, candidates, opts)

	if got.Chosen != nil && got.Chosen.CandidateID == "z_retired" {
		t.Error("explicit folder selected an excluded candidate")
	}
	// Unknown names fall through to normal selection too.
	opts.ExplicitFolder = "does-not-exist"
	got = Score(sig, candidates, opts)
	if got.Outcome != AutoSelected || got.Chosen.CandidateID != "auth" {
		t.Errorf("fallthrough decision = %+v, want auth auto-selected", got)
	}
}

func TestScore_ZeroNowReadsClock(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return testNow }
	defer func() { timeNow = restore }()

	sig := signal.Signal{Topics: []string{"auth"}, Phase: signal.PhasePlanning}
	cand := folder.Candidate{
		ID: "auth", NameTokens: []string{"auth"},
		Stage: signal.PhasePlanning, LastModified: testNow,
	}

	opts := DefaultOptions() // Now left zero
	got := Score(sig, []folder.Candidate{cand}, opts)
	want := Score(sig, []folder.Candidate{cand}, testOptions())
	if !reflect.DeepEqual(got, want) {
		t.Errorf("clock fallback decision = %+v, want %+v", got, want)
	}
}

func TestScore_PartialCandidateData(t *testing.T) {
	sig := signal.Signal{
		Topics:       []string{"auth"},
		FilesTouched: []string{"a.go"},
		Phase:        signal.PhasePlanning,
	}
	got := Score(sig, []folder.Candidate{{ID: "bare"}}, testOptions())

	if got.Outcome != PromptUser {
		t.Fatalf("Outcome = %q, want %q", got.Outcome, PromptUser)
	}
	r := got.Ranked[0]
	if r.TopicScore != 0 || r.FileScore != 0 {
		t.Errorf("bare candidate scores = %+v, want zero topic and file", r)
	}
	if r.PhaseScore != 0.5 {
		t.Errorf("PhaseScore = %v, want 0.5 for unknown stage", r.PhaseScore)
	}
	if r.RecencyScore != minRecencyScore {
		t.Errorf("RecencyScore = %v, want floor %v for zero mtime", r.RecencyScore, minRecencyScore)
	}
}
