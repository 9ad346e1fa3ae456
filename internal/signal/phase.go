package signal

import "strings"

// Phase identifies where in the workflow a conversation (or a spec
// folder) currently sits.
type Phase string

const (
	PhasePlanning       Phase = "planning"
	PhaseImplementation Phase = "implementation"
	PhaseVerification   Phase = "verification"
	PhaseUnknown        Phase = "unknown"
)

// validPhases is the set of phases that carry signal. PhaseUnknown is
// valid input but matches nothing.
var validPhases = map[Phase]bool{
	PhasePlanning:       true,
	PhaseImplementation: true,
	PhaseVerification:   true,
}

// ParsePhase normalizes a free-form phase string. Unrecognized values
// map to PhaseUnknown rather than erroring, so callers can pass raw
// input straight through.
func ParsePhase(s string) Phase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planning", "plan", "design":
		return PhasePlanning
	case "implementation", "implement", "impl", "build":
		return PhaseImplementation
	case "verification", "verify", "review", "test":
		return PhaseVerification
	default:
		return PhaseUnknown
	}
}

// Known reports whether p is a concrete phase (not unknown).
func (p Phase) Known() bool {
	return validPhases[p]
}

// PhaseValues returns the accepted canonical phase names, for tool
// definitions and CLI help.
func PhaseValues() []string {
	return []string{
		string(PhasePlanning),
		string(PhaseImplementation),
		string(PhaseVerification),
		string(PhaseUnknown),
	}
}
