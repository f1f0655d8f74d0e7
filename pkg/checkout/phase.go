package checkout

// Phase is the state of a subscription attempt. An attempt moves strictly
// forward through the phases; Active and Failed are terminal for the attempt,
// after which the orchestrator accepts a new one.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseInitializing     Phase = "initializing"
	PhaseTokenizingCard   Phase = "tokenizing_card"
	PhaseSubmitting       Phase = "submitting"
	PhaseRequiresStepUp   Phase = "requires_step_up"
	PhaseConfirmingStepUp Phase = "confirming_step_up"
	PhaseActive           Phase = "active"
	PhaseFailed           Phase = "failed"
)

// Terminal reports whether the phase ends an attempt.
func (p Phase) Terminal() bool {
	return p == PhaseActive || p == PhaseFailed
}

// transitions is the validity table for phase changes. Step-up phases are
// entered only when the backend or processor demands cardholder
// verification; otherwise Submitting goes straight to Active.
var transitions = map[Phase][]Phase{
	PhaseIdle:             {PhaseInitializing},
	PhaseInitializing:     {PhaseTokenizingCard, PhaseFailed},
	PhaseTokenizingCard:   {PhaseSubmitting, PhaseFailed},
	PhaseSubmitting:       {PhaseRequiresStepUp, PhaseActive, PhaseFailed},
	PhaseRequiresStepUp:   {PhaseConfirmingStepUp},
	PhaseConfirmingStepUp: {PhaseActive, PhaseFailed},
	PhaseActive:           {PhaseIdle},
	PhaseFailed:           {PhaseInitializing},
}

// CanTransition reports whether moving from p to next is a legal phase change.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if next == allowed {
			return true
		}
	}
	return false
}
