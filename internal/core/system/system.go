package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain due inputs into intents
	PhaseMovement                // 1: movement strategy
	PhaseBomb                    // 2: placement, fuses, detonation
	PhaseBombMotion              // 3: kicked bombs slide
	PhaseFlame                   // 4: flame lifetime, powerup reveal
	PhasePowerup                 // 5: pickup
	PhaseRoundEnd                // 6: elimination and round resolution
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseMovement:
		return "movement"
	case PhaseBomb:
		return "bomb"
	case PhaseBombMotion:
		return "bomb_motion"
	case PhaseFlame:
		return "flame"
	case PhasePowerup:
		return "powerup"
	case PhaseRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// System is the interface every pipeline step implements. Update must be a
// pure function of the state it is given: no clock, no I/O.
type System[S any] interface {
	Phase() Phase
	Update(s S)
}
