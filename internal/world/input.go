package world

import "github.com/l1jgo/bombarena/internal/component"

// InputKind tags the Input variant.
type InputKind uint8

const (
	InputMove InputKind = iota + 1
	InputStop
	InputPlaceBomb
	InputDetonate
	InputThrow
)

func (k InputKind) String() string {
	switch k {
	case InputMove:
		return "move"
	case InputStop:
		return "stop"
	case InputPlaceBomb:
		return "place_bomb"
	case InputDetonate:
		return "detonate"
	case InputThrow:
		return "throw"
	default:
		return "unknown"
	}
}

// Input is a validated player input. Direction is only set for InputMove.
type Input struct {
	Kind      InputKind
	Direction component.Direction
}

func (in Input) InputKind() string { return in.Kind.String() }
