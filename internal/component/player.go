package component

// Abilities are the powerup-driven player stats.
type Abilities struct {
	BombLimit   int
	BlastRadius int
	SpeedTier   int
	Remote      bool
	Kick        bool
	Throw       bool
}

// Transit is the in-flight segment shared by both movement models. In
// true_transit it is the logical move; in grid_smooth it only drives the
// render position.
type Transit struct {
	Active   bool
	Dir      Direction
	Origin   Position
	Dest     Position
	Elapsed  int
	Duration int
}

// Player stores all per-player match data.
// Pure data, zero methods: all mutations happen in system functions.
type Player struct {
	PlayerID string
	Order    int // index in the original player list

	Alive            bool
	EliminatedAtTick *uint64

	Desired   Direction
	Facing    Direction
	Cooldown  int
	MoveTicks int // per-tile duration for the next segment

	Abilities Abilities
	Segment   Transit

	// render position in tile units
	RenderX float64
	RenderY float64

	// intents set by the input step, consumed by the bomb step
	WantBomb     bool
	WantDetonate bool
	WantThrow    bool
}
