package component

// Bomb is a placed bomb.
type Bomb struct {
	Owner        string
	Fuse         int
	Radius       int
	OwnerCanPass bool
	PlacedTick   uint64

	Slide         Direction
	SlideCooldown int
}

// Flame is an active blast tile. Owner is empty when unknown.
type Flame struct {
	Remaining int
	Owner     string
}

// Block marks a destructible soft block.
type Block struct{}
