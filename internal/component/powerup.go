package component

// PowerupKind identifies a powerup effect.
type PowerupKind uint8

const (
	PowerupBombUp PowerupKind = iota + 1
	PowerupFireUp
	PowerupSpeedUp
	PowerupRemote
	PowerupKick
	PowerupThrow
)

func (k PowerupKind) String() string {
	switch k {
	case PowerupBombUp:
		return "bomb_up"
	case PowerupFireUp:
		return "fire_up"
	case PowerupSpeedUp:
		return "speed_up"
	case PowerupRemote:
		return "remote"
	case PowerupKick:
		return "kick"
	case PowerupThrow:
		return "throw"
	default:
		return "unknown"
	}
}

func ParsePowerupKind(s string) (PowerupKind, bool) {
	for k := PowerupBombUp; k <= PowerupThrow; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Powerup is a revealed, collectible powerup on a tile.
type Powerup struct {
	Kind PowerupKind
}

// PendingDrop is a powerup rolled from a destroyed block, waiting for the
// tile's flames to die out.
type PendingDrop struct {
	Kind PowerupKind
}

func (k PowerupKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
