package board

// AttackKind is the kind of damage a unit's attack deals.
type AttackKind int

const (
	// Damage deals a fixed number of hit points per attack.
	Damage AttackKind = iota
	// Deathtouch deals damage equal to the target's defense; illegal
	// against necromancers.
	Deathtouch
	// Unsummon removes a non-persistent target outright; against a
	// persistent target it contributes 1 damage instead.
	Unsummon
)

func (k AttackKind) String() string {
	switch k {
	case Deathtouch:
		return "deathtouch"
	case Unsummon:
		return "unsummon"
	default:
		return "damage"
	}
}

// UnitType is a closed enumeration of unit kinds, resolved via a static
// stats table rather than dynamic dispatch — mirrors diplomacy.UnitType's
// closed Army/Fleet enum, widened to the Minions roster.
type UnitType int

const (
	Zombie UnitType = iota
	Initiate
	Skeleton
	Serpent
	Rat
	Spire
	Wight
	Witch
	Vampire
	Mummy
	Warg
	Dog
	RockGolem
	ClockworkBomb
	BasicNecromancer
	numUnitTypes
)

// UnitStats are the immutable stats of a unit type, pinned to the published
// Minions stat table (see original_source/spooky/src/core/units.rs).
type UnitStats struct {
	Name            string
	Speed           int
	Range           int
	NumAttacks      int
	Defense         int
	DamagePerAttack int
	AttackKind      AttackKind
	Cost            int
	Rebate          int
	Lumbering       bool
	Flying          bool
	Persistent      bool
	Necromancer     bool
	Spawner         bool
	Blink           bool
}

// Stats is the static table of unit stats, keyed by UnitType. Every
// keyword named in the spec (lumbering, flying, persistent, necromancer,
// spawn, blink) is exercised by at least one entry.
var Stats = [numUnitTypes]UnitStats{
	Zombie: {
		Name: "zombie", Speed: 1, Range: 1, NumAttacks: 1, Defense: 3,
		DamagePerAttack: 3, AttackKind: Damage, Cost: 2, Rebate: 0,
		Lumbering: true,
	},
	Initiate: {
		Name: "initiate", Speed: 1, Range: 1, NumAttacks: 1, Defense: 3,
		DamagePerAttack: 0, AttackKind: Unsummon, Cost: 3, Rebate: 1,
	},
	Skeleton: {
		Name: "skeleton", Speed: 1, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 1, Rebate: 0,
		Persistent: true,
	},
	Serpent: {
		Name: "serpent", Speed: 2, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 3, AttackKind: Damage, Cost: 4, Rebate: 2,
	},
	Rat: {
		Name: "rat", Speed: 1, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 0, AttackKind: Deathtouch, Cost: 2, Rebate: 1,
	},
	Spire: {
		Name: "spire", Speed: 0, Range: 2, NumAttacks: 1, Defense: 4,
		DamagePerAttack: 2, AttackKind: Damage, Cost: 3, Rebate: 1,
		Spawner: true,
	},
	Wight: {
		Name: "wight", Speed: 1, Range: 1, NumAttacks: 1, Defense: 3,
		DamagePerAttack: 0, AttackKind: Unsummon, Cost: 5, Rebate: 2,
		Persistent: true,
	},
	Witch: {
		Name: "witch", Speed: 1, Range: 3, NumAttacks: 1, Defense: 3,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 5, Rebate: 2,
		Blink: true,
	},
	Vampire: {
		Name: "vampire", Speed: 1, Range: 1, NumAttacks: 1, Defense: 3,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 8, Rebate: 4,
		Flying: true, Persistent: true, Blink: true,
	},
	Mummy: {
		Name: "mummy", Speed: 1, Range: 1, NumAttacks: 1, Defense: 6,
		DamagePerAttack: 2, AttackKind: Damage, Cost: 8, Rebate: 4,
		Lumbering: true, Persistent: true,
	},
	Warg: {
		Name: "warg", Speed: 2, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 3, Rebate: 1,
	},
	Dog: {
		Name: "dog", Speed: 3, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 1, Rebate: 0,
	},
	RockGolem: {
		Name: "rock_golem", Speed: 1, Range: 1, NumAttacks: 1, Defense: 4,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 4, Rebate: 2,
		Lumbering: true,
	},
	ClockworkBomb: {
		Name: "clockwork_bomb", Speed: 1, Range: 1, NumAttacks: 1, Defense: 1,
		DamagePerAttack: 20, AttackKind: Damage, Cost: 3, Rebate: 0,
	},
	BasicNecromancer: {
		Name: "necromancer", Speed: 1, Range: 1, NumAttacks: 1, Defense: 7,
		DamagePerAttack: 1, AttackKind: Damage, Cost: 0, Rebate: 0,
		Necromancer: true, Spawner: true,
	},
}

// Side is one of the two players.
type Side int

const (
	Yellow Side = iota
	Blue
)

func (s Side) String() string {
	if s == Blue {
		return "blue"
	}
	return "yellow"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return Yellow ^ Blue ^ s
}
