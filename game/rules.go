package game

// Rules holds every tunable number of the game so the engine itself stays
// free of stat tables.
type Rules interface {
	// Initiative is how many distinct units a player may move per turn.
	Initiative() int
	// MovementCost is the cost for a unit of type ut to enter a tile of the
	// given terrain. ok is false when the terrain is impassable for it.
	MovementCost(ut *UnitType, terrain Terrain) (cost int, ok bool)
	// Damage is the HP loss dealt by attacker to target standing on terrain.
	Damage(attacker, target *Unit, terrain Terrain) int
	UnitType(name string) (*UnitType, bool)
	Terrain(name string) (Terrain, bool)
}
