package game

// spaceWords is the built-in vocabulary for the space-themed game.
var spaceWords = []string{
	"Asteroid", "Astronaut", "Apollo", "Atmosphere", "Antimatter", "Alien",
	"Aurora", "Blackhole", "Comet", "Cosmos", "Darkmatter", "Deepspace",
	"Eclipse", "Exoplanet", "Galaxy", "Gravity", "Hubble", "Interstellar",
	"Jupiter", "Kepler", "Mars", "Meteor", "Milkyway", "Moon", "Nebula",
	"Neptune", "Orbit", "Orion", "Planet", "Pluto", "Rocket", "Rover",
	"Saturn", "Shuttle", "Star", "Supernova", "Telescope", "Universe",
	"Uranus", "Venus", "Voyager", "Warp", "Zenith",
}

// SpaceWords returns a copy of the built-in word list.
func SpaceWords() []string {
	out := make([]string, len(spaceWords))
	copy(out, spaceWords)
	return out
}
