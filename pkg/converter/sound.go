package converter

// Sounds is the palette tracks are assigned from, in order
var Sounds = []string{
	"piano",
	"sawtooth",
	"square",
	"triangle",
	"sine",
	"supersaw",
	"gm_acoustic_bass",
	"gm_electric_guitar_clean",
}

// SoundFor returns the sound for the n-th emitted track (0-based). The
// palette wraps around, so the same position always gets the same sound.
func SoundFor(n int) string {
	if n < 0 {
		n = -n
	}
	return Sounds[n%len(Sounds)]
}
