package brackets

// LCG is the seeded generator behind every shuffle and simulated result.
// state = (1664525*state + 1013904223) mod 2^32, so a seed replays the same
// sequence on every platform.
type LCG struct {
	state uint32
}

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

func NewLCG(seed int64) *LCG {
	return &LCG{state: uint32(seed)}
}

// Next advances the generator. uint32 overflow is the mod 2^32.
func (g *LCG) Next() uint32 {
	g.state = lcgMultiplier*g.state + lcgIncrement
	return g.state
}

// Float64 returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / lcgModulus
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (g *LCG) Intn(n int) int {
	if n <= 0 {
		panic("brackets: Intn called with non-positive n")
	}
	return int(g.Float64() * float64(n))
}

// Shuffle is a Fisher–Yates pass from the last index down.
func (g *LCG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, g.Intn(i+1))
	}
}
