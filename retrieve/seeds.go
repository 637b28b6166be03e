package retrieve

// Opening seed lists. The vowel openers front-load vowel coverage, the
// optimal openers are high-information starters, and the popular openers
// carry play-share weights summing to 1.
var vowelSeeds = []string{"ADIEU", "AUDIO", "AISLE", "CANOE", "JUICE"}

var optimalSeeds = []string{"SLATE", "CRANE", "TRACE", "CRATE", "STARE", "RAISE"}

var popularSeeds = []struct {
	word   string
	weight float64
}{
	{"ADIEU", 0.18},
	{"AUDIO", 0.14},
	{"RAISE", 0.12},
	{"SLATE", 0.11},
	{"CRANE", 0.10},
	{"STARE", 0.10},
	{"AROSE", 0.09},
	{"IRATE", 0.08},
	{"TEARS", 0.08},
}
