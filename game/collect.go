package game

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Clara-Ye/MIT9.66/assoc"
)

// Benchmark is the fixed evaluation list: one hundred five-letter answers
// the model is scored against.
var Benchmark = []string{
	"DROOL", "VYING", "PLUMB", "PATIO", "FLUNG",
	"ENDOW", "CRYPT", "MAUVE", "DOGMA", "HIPPO",
	"CHOCK", "SLANG", "WITCH", "BROWN", "TWIST",
	"PEARL", "SPINE", "NICHE", "GOING", "BOAST",
	"BOXER", "HYENA", "HILLY", "SHOVE", "SHAKY",
	"GUILE", "JELLY", "FRAIL", "TALLY", "VISOR",
	"TACKY", "UVULA", "PRIMP", "FLOWN", "STOIC",
	"INNER", "SWELL", "READY", "EVENT", "TRULY",
	"OCTET", "VINYL", "BLAZE", "SNOOP", "SIXTH",
	"WEIRD", "EASEL", "TUNIC", "BAWDY", "SANDY",
	"WREAK", "FROWN", "BOSSY", "GOOFY", "SHOUT",
	"CIGAR", "REBUT", "SISSY", "HUMPH", "AWAKE",
	"BLUSH", "FOCAL", "EVADE", "NAVAL", "SERVE",
	"HEATH", "DWARF", "MODEL", "KARMA", "STINK",
	"GRADE", "QUIET", "BENCH", "ABATE", "FEIGN",
	"MAJOR", "DEATH", "FRESH", "CRUST", "STOOL",
	"COLON", "ABASE", "MARRY", "REACT", "BATTY",
	"PRIDE", "FLOSS", "HELIX", "CROAK", "STAFF",
	"PAPER", "UNFED", "WHELP", "TRAWL", "OUTDO",
	"ADOBE", "CRAZY", "SOWER", "REPAY", "DIGIT",
	"CRATE", "CLUCK", "SPIKE", "MIMIC", "POUND",
}

// Collect plays an automatic round per word against one table and
// returns the per-word results.
func Collect(cfg Config, words []string, table assoc.Table, rng *rand.Rand, progress bool) map[string]Result {
	results := make(map[string]Result, len(words))
	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(words)))
	} else {
		bar = progressbar.DefaultSilent(int64(len(words)))
	}
	for _, word := range words {
		word = strings.ToUpper(word)
		results[word] = NewSession(cfg, word, table, rng).Auto()
		bar.Add(1)
	}
	return results
}

// SaveResults writes labeled result groups as indented JSON. A label
// names one table and strategy combination, e.g. associations02_vowels.
func SaveResults(path string, results map[string]map[string]Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadResults reads a results file written by SaveResults.
func LoadResults(path string) (map[string]map[string]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	results := make(map[string]map[string]Result)
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("game: parsing %s: %w", path, err)
	}
	return results, nil
}

// SummaryRow aggregates one labeled result group.
type SummaryRow struct {
	AssociationLevel string
	Strategy         string
	SuccessRate      float64 // percent of rounds won
	AverageTurns     float64 // mean guesses over won rounds, 0 when none
}

// Summarize reduces labeled result groups to per-group success rates and
// average turns. Labels split on the first underscore into association
// level and strategy; groups that cannot be split or hold no rounds are
// skipped with a warning. Rows come back sorted by level, then strategy.
func Summarize(results map[string]map[string]Result) []SummaryRow {
	rows := make([]SummaryRow, 0, len(results))
	for label, games := range results {
		cut := strings.Index(label, "_")
		if cut < 0 {
			log.Printf("game: skipping unlabeled result group %q", label)
			continue
		}
		if len(games) == 0 {
			log.Printf("game: skipping empty result group %q", label)
			continue
		}
		successes := 0
		turns := 0
		for _, r := range games {
			if r.Success {
				successes++
				turns += len(r.Guesses)
			}
		}
		row := SummaryRow{
			AssociationLevel: label[:cut],
			Strategy:         label[cut+1:],
			SuccessRate:      float64(successes) / float64(len(games)) * 100,
		}
		if successes > 0 {
			row.AverageTurns = float64(turns) / float64(successes)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AssociationLevel != rows[j].AssociationLevel {
			return rows[i].AssociationLevel < rows[j].AssociationLevel
		}
		return rows[i].Strategy < rows[j].Strategy
	})
	return rows
}

// WriteSummaryCSV renders summary rows as CSV.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Association Level", "Strategy", "Success Rate (%)", "Average Turns"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.AssociationLevel,
			row.Strategy,
			strconv.FormatFloat(row.SuccessRate, 'g', -1, 64),
			strconv.FormatFloat(row.AverageTurns, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
