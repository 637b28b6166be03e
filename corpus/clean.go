package corpus

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Clean converts a raw Thorndike frequency list into corpus rows. Each
// line carries the count in its first six columns, space-padded, with the
// word starting at column eight. A leading $ marks a capitalized word and
// is dropped, parenthesized annotations are cut, and rows containing
// punctuation or spaces are discarded. Unreadable counts are logged and
// skipped.
func Clean(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	rows := make([]Row, 0)
	for sc.Scan() {
		line := sc.Text()
		field := line
		if len(line) > 6 {
			field = line[:6]
		}
		// interior spaces in the count column read as zeros, e.g. "0000 4"
		freq, err := strconv.Atoi(strings.ReplaceAll(field, " ", "0"))
		if err != nil {
			log.Printf("corpus: skipping line %q: %v", line, err)
			continue
		}
		word := ""
		if len(line) > 7 {
			word = line[7:]
		}
		word = strings.ReplaceAll(word, "$", "")
		if i := strings.IndexByte(word, '('); i >= 0 {
			word = word[:i]
		}
		word = strings.TrimSpace(word)
		if word == "" || strings.ContainsAny(word, ".,' ") {
			continue
		}
		rows = append(rows, Row{Word: word, Frequency: freq})
	}
	return rows, sc.Err()
}
