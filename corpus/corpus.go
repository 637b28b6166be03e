// Package corpus reads, writes, and filters the (word, frequency) rows
// the association learner consumes.
package corpus

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
)

// Row is one corpus entry.
type Row struct {
	Word      string
	Frequency int
}

// Read parses Word,Frequency CSV rows. A leading header row is skipped.
// Rows with an unparseable frequency are logged and dropped, never fatal.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows := make([]Row, 0)
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if len(record) > 0 && record[0] == "Word" {
				continue
			}
		}
		if len(record) < 2 {
			log.Printf("corpus: skipping short row %q", record)
			continue
		}
		freq, err := strconv.Atoi(record[1])
		if err != nil {
			log.Printf("corpus: skipping row %q: %v", record, err)
			continue
		}
		rows = append(rows, Row{Word: record[0], Frequency: freq})
	}
	return rows, nil
}

// Write emits rows as Word,Frequency CSV with a header.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Word", "Frequency"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Word, strconv.Itoa(row.Frequency)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads a corpus CSV from disk.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Save writes a corpus CSV to disk.
func Save(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Filter returns the words eligible as game answers: length within
// [minLen, maxLen] and frequency at least minFreq.
func Filter(rows []Row, minLen, maxLen, minFreq int) []string {
	words := make([]string, 0)
	for _, row := range rows {
		l := len(row.Word)
		if l >= minLen && l <= maxLen && row.Frequency >= minFreq {
			words = append(words, row.Word)
		}
	}
	return words
}
