package assoc

import (
	"encoding/json"
	"os"
)

// Save writes the table as indented JSON, stem key to entry list.
func (t Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadTable reads a table previously written by Save.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t, nil
}
