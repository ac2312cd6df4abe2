package model

import (
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Person is a national-registry entry.
type Person struct {
	Nafn      string `json:"nafn"`
	Kennitala string `json:"kennitala"`
}

// NormaliseKennitala strips everything but digits and caps the result at
// the ten digits a kennitala holds.
func NormaliseKennitala(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

// NormaliseDigits strips everything but digits.
func NormaliseDigits(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalise lowercases a value for filtering and search.
func Normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// PersonsFromJSON parses a registry lookup response. Backends answer with
// a bare array, wrap it in `results` or `data`, or hand back a single
// object; rows name their fields nafn/kennitala, name/ssn or name/kt.
// Rows without a full kennitala are dropped.
func PersonsFromJSON(raw json.RawMessage) []*Person {
	var rows []map[string]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		var wrapped struct {
			Results []map[string]interface{} `json:"results"`
			Data    []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil
		}
		rows = wrapped.Results
		if rows == nil {
			rows = wrapped.Data
		}
		if rows == nil {
			var row map[string]interface{}
			if err := json.Unmarshal(raw, &row); err == nil && len(row) > 0 {
				rows = []map[string]interface{}{row}
			}
		}
	}
	persons := make([]*Person, 0, len(rows))
	for _, row := range rows {
		var entry struct {
			Nafn      string `mapstructure:"nafn"`
			Name      string `mapstructure:"name"`
			Kennitala string `mapstructure:"kennitala"`
			SSN       string `mapstructure:"ssn"`
			KT        string `mapstructure:"kt"`
		}
		if err := mapstructure.WeakDecode(row, &entry); err != nil {
			continue
		}
		p := &Person{
			Nafn:      strings.TrimSpace(entry.Nafn),
			Kennitala: NormaliseKennitala(entry.Kennitala),
		}
		if p.Nafn == "" {
			p.Nafn = strings.TrimSpace(entry.Name)
		}
		if p.Kennitala == "" {
			p.Kennitala = NormaliseKennitala(entry.SSN)
		}
		if p.Kennitala == "" {
			p.Kennitala = NormaliseKennitala(entry.KT)
		}
		if p.Nafn == "" || len(p.Kennitala) != 10 {
			continue
		}
		persons = append(persons, p)
	}
	return persons
}
