package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Umbodsthegi is one grantee on a power-of-attorney record.
type Umbodsthegi struct {
	Nafn      string `json:"nafn"`
	Kennitala string `json:"kennitala"`
}

// Umbod is a power-of-attorney record: a grantor and the grantees the
// authorization is delegated to, valid over a date window.
type Umbod struct {
	ID           int64         `json:"id"`
	Nafn         string        `json:"nafn"`
	Kennitala    string        `json:"kennitala"`
	Umbodsthegar []Umbodsthegi `json:"umbodsthegar"`
	GildirFra    time.Time     `json:"gildirfra"`
	GildirTil    time.Time     `json:"gildirtil"`
	SidastBreytt time.Time     `json:"sidastbreytt"`
}

// ActiveAt reports whether the record's validity window covers `now`.
func (u *Umbod) ActiveAt(now time.Time) bool {
	return !u.GildirFra.After(now) && !now.After(u.GildirTil)
}

// MatchesHolder reports whether any grantee matches the normalised
// query by name or kennitala.
func (u *Umbod) MatchesHolder(query string) bool {
	q := Normalise(query)
	if q == "" {
		return true
	}
	for _, holder := range u.Umbodsthegar {
		if strings.Contains(Normalise(holder.Nafn), q) ||
			strings.Contains(Normalise(holder.Kennitala), q) {
			return true
		}
	}
	return false
}

// Diff renders the delta between two revisions of a grantor's record,
// used by the history view.
func (u *Umbod) Diff(prev *Umbod) string {
	if prev == nil {
		return ""
	}
	return cmp.Diff(prev, u)
}

// Key returns the stable row identity.
func (u *Umbod) Key() string {
	return strconv.FormatInt(u.ID, 10)
}

// Field returns a sortable column value.
func (u *Umbod) Field(name string) interface{} {
	switch name {
	case "id":
		return u.ID
	case "nafn":
		return u.Nafn
	case "kennitala":
		return u.Kennitala
	case "gildirfra":
		if u.GildirFra.IsZero() {
			return nil
		}
		return u.GildirFra
	case "gildirtil":
		if u.GildirTil.IsZero() {
			return nil
		}
		return u.GildirTil
	case "sidastbreytt":
		if u.SidastBreytt.IsZero() {
			return nil
		}
		return u.SidastBreytt
	}
	return nil
}

// UmbodGrant is the payload submitted when a grantor delegates
// authorization to one or more grantees.
type UmbodGrant struct {
	Nafn         string        `json:"nafn"`
	Kennitala    string        `json:"kennitala"`
	Umbodsthegar []Umbodsthegi `json:"umbodsthegar"`
}

// NewUmbodGrant validates and creates a grant submission. The grantor
// and every grantee need a name and a full kennitala.
func NewUmbodGrant(nafn, kennitala string, grantees []Umbodsthegi) (*UmbodGrant, error) {
	var err error
	nafn = strings.TrimSpace(nafn)
	kennitala = NormaliseKennitala(kennitala)
	if nafn == "" {
		err = multierr.Append(err, errors.New("missing grantor name"))
	}
	if len(kennitala) != 10 {
		err = multierr.Append(err, errors.New("grantor kennitala must be 10 digits"))
	}
	if len(grantees) == 0 {
		err = multierr.Append(err, errors.New("at least one grantee required"))
	}
	cleaned := make([]Umbodsthegi, 0, len(grantees))
	for _, g := range grantees {
		g.Nafn = strings.TrimSpace(g.Nafn)
		g.Kennitala = NormaliseKennitala(g.Kennitala)
		if g.Nafn == "" || len(g.Kennitala) != 10 {
			err = multierr.Append(err, errors.Errorf("invalid grantee %q", g.Nafn))
			continue
		}
		cleaned = append(cleaned, g)
	}
	if err != nil {
		return nil, err
	}
	return &UmbodGrant{
		Nafn:         nafn,
		Kennitala:    kennitala,
		Umbodsthegar: cleaned,
	}, nil
}
