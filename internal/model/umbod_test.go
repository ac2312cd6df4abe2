package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_UmbodActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	u := &Umbod{
		GildirFra: now.AddDate(0, -1, 0),
		GildirTil: now.AddDate(0, 1, 0),
	}
	assert.True(t, u.ActiveAt(now))
	assert.True(t, u.ActiveAt(u.GildirFra))
	assert.True(t, u.ActiveAt(u.GildirTil))
	assert.False(t, u.ActiveAt(u.GildirTil.Add(time.Second)))
	assert.False(t, u.ActiveAt(u.GildirFra.Add(-time.Second)))
}

func Test_UmbodMatchesHolder(t *testing.T) {
	u := &Umbod{
		Umbodsthegar: []Umbodsthegi{
			{Nafn: "Guðrún Pálsdóttir", Kennitala: "1234567890"},
			{Nafn: "Einar Einarsson", Kennitala: "0987654321"},
		},
	}
	assert.True(t, u.MatchesHolder(""))
	assert.True(t, u.MatchesHolder("einar"))
	assert.True(t, u.MatchesHolder("098765"))
	assert.False(t, u.MatchesHolder("siggi"))
}

func Test_NewUmbodGrant(t *testing.T) {
	tests := []struct {
		name      string
		nafn      string
		kennitala string
		grantees  []Umbodsthegi
		wantErr   bool
	}{
		{
			name:      "Happy Path",
			nafn:      "Jón Jónsson",
			kennitala: "123456-7890",
			grantees:  []Umbodsthegi{{Nafn: "Anna", Kennitala: "0987654321"}},
		},
		{
			name:      "No grantees",
			nafn:      "Jón Jónsson",
			kennitala: "1234567890",
			wantErr:   true,
		},
		{
			name:      "Short grantor kennitala",
			nafn:      "Jón Jónsson",
			kennitala: "12345",
			grantees:  []Umbodsthegi{{Nafn: "Anna", Kennitala: "0987654321"}},
			wantErr:   true,
		},
		{
			name:      "Invalid grantee",
			nafn:      "Jón Jónsson",
			kennitala: "1234567890",
			grantees:  []Umbodsthegi{{Nafn: "", Kennitala: "0987654321"}},
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewUmbodGrant(tt.nafn, tt.kennitala, tt.grantees)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewUmbodGrant() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != nil {
				assert.Equal(t, "1234567890", got.Kennitala)
				require.Len(t, got.Umbodsthegar, 1)
			}
		})
	}
}
