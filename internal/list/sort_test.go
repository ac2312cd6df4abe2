package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id      string
	name    interface{}
	created interface{}
}

func (r *row) Key() string { return r.id }

func (r *row) Field(field string) interface{} {
	switch field {
	case "name":
		return r.name
	case "created":
		return r.created
	}
	return nil
}

func keys(rows []*row) []string {
	out := make([]string, len(rows))
	for n, r := range rows {
		out[n] = r.id
	}
	return out
}

func Test_SortRecordsNullPlacement(t *testing.T) {
	rows := []*row{
		{id: "a", name: "Þóra"},
		{id: "b"},
		{id: "c", name: "Anna"},
		{id: "d"},
	}
	SortRecords(rows, "name", true)
	assert.Equal(t, []string{"c", "a", "b", "d"}, keys(rows))

	SortRecords(rows, "name", false)
	assert.Equal(t, []string{"b", "d", "a", "c"}, keys(rows))
}

func Test_SortRecordsStable(t *testing.T) {
	rows := []*row{
		{id: "a", name: "sama"},
		{id: "b", name: "sama"},
		{id: "c", name: "annad"},
	}
	SortRecords(rows, "name", true)
	assert.Equal(t, []string{"c", "a", "b"}, keys(rows))
}

func Test_SortRecordsByTime(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []*row{
		{id: "a", created: base.Add(time.Hour)},
		{id: "b", created: base},
		{id: "c"},
	}
	SortRecords(rows, "created", true)
	assert.Equal(t, []string{"b", "a", "c"}, keys(rows))
}

func Test_Paginate(t *testing.T) {
	rows := []*row{{id: "a"}, {id: "b"}, {id: "c"}, {id: "d"}, {id: "e"}}

	assert.Equal(t, []string{"a", "b"}, keys(Paginate(rows, 1, 2)))
	assert.Equal(t, []string{"e"}, keys(Paginate(rows, 3, 2)))
	// out-of-range pages clamp instead of erroring
	assert.Equal(t, []string{"e"}, keys(Paginate(rows, 9, 2)))
	assert.Equal(t, []string{"a", "b"}, keys(Paginate(rows, 0, 2)))
}
