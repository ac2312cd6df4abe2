package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_SetFilterResetsPage(t *testing.T) {
	params := DefaultParams()
	params.Page = 4
	params.SetFilter("filename", "skjal")
	assert.Equal(t, int64(1), params.Page)
	assert.Equal(t, "skjal", params.Filters["filename"])

	params.Page = 3
	params.SetFilter("filename", "")
	assert.Equal(t, int64(1), params.Page)
	assert.NotContains(t, params.Filters, "filename")
}

func Test_QueryValues(t *testing.T) {
	minLengths := MinFilterLengths{"filename": 3, "ssn": 4}

	params := DefaultParams()
	params.Page = 2
	params.SetFilter("filename", "sk")
	params.SetFilter("ssn", "123")
	values := params.QueryValues(minLengths)
	assert.Equal(t, "1", values.Get("page"))
	assert.Equal(t, "25", values.Get("page_size"))
	assert.Empty(t, values.Get("filename"))
	assert.Empty(t, values.Get("ssn"))

	params.SetFilter("filename", "skjal")
	params.SetFilter("ssn", "1234")
	seen := false
	params.SetSeen(&seen)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	params.SetDateRange(from, from.AddDate(0, 1, 0))
	values = params.QueryValues(minLengths)
	assert.Equal(t, "skjal", values.Get("filename"))
	assert.Equal(t, "1234", values.Get("ssn"))
	assert.Equal(t, "0", values.Get("seen"))
	assert.Equal(t, "2026-08-01T00:00:00Z", values.Get("date_from"))
	assert.Equal(t, "2026-09-01T00:00:00Z", values.Get("date_to"))
}

func Test_TotalPages(t *testing.T) {
	assert.Equal(t, int64(1), TotalPages(0, 25))
	assert.Equal(t, int64(1), TotalPages(25, 25))
	assert.Equal(t, int64(2), TotalPages(26, 25))
	assert.Equal(t, int64(1), TotalPages(10, 0))
}

func Test_ClampPage(t *testing.T) {
	params := DefaultParams()
	params.Page = 9
	params.ClampPage(30)
	assert.Equal(t, int64(2), params.Page)

	params.Page = 0
	params.ClampPage(30)
	assert.Equal(t, int64(1), params.Page)
}
