package list

import (
	"fmt"
	"net/url"
	"time"
)

// Defaults for paginated views.
const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// MinFilterLengths maps a filter field to the minimum number of characters it
// must carry before it is sent to the backend. Shorter values are held back
// locally so the server is not flooded with one-letter searches.
type MinFilterLengths map[string]int

// Params is the filter/sort/page state of one table view. Server-side tables
// serialize it with QueryValues; client-side tables consume it directly.
type Params struct {
	Page      int64
	PageSize  int64
	SortField string
	SortAsc   bool
	Filters   map[string]string
	From      time.Time
	To        time.Time
	Seen      *bool
}

// DefaultParams returns the initial state of a table view.
func DefaultParams() *Params {
	return &Params{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		SortAsc:  true,
		Filters:  make(map[string]string),
	}
}

// SetFilter records a filter value. Any filter change moves the view back to
// the first page; clearing a value removes the key entirely.
func (params *Params) SetFilter(field, value string) {
	if params.Filters == nil {
		params.Filters = make(map[string]string)
	}
	if value == "" {
		delete(params.Filters, field)
	} else {
		params.Filters[field] = value
	}
	params.Page = DefaultPage
}

// SetDateRange records the from/to bounds and resets to the first page.
func (params *Params) SetDateRange(from, to time.Time) {
	params.From = from
	params.To = to
	params.Page = DefaultPage
}

// SetSeen records the seen/unseen toggle and resets to the first page.
func (params *Params) SetSeen(seen *bool) {
	params.Seen = seen
	params.Page = DefaultPage
}

// SetSort records the sort key. Sorting does not reset pagination.
func (params *Params) SetSort(field string, asc bool) {
	params.SortField = field
	params.SortAsc = asc
}

// QueryValues serializes the state for a paginated backend endpoint. Filters
// below their minimum length are omitted rather than truncated.
func (params *Params) QueryValues(minLengths MinFilterLengths) url.Values {
	values := url.Values{}
	values.Set("page", fmt.Sprintf("%d", params.Page))
	values.Set("page_size", fmt.Sprintf("%d", params.PageSize))
	for field, value := range params.Filters {
		if len([]rune(value)) < minLengths[field] {
			continue
		}
		values.Set(field, value)
	}
	if !params.From.IsZero() {
		values.Set("date_from", params.From.Format(time.RFC3339))
	}
	if !params.To.IsZero() {
		values.Set("date_to", params.To.Format(time.RFC3339))
	}
	if params.Seen != nil {
		seen := "0"
		if *params.Seen {
			seen = "1"
		}
		values.Set("seen", seen)
	}
	return values
}

// TotalPages computes the page count for a result total, never less than 1.
func TotalPages(count, pageSize int64) int64 {
	if pageSize <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage folds the current page into [1, totalPages].
func (params *Params) ClampPage(count int64) {
	pages := TotalPages(count, params.PageSize)
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Page > pages {
		params.Page = pages
	}
}
