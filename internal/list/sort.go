package list

import (
	"sort"
	"strings"
	"time"
)

// Record is one table row. Key must be stable across sorted and paginated
// views so row-level actions target the right backend entity; Field returns
// the value for a named column, or nil when the row has no value there.
type Record interface {
	Key() string
	Field(name string) interface{}
}

// SortRecords stable-sorts rows on a single field. Rows with a nil value for
// the field sort after all valued rows ascending and before them descending.
func SortRecords[R Record](records []R, field string, asc bool) {
	if field == "" {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		va := records[i].Field(field)
		vb := records[j].Field(field)
		if va == nil && vb == nil {
			return false
		}
		if va == nil {
			return !asc
		}
		if vb == nil {
			return asc
		}
		if asc {
			return less(va, vb)
		}
		return less(vb, va)
	})
}

func less(a, b interface{}) bool {
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		return ok && strings.ToLower(va) < strings.ToLower(vb)
	case time.Time:
		vb, ok := b.(time.Time)
		return ok && va.Before(vb)
	case bool:
		vb, ok := b.(bool)
		return ok && !va && vb
	case int64:
		vb, ok := b.(int64)
		return ok && va < vb
	case int:
		vb, ok := b.(int)
		return ok && va < vb
	case float64:
		vb, ok := b.(float64)
		return ok && va < vb
	}
	return false
}

// Paginate returns the page'th slice of records for a page size, using the
// same clamping rules as the server-side views.
func Paginate[R Record](records []R, page, pageSize int64) []R {
	if pageSize <= 0 {
		return records
	}
	pages := TotalPages(int64(len(records)), pageSize)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * pageSize
	if start >= int64(len(records)) {
		return nil
	}
	end := start + pageSize
	if end > int64(len(records)) {
		end = int64(len(records))
	}
	return records[start:end]
}
