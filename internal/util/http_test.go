package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "extended utf-8 form",
			header: "attachment; filename*=UTF-8''r%C3%A9ttur.pdf",
			want:   "réttur.pdf",
		},
		{
			name:   "plain quoted form",
			header: `attachment; filename="plain.pdf"`,
			want:   "plain.pdf",
		},
		{
			name:   "extended form preferred over plain",
			header: `attachment; filename="fallback.pdf"; filename*=UTF-8''sk%C3%BDrsla.pdf`,
			want:   "skýrsla.pdf",
		},
		{
			name:   "unquoted value",
			header: "attachment; filename=report.pdf",
			want:   "report.pdf",
		},
		{
			name:   "missing header",
			header: "",
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromDisposition(tt.header))
		})
	}
}

func Test_IsEmptyJSONObject(t *testing.T) {
	assert.True(t, IsEmptyJSONObject(json.RawMessage(`{}`)))
	assert.True(t, IsEmptyJSONObject(json.RawMessage(` { } `)))
	assert.False(t, IsEmptyJSONObject(json.RawMessage(`{"nafn":"Jón"}`)))
	assert.False(t, IsEmptyJSONObject(json.RawMessage(`[]`)))
	assert.False(t, IsEmptyJSONObject(json.RawMessage(`not json`)))
}
