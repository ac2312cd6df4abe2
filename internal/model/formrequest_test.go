package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewFormRequestDraft(t *testing.T) {
	person := &Person{Nafn: "Jón Jónsson", Kennitala: "123456-7890"}
	form := &TallyForm{Name: "ADHD skimun", TallyID: "t1"}

	draft, err := NewFormRequestDraft(person, form, "  ", "2026-02-01T09:00", "")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", draft.Kennitala)
	assert.Equal(t, "ADHD skimun", draft.FormName)
	assert.Nil(t, draft.RequesterText)
	require.NotNil(t, draft.ValidFrom)
	assert.Equal(t, "2026-02-01T09:00", *draft.ValidFrom)
	assert.Nil(t, draft.ValidTo)

	// optional fields serialize as nulls, not empty strings
	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"requester_text":null`)
	assert.Contains(t, string(raw), `"valid_to":null`)
}

func Test_NewFormRequestDraftValidates(t *testing.T) {
	_, err := NewFormRequestDraft(&Person{Kennitala: "123"}, nil, "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kennitala")
	assert.Contains(t, err.Error(), "form")

	_, err = NewFormRequestDraft(nil, &TallyForm{TallyID: "t1"}, "", "", "")
	require.Error(t, err)
}

func Test_FormRequestField(t *testing.T) {
	from := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	request := &FormRequest{ID: 3, Name: "ADHD skimun", ValidFrom: &from}

	assert.Equal(t, "3", request.Key())
	assert.Equal(t, int64(3), request.Field("id"))
	assert.Equal(t, from, request.Field("valid_from"))
	assert.Nil(t, request.Field("valid_to"))
	assert.Nil(t, request.Field("user_name"))
	assert.Nil(t, request.Field("hvergi"))
}
