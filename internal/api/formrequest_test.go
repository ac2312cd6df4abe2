package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skjal/gatt/internal/model"
)

func Test_FormRequestsDecodesLooseRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathFormRequests, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"ADHD skimun","tally_id":"t1","submission":null,
			 "requester_text":null,"valid_from":"2026-02-01T09:00",
			 "valid_to":null,"user_name":"Jón Jónsson","user_kennitala":"123456-7890"},
			{"id":2,"name":"Eftirfylgni","form_name":"Eftirfylgni","tally_id":"t2",
			 "valid_from":"2026-03-01T00:00:00Z","valid_to":"2026-03-31"}
		]`))
	})
	client, _ := newTestClient(t, mux)

	requests, err := client.FormRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 2)

	first := requests[0]
	assert.Equal(t, "ADHD skimun", first.Name)
	assert.Equal(t, "Jón Jónsson", first.UserName)
	assert.Equal(t, "1234567890", first.UserKennitala)
	require.NotNil(t, first.ValidFrom)
	assert.Equal(t, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), *first.ValidFrom)
	assert.Nil(t, first.ValidTo)

	second := requests[1]
	require.NotNil(t, second.ValidFrom)
	require.NotNil(t, second.ValidTo)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *second.ValidTo)
}

func Test_CreateFormRequestPayload(t *testing.T) {
	var got map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc(PathFormRequests, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"id":7,"name":"ADHD skimun","tally_id":"t1"}`))
	})
	client, _ := newTestClient(t, mux)

	person := &model.Person{Nafn: "Jón Jónsson", Kennitala: "123456-7890"}
	form := &model.TallyForm{Name: "ADHD skimun", TallyID: "t1"}
	draft, err := model.NewFormRequestDraft(person, form, "", "2026-02-01T09:00", "")
	require.NoError(t, err)

	created, err := client.CreateFormRequest(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	assert.Equal(t, "1234567890", got["kennitala"])
	assert.Equal(t, "Jón Jónsson", got["name"])
	assert.Equal(t, "ADHD skimun", got["form_name"])
	assert.Equal(t, "t1", got["tally_id"])
	assert.Nil(t, got["requester_text"])
	assert.Equal(t, "2026-02-01T09:00", got["valid_from"])
	assert.Nil(t, got["valid_to"])
}

func Test_UpdateAndDeleteFormRequest(t *testing.T) {
	var (
		methods []string
		paths   []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/formrequestadmin/7/", func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		paths = append(paths, r.URL.Path)
		if r.Method == http.MethodPatch {
			var got map[string]interface{}
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "t2", got["tally_id"])
			assert.Nil(t, got["requester_text"])
			_, _ = w.Write([]byte(`{"id":7,"name":"Eftirfylgni","tally_id":"t2"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, mux)

	updated, err := client.UpdateFormRequest(context.Background(), 7, &model.FormRequestPatch{
		Name:     "Eftirfylgni",
		FormName: "Eftirfylgni",
		TallyID:  "t2",
	})
	require.NoError(t, err)
	assert.Equal(t, "t2", updated.TallyID)

	require.NoError(t, client.DeleteFormRequest(context.Background(), 7))
	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
	assert.Equal(t, []string{"/signet/transfer/formrequestadmin/7/", "/signet/transfer/formrequestadmin/7/"}, paths)
}

func Test_MatchTallyForm(t *testing.T) {
	forms := []*model.TallyForm{
		{Name: "ADHD skimun", TallyID: "t1"},
		{Name: "Eftirfylgni", TallyID: "t2"},
	}
	require.NotNil(t, MatchTallyForm(forms, "t2"))
	assert.Equal(t, "t2", MatchTallyForm(forms, "eftirfylgni").TallyID)
	assert.Nil(t, MatchTallyForm(forms, ""))
	assert.Nil(t, MatchTallyForm(forms, "hvergi"))
}

func Test_StaffUsersToleratesAnswerShapes(t *testing.T) {
	answers := []string{
		`[{"name":"Anna Á. Dóttir","kennitala":"0101012220"}]`,
		`{"results":[{"name":"Anna Á. Dóttir","kt":"0101012220"}]}`,
		`{"name":"Anna Á. Dóttir","kennitala":"0101012220"}`,
	}
	for _, answer := range answers {
		body := answer
		mux := http.NewServeMux()
		mux.HandleFunc("/api/staffchangeuser/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		client, server := newTestClient(t, mux)
		require.NoError(t, OptionStaffDirectoryURL(server.URL+"/api/staffchangeuser/")(client))

		persons, err := client.StaffUsers(context.Background())
		require.NoError(t, err, body)
		require.Len(t, persons, 1, body)
		assert.Equal(t, "Anna Á. Dóttir", persons[0].Nafn)
		assert.Equal(t, "0101012220", persons[0].Kennitala)
	}
}

func Test_StaffUsersDropsIncompleteRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/staffchangeuser/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"Anna Á. Dóttir","kennitala":"0101012220"},
			{"name":"Nafnlaus"},
			{"kennitala":"0202022220"}
		]`))
	})
	client, server := newTestClient(t, mux)
	require.NoError(t, OptionStaffDirectoryURL(server.URL+"/api/staffchangeuser/")(client))

	persons, err := client.StaffUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "0101012220", persons[0].Kennitala)
}

func Test_SearchFormRequestsAndActiveWindow(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	requests := []*model.FormRequest{
		{ID: 1, UserName: "Jón Jónsson", UserKennitala: "1234567890", ValidFrom: &from, ValidTo: &to},
		{ID: 2, UserName: "Anna Á. Dóttir", UserKennitala: "0101012220"},
	}

	hits := SearchFormRequests(requests, "jóns")
	require.Len(t, hits, 1)
	assert.Equal(t, int64(1), hits[0].ID)

	assert.False(t, requests[0].ActiveAt(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.True(t, requests[0].ActiveAt(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))
	// open-ended window
	assert.True(t, requests[1].ActiveAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}
