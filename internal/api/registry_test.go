package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TjodskraByNameCachesLookups(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/getTjodskraByName", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Jón", r.URL.Query().Get("nafn"))
		assert.Equal(t, "8", r.URL.Query().Get("max"))
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"nafn": "Jón Jónsson", "kennitala": "1234567890"},
		})
	})
	client, _ := newTestClient(t, mux)

	for i := 0; i < 3; i++ {
		persons, err := client.TjodskraByName(context.Background(), "Jón")
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "Jón Jónsson", persons[0].Nafn)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func Test_TjodskraShortQueriesStayLocal(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for short queries")
	}))

	persons, err := client.TjodskraByName(context.Background(), "Jó")
	require.NoError(t, err)
	assert.Nil(t, persons)

	persons, err = client.TjodskraByKennitala(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, persons)

	// the credentialed umboð surface accepts shorter queries
	persons, err = client.UmbodTjodskraByKennitala(context.Background(), "12")
	require.NoError(t, err)
	assert.Nil(t, persons)
}

func Test_ContactLookupToleratesSloppyPayloads(t *testing.T) {
	answers := map[string]string{
		`"5551234"`:           "5551234",
		`"{}"`:                "",
		`"null"`:              "",
		`{"value":"5551234"}`: "5551234",
		`{"tel":"5551234"}`:   "5551234",
	}
	for answer, want := range answers {
		body := answer
		mux := http.NewServeMux()
		mux.HandleFunc("/signet/transfer/TelByKennitala/", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1234567890", r.URL.Query().Get("kennitala"))
			_, _ = w.Write([]byte(body))
		})
		client, _ := newTestClient(t, mux)

		tel, err := client.TelByKennitala(context.Background(), "1234567890")
		require.NoError(t, err)
		assert.Equal(t, want, tel, "payload %s", body)
	}
}

func Test_UpdateContact(t *testing.T) {
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/EmailByKennitala", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})
	client, _ := newTestClient(t, mux)

	require.NoError(t, client.UpdateEmail(context.Background(), "123456-7890", "jon@example.is"))
	assert.Equal(t, "1234567890", got["kennitala"])
	assert.Equal(t, "jon@example.is", got["email"])

	err := client.UpdateEmail(context.Background(), "123", "jon@example.is")
	assert.Error(t, err)
}
