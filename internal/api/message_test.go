package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skjal/gatt/internal/model"
)

func Test_SendToReceivers(t *testing.T) {
	var (
		notes, sendMail, receiversJSON, fileContent string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/SendMessage/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		notes = r.FormValue("Notes")
		sendMail = r.FormValue("SendMail")
		receiversJSON = r.FormValue("Receivers")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "skjal.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		fileContent = string(content)
	})
	client, _ := newTestClient(t, mux)

	receiver := model.NewReceiver("Jón", "1234567890", "jon@example.is", "5551234", "Sæll Jón")
	err := client.SendToReceivers(context.Background(), strings.NewReader("%PDF"), "skjal.pdf", "athugasemd", true, []*model.Receiver{receiver})
	require.NoError(t, err)

	assert.Equal(t, "athugasemd", notes)
	assert.Equal(t, "True", sendMail)
	assert.Equal(t, "%PDF", fileContent)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(receiversJSON), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "1234567890", decoded[0]["SSN"])
	assert.Equal(t, true, decoded[0]["Notify"])
	assert.Nil(t, decoded[0]["Fetched"])
}

func Test_SendToReceiversRequiresSSN(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid payload must not reach the backend")
	}))

	receiver := &model.Receiver{Notify: true} // no SSN
	err := client.SendToReceivers(context.Background(), strings.NewReader("x"), "skjal.pdf", "", false, []*model.Receiver{receiver})
	assert.Error(t, err)
}

func Test_SendToGroup(t *testing.T) {
	var groups, sendMail string
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/SendMessage/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		groups = r.FormValue("Groups")
		sendMail = r.FormValue("SendMail")
		assert.Empty(t, r.FormValue("Receivers"))
	})
	client, _ := newTestClient(t, mux)

	err := client.SendToGroup(context.Background(), strings.NewReader("x"), "skjal.pdf", "", false, 42)
	require.NoError(t, err)
	assert.Equal(t, "[42]", groups)
	assert.Equal(t, "False", sendMail)
}

func Test_CompanyGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signet/transfer/getgroupsbycompany/5554443331/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"ID": 42, "Name": "Móttaka", "Company": "Fyrirtæki hf."},
		})
	})
	client, _ := newTestClient(t, mux)

	groups, err := client.CompanyGroups(context.Background(), "555444-3331")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, int64(42), groups[0].ID)

	_, err = client.CompanyGroups(context.Background(), "12345")
	assert.Error(t, err)
}
