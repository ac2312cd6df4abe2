package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skjal/gatt/internal/model"
)

func Test_UploadWaitingListGroupsByMonth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/messaging/PMOAminningarEftirManudum", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "bidlisti.xlsx", header.Filename)
		_ = json.NewEncoder(w).Encode(map[string][]map[string]interface{}{
			"2026-09": {{
				"fulltnafn":        "Jón Jónsson",
				"kennitala":        "1234567890",
				"gsm_numer":        "5551234",
				"netfang":          "jon@example.is",
				"boka_fyrir":       "2026-09-15",
				"umonnunaradiliID": "7",
				"umonnunaradili":   "Anna læknir",
			}},
		})
	})
	client, _ := newTestClient(t, mux)

	grouped, err := client.UploadWaitingList(context.Background(), strings.NewReader("xlsx"), "bidlisti.xlsx")
	require.NoError(t, err)
	require.Len(t, grouped["2026-09"], 1)

	patient := grouped["2026-09"][0]
	assert.Equal(t, "Jón Jónsson", patient.Name)
	assert.Equal(t, "5551234", patient.Phone)
	assert.Equal(t, "2026-09-15", patient.BookBefore)
	assert.Equal(t, "Anna læknir", patient.CareProvider)
}

func Test_SendSMSPayload(t *testing.T) {
	var got map[string][]SMSMessage
	mux := http.NewServeMux()
	mux.HandleFunc("/messaging/SendSMS", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})
	client, _ := newTestClient(t, mux)

	patients := []*model.Patient{
		{Name: "Jón", Phone: "5551234", CareProvider: "Anna læknir"},
		{Name: "Anna", Phone: ""}, // skipped, no number
	}
	messages := ReminderSMS(patients, "Sæl/l %nafn%, %medferdaradili% minnir á bókun.")
	require.Len(t, messages, 1)
	require.NoError(t, client.SendSMS(context.Background(), messages))

	require.Len(t, got["payload"], 1)
	assert.Equal(t, "+3545551234", got["payload"][0].Recipient)
	assert.Equal(t, "Sæl/l Jón, Anna læknir minnir á bókun.", got["payload"][0].Body)
}

func Test_SendEmailGraphPayload(t *testing.T) {
	var got map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/messaging/SendEmail", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	})
	client, _ := newTestClient(t, mux)

	require.NoError(t, client.SendEmail(context.Background(), "jon@example.is", "Jón", "Áminning", "<p>Halló</p>"))

	assert.Equal(t, "Áminning", got["subject"])
	assert.Equal(t, "HTML", got["contentType"])
	to := got["to"].([]interface{})
	require.Len(t, to, 1)
	address := to[0].(map[string]interface{})["emailAddress"].(map[string]interface{})
	assert.Equal(t, "jon@example.is", address["address"])

	assert.Error(t, client.SendEmail(context.Background(), "", "", "x", "y"))
}
