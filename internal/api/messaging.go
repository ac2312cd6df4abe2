package api

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/skjal/gatt/internal/model"
)

// SMSMessage is one entry of a SendSMS batch.
type SMSMessage struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// emailAddress and emailPayload mirror the Graph-style shape the SendEmail
// endpoint expects.
type emailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

type emailRecipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailPayload struct {
	Sender      emailRecipient   `json:"sender"`
	To          []emailRecipient `json:"to"`
	Subject     string           `json:"subject"`
	ContentType string           `json:"contentType"`
	Body        string           `json:"body"`
}

// Sender identity for reminder mail.
const (
	reminderSenderName    = "Per mentis"
	reminderSenderAddress = "noreply@permentis.is"
)

// SendSMS submits one batch of text messages.
func (c *Client) SendSMS(ctx context.Context, messages []SMSMessage) error {
	if len(messages) == 0 {
		return errors.New("no messages to send")
	}
	payload := map[string][]SMSMessage{"payload": messages}
	return c.postJSON(ctx, "/messaging/SendSMS", payload, nil, false)
}

// SendEmail submits one HTML mail.
func (c *Client) SendEmail(ctx context.Context, to, name, subject, body string) error {
	if to == "" {
		return errors.New("recipient address is required")
	}
	payload := emailPayload{
		Sender:      emailRecipient{EmailAddress: emailAddress{Name: reminderSenderName, Address: reminderSenderAddress}},
		To:          []emailRecipient{{EmailAddress: emailAddress{Name: name, Address: to}}},
		Subject:     subject,
		ContentType: "HTML",
		Body:        body,
	}
	return c.postJSON(ctx, "/messaging/SendEmail", payload, nil, false)
}

// patientWire maps the upload endpoint's field names onto the model.
type patientWire struct {
	FulltNafn      string      `json:"fulltnafn"`
	Kennitala      string      `json:"kennitala"`
	GSMNumer       string      `json:"gsm_numer"`
	Netfang        string      `json:"netfang"`
	BokaFyrir      interface{} `json:"boka_fyrir"`
	CareProviderID string      `json:"umonnunaradiliID"`
	CareProvider   string      `json:"umonnunaradili"`
}

func (w *patientWire) toModel() *model.Patient {
	bookBefore := ""
	switch v := w.BokaFyrir.(type) {
	case string:
		bookBefore = v
	case float64:
		bookBefore = time.UnixMilli(int64(v)).UTC().Format("2006-01-02")
	}
	return &model.Patient{
		Name:           w.FulltNafn,
		Kennitala:      model.NormaliseKennitala(w.Kennitala),
		Phone:          w.GSMNumer,
		Email:          w.Netfang,
		BookBefore:     bookBefore,
		CareProviderID: w.CareProviderID,
		CareProvider:   w.CareProvider,
	}
}

// UploadWaitingList submits the reminder spreadsheet and returns the
// parsed patients grouped by the month their booking is due.
func (c *Client) UploadWaitingList(ctx context.Context, file io.Reader, filename string) (map[string][]*model.Patient, error) {
	if file == nil || filename == "" {
		return nil, errors.New("a file is required")
	}
	var wire map[string][]*patientWire
	if err := c.postMultipart(ctx, "/messaging/PMOAminningarEftirManudum", nil, "file", filename, file, &wire); err != nil {
		return nil, err
	}
	grouped := make(map[string][]*model.Patient, len(wire))
	for month, patients := range wire {
		out := make([]*model.Patient, 0, len(patients))
		for _, patient := range patients {
			out = append(out, patient.toModel())
		}
		grouped[month] = out
	}
	return grouped, nil
}

// ReminderSMS personalises the template for each patient and builds the
// SendSMS batch, applying the +354 prefix to bare domestic numbers.
func ReminderSMS(patients []*model.Patient, template string) []SMSMessage {
	messages := make([]SMSMessage, 0, len(patients))
	for _, patient := range patients {
		if patient.Phone == "" {
			continue
		}
		messages = append(messages, SMSMessage{
			Recipient: patient.SMSRecipient(),
			Body:      patient.PersonaliseMessage(template),
		})
	}
	return messages
}
