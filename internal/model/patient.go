package model

import "strings"

// Patient is one waiting-list entry parsed out of the uploaded reminder
// spreadsheet, grouped by the month a booking is due.
type Patient struct {
	Name           string `json:"name"`
	Kennitala      string `json:"kennitala"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	BookBefore     string `json:"book_before"`
	CareProviderID string `json:"umonnunaradiliID"`
	CareProvider   string `json:"umonnunaradili"`
}

// SMSRecipient returns the patient's phone number in dialable form. Bare
// 7-digit domestic numbers get the +354 country prefix.
func (p *Patient) SMSRecipient() string {
	digits := NormaliseDigits(p.Phone)
	if len(digits) == 7 {
		return "+354" + digits
	}
	return p.Phone
}

// PersonaliseMessage substitutes the template placeholders %nafn% and
// %medferdaradili% with the patient's values.
func (p *Patient) PersonaliseMessage(template string) string {
	out := strings.ReplaceAll(template, "%nafn%", p.Name)
	return strings.ReplaceAll(out, "%medferdaradili%", p.CareProvider)
}
