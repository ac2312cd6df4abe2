package model

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Receiver is one addressee of a document message. The JSON field names
// follow the backend's SendMessage contract.
type Receiver struct {
	Name      *string `json:"Name" validate:"omitempty"`
	SSN       *string `json:"SSN" validate:"required,kennitala"`
	Email     *string `json:"Email" validate:"omitempty,email"`
	Mobile    *string `json:"Mobile"`
	Message   *string `json:"Message"`
	Notify    bool    `json:"Notify"`
	Fetched   *string `json:"Fetched"`
	AuthData  *string `json:"AuthData"`
	FetchData *string `json:"FetchData"`
}

// NewReceiver builds a receiver for a person, mapping empty strings to
// JSON nulls the way the backend expects.
func NewReceiver(name, ssn, email, mobile, message string) *Receiver {
	r := &Receiver{Notify: true}
	r.Name = optional(name)
	r.SSN = optional(NormaliseKennitala(ssn))
	r.Email = optional(CleanContactValue(email))
	r.Mobile = optional(CleanContactValue(mobile))
	r.Message = optional(message)
	return r
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Company is an organisation entry in the company directory.
type Company struct {
	CompanyName  string `json:"CompanyName"`
	SerialNumber string `json:"SerialNumber"`
}

// CompanyGroup is a recipient group inside a company.
type CompanyGroup struct {
	ID          int64   `json:"ID"`
	Name        string  `json:"Name"`
	Description *string `json:"Description"`
	Company     string  `json:"Company"`
}

// FilterCompanies narrows the directory by a free-text query, matching
// the name case-insensitively or the serial by its digits.
func FilterCompanies(companies []*Company, query string) []*Company {
	q := Normalise(query)
	if q == "" {
		return companies
	}
	digits := NormaliseDigits(q)
	out := make([]*Company, 0, len(companies))
	for _, c := range companies {
		if strings.Contains(Normalise(c.CompanyName), q) {
			out = append(out, c)
			continue
		}
		if digits != "" && strings.Contains(c.SerialNumber, digits) {
			out = append(out, c)
		}
	}
	return out
}

// MatchCompany locks a selection from free-form input: an exact 10-digit
// serial, a "Name (serial)" suffix, or an exact name match, in that
// order. Nil when nothing matches.
func MatchCompany(companies []*Company, input string) *Company {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	digits := NormaliseDigits(trimmed)
	if len(digits) == 10 {
		for _, c := range companies {
			if c.SerialNumber == digits {
				return c
			}
		}
	}
	if open := strings.LastIndex(trimmed, "("); open >= 0 && strings.HasSuffix(trimmed, ")") {
		serial := NormaliseDigits(trimmed[open:])
		if len(serial) == 10 {
			for _, c := range companies {
				if c.SerialNumber == serial {
					return c
				}
			}
		}
	}
	for _, c := range companies {
		if c.CompanyName == trimmed {
			return c
		}
	}
	return nil
}

// CleanContactValue squeezes a usable string out of the sloppy payloads
// the contact endpoints return: bare strings, "{}", "null", or objects
// nesting the value under value/tel/email.
func CleanContactValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		t := strings.TrimSpace(val)
		if t == "{}" || strings.EqualFold(t, "null") {
			return ""
		}
		return t
	case map[string]interface{}:
		var entry struct {
			Value interface{} `mapstructure:"value"`
			Tel   interface{} `mapstructure:"tel"`
			Email interface{} `mapstructure:"email"`
		}
		if err := mapstructure.Decode(val, &entry); err != nil {
			return ""
		}
		if entry.Value != nil {
			return CleanContactValue(entry.Value)
		}
		if entry.Tel != nil {
			return CleanContactValue(entry.Tel)
		}
		return CleanContactValue(entry.Email)
	}
	return ""
}
