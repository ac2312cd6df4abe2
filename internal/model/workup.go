package model

import (
	"strconv"
	"strings"
	"time"
)

// WorkupForm is one questionnaire attached to a workup case.
type WorkupForm struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	TallyID     string     `json:"tally_id"`
	Submission  *int64     `json:"submission"`
	CompletedAt *time.Time `json:"completed_at"`
}

// WorkupRecord is one row of the workup admin listing: per-stage
// completion timestamps and results plus payment references.
type WorkupRecord struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	FormExpiresAt time.Time  `json:"form_expires_at"`
	IsCompleted   bool       `json:"is_completed"`
	IsActive      bool       `json:"is_active"`
	TOSSignedAt   *time.Time `json:"tos_signed_at"`

	FormsCompleted        *time.Time `json:"forms_completed"`
	ScreeningCompleted    *time.Time `json:"screening_completed"`
	NurseCompleted        *time.Time `json:"nurse_completed"`
	PsychologistCompleted *time.Time `json:"psychologist_completed"`
	DoctorCompleted       *time.Time `json:"doctor_completed"`

	ScreeningResult    *bool `json:"screening_result"`
	NurseResult        *bool `json:"nurse_result"`
	PsychologistResult *bool `json:"psychologist_result"`
	DoctorResult       *bool `json:"doctor_result"`

	UserName      string `json:"user_name"`
	UserKennitala string `json:"user_kennitala"`

	ScreeningReference         *string    `json:"screening_reference"`
	ScreeningItemArticle       *string    `json:"screening_item_article"`
	ScreeningAmount            *float64   `json:"screening_amount"`
	ScreeningIsPaid            *bool      `json:"screening_is_paid"`
	ScreeningPaymentStatus     *string    `json:"screening_payment_status"`
	ScreeningPaidAt            *time.Time `json:"screening_paid_at"`
	ScreeningAuthorisationCode *string    `json:"screening_authorisation_code"`

	WorkupReference         *string    `json:"workup_reference"`
	WorkupItemArticle       *string    `json:"workup_item_article"`
	WorkupAmount            *float64   `json:"workup_amount"`
	WorkupIsPaid            *bool      `json:"workup_is_paid"`
	WorkupPaymentStatus     *string    `json:"workup_payment_status"`
	WorkupPaidAt            *time.Time `json:"workup_paid_at"`
	WorkupAuthorisationCode *string    `json:"workup_authorisation_code"`

	Forms []WorkupForm `json:"forms"`
}

// MatchesQuery reports whether the row matches a free-text search over
// the client's name and kennitala.
func (w *WorkupRecord) MatchesQuery(query string) bool {
	q := Normalise(query)
	if q == "" {
		return true
	}
	return strings.Contains(Normalise(w.UserName), q) ||
		strings.Contains(Normalise(w.UserKennitala), q)
}

// Key returns the stable row identity.
func (w *WorkupRecord) Key() string {
	return strconv.FormatInt(w.ID, 10)
}

// Field returns a sortable column value.
func (w *WorkupRecord) Field(name string) interface{} {
	switch name {
	case "id":
		return w.ID
	case "user_name":
		return w.UserName
	case "user_kennitala":
		return w.UserKennitala
	case "created_at":
		if w.CreatedAt.IsZero() {
			return nil
		}
		return w.CreatedAt
	case "updated_at":
		if w.UpdatedAt.IsZero() {
			return nil
		}
		return w.UpdatedAt
	case "forms_completed":
		return timeOrNil(w.FormsCompleted)
	case "screening_completed":
		return timeOrNil(w.ScreeningCompleted)
	case "nurse_completed":
		return timeOrNil(w.NurseCompleted)
	case "psychologist_completed":
		return timeOrNil(w.PsychologistCompleted)
	case "doctor_completed":
		return timeOrNil(w.DoctorCompleted)
	}
	return nil
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}
