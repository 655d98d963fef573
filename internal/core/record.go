package core

import (
	"fmt"
	"strings"
	"time"
)

// RelationPrimary marks the one record per batch belonging to the
// primary respondent.
const RelationPrimary = "Self (Primary)"

// NotAvailable is the sentinel written for absent identity-ish fields
// (name, gotra, nakshatra, rashi, tamil month, phone, address).
// Descriptive fields (occasion, description, date) default to "".
const NotAvailable = "N/A"

// DateLayout is the expected form of DateOfEvent.
const DateLayout = "2006-01-02"

// EventRecord is one row per person-event entry. All fields are fully
// populated after materialization; sentinels stand in for absent input.
type EventRecord struct {
	SubmissionID     string `json:"submissionId" bson:"submission_id"`
	Name             string `json:"name" bson:"name"`
	Email            string `json:"email" bson:"email"`
	OccasionName     string `json:"occasionName" bson:"occasion_name"`
	EventDescription string `json:"eventDescription" bson:"event_description"`
	DateOfEvent      string `json:"dateOfEvent" bson:"date_of_event"`
	Gotra            string `json:"gotra" bson:"gotra"`
	Nakshatra        string `json:"nakshatra" bson:"nakshatra"`
	Rashi            string `json:"rashi" bson:"rashi"`
	TamilMonth       string `json:"tamilMonth" bson:"tamil_month"`
	Phone            string `json:"phone" bson:"phone"`
	Address          string `json:"address" bson:"address"`
	Relation         string `json:"relation" bson:"relation"`
	SubmittedAt      string `json:"submittedAt" bson:"submitted_at"`
}

// IdentityKey returns the lowercased trimmed email used as the ledger
// and store lookup key. Email is stored as submitted; only lookups
// normalize.
func (r EventRecord) IdentityKey() string {
	return IdentityKey(r.Email)
}

// IdentityKey derives the canonical lookup key from a raw email.
func IdentityKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseEventDate parses a DateOfEvent value. ok is false for empty or
// malformed values, which sort before all valid dates and match no
// month/year filter.
func ParseEventDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Columns is the declared column order shared by the flat-file store
// and the mirror. The header row of both files matches this exactly.
func Columns() []string {
	return []string{
		"Submission ID",
		"Name",
		"Email",
		"Occasion Name",
		"Event Description",
		"Date of Event",
		"Gotra",
		"Nakshatra",
		"Rashi",
		"Tamil Month",
		"Phone",
		"Address",
		"Relation",
		"Submitted At",
	}
}

// Row projects a record into the Columns order.
func (r EventRecord) Row() []string {
	return []string{
		r.SubmissionID,
		r.Name,
		r.Email,
		r.OccasionName,
		r.EventDescription,
		r.DateOfEvent,
		r.Gotra,
		r.Nakshatra,
		r.Rashi,
		r.TamilMonth,
		r.Phone,
		r.Address,
		r.Relation,
		r.SubmittedAt,
	}
}

// RecordFromRow is the inverse of Row.
func RecordFromRow(row []string) (EventRecord, error) {
	if len(row) != len(Columns()) {
		return EventRecord{}, fmt.Errorf("row has %d fields, want %d", len(row), len(Columns()))
	}
	return EventRecord{
		SubmissionID:     row[0],
		Name:             row[1],
		Email:            row[2],
		OccasionName:     row[3],
		EventDescription: row[4],
		DateOfEvent:      row[5],
		Gotra:            row[6],
		Nakshatra:        row[7],
		Rashi:            row[8],
		TamilMonth:       row[9],
		Phone:            row[10],
		Address:          row[11],
		Relation:         row[12],
		SubmittedAt:      row[13],
	}, nil
}

// PersonPayload is the wire shape of one person in a submission.
// Empty fields mean absent; the materializer projects sentinels.
type PersonPayload struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	OccasionName     string `json:"occasionName"`
	EventDescription string `json:"eventDescription"`
	DateOfEvent      string `json:"dateOfEvent"`
	Gotra            string `json:"gotra"`
	Nakshatra        string `json:"nakshatra"`
	Rashi            string `json:"rashi"`
	TamilMonth       string `json:"tamilMonth"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Relation         string `json:"relation"`
}

// Submission is the body of POST /save: one primary respondent plus
// zero or more family members.
type Submission struct {
	Primary PersonPayload   `json:"primary"`
	Family  []PersonPayload `json:"family"`
}
