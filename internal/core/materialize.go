package core

import (
	"fmt"
	"strings"
	"time"
)

// Materialize expands a submission into its flat event records:
// primary first, family members in input order. Every record carries
// the same batch ID, the primary's email, and the same submission
// timestamp. Absent optional fields are projected to sentinels so the
// output schema is always fully populated.
func Materialize(sub Submission, batchID string, submittedAt time.Time) []EventRecord {
	stamp := submittedAt.UTC().Format(time.RFC3339)
	email := strings.TrimSpace(sub.Primary.Email)

	records := make([]EventRecord, 0, 1+len(sub.Family))
	records = append(records, materializePerson(sub.Primary, batchID, email, RelationPrimary, stamp))

	for i, member := range sub.Family {
		relation := strings.TrimSpace(member.Relation)
		if relation == "" {
			relation = fmt.Sprintf("Family Member %d", i+1)
		}
		records = append(records, materializePerson(member, batchID, email, relation, stamp))
	}

	return records
}

func materializePerson(p PersonPayload, batchID, email, relation, stamp string) EventRecord {
	return EventRecord{
		SubmissionID:     batchID,
		Name:             orSentinel(p.Name),
		Email:            email,
		OccasionName:     strings.TrimSpace(p.OccasionName),
		EventDescription: strings.TrimSpace(p.EventDescription),
		DateOfEvent:      strings.TrimSpace(p.DateOfEvent),
		Gotra:            orSentinel(p.Gotra),
		Nakshatra:        orSentinel(p.Nakshatra),
		Rashi:            orSentinel(p.Rashi),
		TamilMonth:       orSentinel(p.TamilMonth),
		Phone:            orSentinel(p.Phone),
		Address:          orSentinel(p.Address),
		Relation:         relation,
		SubmittedAt:      stamp,
	}
}

func orSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}
