package core

import (
	"testing"
	"time"
)

func TestMaterialize_PrimaryFirst(t *testing.T) {
	sub := Submission{
		Primary: PersonPayload{Name: "Asha", Email: "asha@example.com"},
		Family: []PersonPayload{
			{Name: "Ravi"},
			{Name: "Meena", Relation: "Daughter"},
		},
	}

	records := Materialize(sub, "batch-1", time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC))

	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Relation != RelationPrimary {
		t.Errorf("records[0].Relation = %q, want %q", records[0].Relation, RelationPrimary)
	}
	if records[1].Relation != "Family Member 1" {
		t.Errorf("records[1].Relation = %q, want %q", records[1].Relation, "Family Member 1")
	}
	if records[2].Relation != "Daughter" {
		t.Errorf("records[2].Relation = %q, want %q", records[2].Relation, "Daughter")
	}
}

func TestMaterialize_SharedBatchFields(t *testing.T) {
	sub := Submission{
		Primary: PersonPayload{Name: "Asha", Email: "  Asha@Example.com  "},
		Family:  []PersonPayload{{Name: "Ravi"}, {Name: "Meena"}},
	}
	submitted := time.Date(2026, 2, 1, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	records := Materialize(sub, "batch-7", submitted)

	wantStamp := submitted.UTC().Format(time.RFC3339)
	for i, r := range records {
		if r.SubmissionID != "batch-7" {
			t.Errorf("records[%d].SubmissionID = %q, want %q", i, r.SubmissionID, "batch-7")
		}
		if r.Email != "Asha@Example.com" {
			t.Errorf("records[%d].Email = %q, want primary's trimmed email", i, r.Email)
		}
		if r.SubmittedAt != wantStamp {
			t.Errorf("records[%d].SubmittedAt = %q, want %q", i, r.SubmittedAt, wantStamp)
		}
	}
}

func TestMaterialize_Sentinels(t *testing.T) {
	sub := Submission{
		Primary: PersonPayload{Name: "Asha", Email: "asha@example.com"},
		Family:  []PersonPayload{{}},
	}

	records := Materialize(sub, "batch-1", time.Now())
	member := records[1]

	for field, got := range map[string]string{
		"Name":       member.Name,
		"Gotra":      member.Gotra,
		"Nakshatra":  member.Nakshatra,
		"Rashi":      member.Rashi,
		"TamilMonth": member.TamilMonth,
		"Phone":      member.Phone,
		"Address":    member.Address,
	} {
		if got != NotAvailable {
			t.Errorf("%s = %q, want %q", field, got, NotAvailable)
		}
	}

	// Descriptive fields stay empty rather than getting the sentinel.
	if member.OccasionName != "" {
		t.Errorf("OccasionName = %q, want empty", member.OccasionName)
	}
	if member.EventDescription != "" {
		t.Errorf("EventDescription = %q, want empty", member.EventDescription)
	}
	if member.DateOfEvent != "" {
		t.Errorf("DateOfEvent = %q, want empty", member.DateOfEvent)
	}
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		wantKey string
		wantErr bool
	}{
		{
			name:    "valid",
			sub:     Submission{Primary: PersonPayload{Name: "Asha", Email: "Asha@Example.com"}},
			wantKey: "asha@example.com",
		},
		{
			name:    "missing name",
			sub:     Submission{Primary: PersonPayload{Email: "asha@example.com"}},
			wantErr: true,
		},
		{
			name:    "missing email",
			sub:     Submission{Primary: PersonPayload{Name: "Asha"}},
			wantErr: true,
		},
		{
			name:    "whitespace email",
			sub:     Submission{Primary: PersonPayload{Name: "Asha", Email: "   "}},
			wantErr: true,
		},
		{
			name: "too many family members",
			sub: Submission{
				Primary: PersonPayload{Name: "Asha", Email: "asha@example.com"},
				Family:  make([]PersonPayload, 11),
			},
			wantErr: true,
		},
		{
			name: "family at the limit",
			sub: Submission{
				Primary: PersonPayload{Name: "Asha", Email: "asha@example.com"},
				Family:  make([]PersonPayload, 10),
			},
			wantKey: "asha@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ValidateSubmission(tt.sub, 10)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSubmission() error = %v, wantErr %v", err, tt.wantErr)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Asha@Example.com", "asha@example.com"},
		{"  asha@example.com  ", "asha@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := IdentityKey(tt.in); got != tt.want {
			t.Errorf("IdentityKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
