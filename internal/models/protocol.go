// ABOUTME: Supplement protocol models: prescribed regimens and their supplements
// ABOUTME: Each supplement carries a frequency and per-day dose schedule
package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a protocol supplement is taken.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "2x_daily"
	FrequencyTwiceWeek  Frequency = "2x_week"
	FrequencyAsNeeded   Frequency = "as_needed"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyTwiceWeek, FrequencyAsNeeded:
		return true
	}
	return false
}

// ProtocolSupplementType distinguishes prescribed supplements from ones the
// patient already takes on their own.
type ProtocolSupplementType string

const (
	SupplementScheduled ProtocolSupplementType = "scheduled"
	SupplementOwn       ProtocolSupplementType = "own"
)

// Valid reports whether t is a known protocol supplement type.
func (t ProtocolSupplementType) Valid() bool {
	return t == SupplementScheduled || t == SupplementOwn
}

// SupplementProtocol is one complete regimen from a healthcare provider.
type SupplementProtocol struct {
	ID             string    `json:"id"`
	ProtocolDate   time.Time `json:"protocol_date"`
	Prescriber     string    `json:"prescriber,omitempty"`
	NextVisit      string    `json:"next_visit,omitempty"`
	SourceFile     string    `json:"source_file,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ProteinGoal    string    `json:"protein_goal,omitempty"`
	LifestyleNotes []string  `json:"lifestyle_notes,omitempty"`
}

// NewSupplementProtocol constructs a protocol, validating the date.
func NewSupplementProtocol(protocolDate time.Time, prescriber, nextVisit, sourceFile string) (*SupplementProtocol, error) {
	if protocolDate.IsZero() {
		return nil, validationErr("protocol_date", "must be set")
	}
	return &SupplementProtocol{
		ID:           uuid.New().String(),
		ProtocolDate: protocolDate,
		Prescriber:   prescriber,
		NextVisit:    nextVisit,
		SourceFile:   sourceFile,
		CreatedAt:    time.Now(),
	}, nil
}

// DoseSchedule holds dose counts for the seven daily timing slots.
type DoseSchedule struct {
	UponWaking   int `json:"upon_waking"`
	Breakfast    int `json:"breakfast"`
	MidMorning   int `json:"mid_morning"`
	Lunch        int `json:"lunch"`
	MidAfternoon int `json:"mid_afternoon"`
	Dinner       int `json:"dinner"`
	BeforeSleep  int `json:"before_sleep"`
}

// Total returns the total daily dose count.
func (s DoseSchedule) Total() int {
	return s.UponWaking + s.Breakfast + s.MidMorning + s.Lunch + s.MidAfternoon + s.Dinner + s.BeforeSleep
}

// ProtocolSupplement is one supplement entry within a protocol.
type ProtocolSupplement struct {
	ID                string                 `json:"id"`
	ProtocolID        string                 `json:"protocol_id"`
	SupplementLabelID string                 `json:"supplement_label_id,omitempty"`
	Type              ProtocolSupplementType `json:"type"`
	Name              string                 `json:"name"`
	Instructions      string                 `json:"instructions,omitempty"`
	Dosage            string                 `json:"dosage,omitempty"`
	Frequency         Frequency              `json:"frequency"`
	Schedule          DoseSchedule           `json:"schedule"`
}

// NewProtocolSupplement constructs a protocol supplement entry.
func NewProtocolSupplement(protocolID string, supplementType ProtocolSupplementType, name string, frequency Frequency) (*ProtocolSupplement, error) {
	if protocolID == "" {
		return nil, validationErr("protocol_id", "must not be empty")
	}
	if !supplementType.Valid() {
		return nil, validationErr("type", "must be scheduled or own")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if !frequency.Valid() {
		return nil, validationErr("frequency", "must be one of daily, 2x_daily, 2x_week, as_needed")
	}
	return &ProtocolSupplement{
		ID:         uuid.New().String(),
		ProtocolID: protocolID,
		Type:       supplementType,
		Name:       name,
		Frequency:  frequency,
	}, nil
}
