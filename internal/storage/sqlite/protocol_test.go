// ABOUTME: Tests for supplement protocol storage operations
// ABOUTME: Verifies protocol imports, current selection, and dose schedules
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

func TestProtocolSaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewProtocolStore(db)

	protocol, err := models.NewSupplementProtocol(
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		"Dr. Chen", "in 3 months", "protocol_2025_04.json")
	if err != nil {
		t.Fatalf("NewSupplementProtocol() error = %v", err)
	}
	protocol.ProteinGoal = "120g daily"
	protocol.LifestyleNotes = []string{"morning sunlight", "zone 2 cardio 3x/week"}

	scheduled, err := models.NewProtocolSupplement(protocol.ID, models.SupplementScheduled,
		"Magnesium Glycinate", models.FrequencyDaily)
	if err != nil {
		t.Fatalf("NewProtocolSupplement() error = %v", err)
	}
	scheduled.Dosage = "240mg"
	scheduled.Schedule = models.DoseSchedule{Dinner: 1, BeforeSleep: 1}

	own, err := models.NewProtocolSupplement(protocol.ID, models.SupplementOwn,
		"Fish Oil", models.FrequencyDaily)
	if err != nil {
		t.Fatalf("NewProtocolSupplement() error = %v", err)
	}
	own.Schedule = models.DoseSchedule{Breakfast: 2}

	if err := store.SaveProtocol(protocol, []models.ProtocolSupplement{*scheduled, *own}); err != nil {
		t.Fatalf("SaveProtocol() error = %v", err)
	}

	retrieved, err := store.GetProtocol(protocol.ID)
	if err != nil {
		t.Fatalf("GetProtocol() error = %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetProtocol() returned nil")
	}
	if retrieved.Prescriber != "Dr. Chen" || retrieved.ProteinGoal != "120g daily" {
		t.Errorf("protocol = %+v", retrieved)
	}
	if len(retrieved.LifestyleNotes) != 2 {
		t.Errorf("LifestyleNotes = %v, want 2 entries", retrieved.LifestyleNotes)
	}

	supplements, err := store.GetSupplementsForProtocol(protocol.ID)
	if err != nil {
		t.Fatalf("GetSupplementsForProtocol() error = %v", err)
	}
	if len(supplements) != 2 {
		t.Fatalf("GetSupplementsForProtocol() returned %d, want 2", len(supplements))
	}
	// Scheduled entries come before own.
	if supplements[0].Type != models.SupplementScheduled {
		t.Errorf("supplements[0].Type = %v, want scheduled", supplements[0].Type)
	}
	if supplements[0].Schedule.Total() != 2 {
		t.Errorf("Schedule.Total() = %d, want 2", supplements[0].Schedule.Total())
	}
	if supplements[0].Schedule.Dinner != 1 || supplements[0].Schedule.BeforeSleep != 1 {
		t.Errorf("Schedule = %+v, want dinner and before sleep doses", supplements[0].Schedule)
	}
}

func TestProtocolImportDedup(t *testing.T) {
	db := testDB(t)
	store := NewProtocolStore(db)

	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	protocol, err := models.NewSupplementProtocol(date, "", "", "protocol_2025_04.json")
	if err != nil {
		t.Fatalf("NewSupplementProtocol() error = %v", err)
	}
	if err := store.SaveProtocol(protocol, nil); err != nil {
		t.Fatalf("SaveProtocol() error = %v", err)
	}

	duplicate, err := models.NewSupplementProtocol(date, "", "", "protocol_2025_04.json")
	if err != nil {
		t.Fatalf("NewSupplementProtocol() error = %v", err)
	}
	saveErr := store.SaveProtocol(duplicate, nil)
	var impErr *AlreadyImportedError
	if !errors.As(saveErr, &impErr) {
		t.Fatalf("SaveProtocol() error = %v, want AlreadyImportedError", saveErr)
	}
}

func TestProtocolGetCurrent(t *testing.T) {
	db := testDB(t)
	store := NewProtocolStore(db)

	none, err := store.GetCurrentProtocol()
	if err != nil {
		t.Fatalf("GetCurrentProtocol() error = %v", err)
	}
	if none != nil {
		t.Errorf("GetCurrentProtocol() = %v, want nil on empty store", none)
	}

	for _, date := range []time.Time{
		time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	} {
		protocol, err := models.NewSupplementProtocol(date, "", "", date.Format("protocol_2006_01_02.json"))
		if err != nil {
			t.Fatalf("NewSupplementProtocol() error = %v", err)
		}
		if err := store.SaveProtocol(protocol, nil); err != nil {
			t.Fatalf("SaveProtocol() error = %v", err)
		}
	}

	current, err := store.GetCurrentProtocol()
	if err != nil {
		t.Fatalf("GetCurrentProtocol() error = %v", err)
	}
	if current == nil {
		t.Fatal("GetCurrentProtocol() returned nil")
	}
	want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if !current.ProtocolDate.Equal(want) {
		t.Errorf("ProtocolDate = %v, want %v", current.ProtocolDate, want)
	}

	protocols, err := store.ListProtocols()
	if err != nil {
		t.Fatalf("ListProtocols() error = %v", err)
	}
	if len(protocols) != 3 {
		t.Fatalf("ListProtocols() returned %d, want 3", len(protocols))
	}
	if !protocols[0].ProtocolDate.Equal(want) {
		t.Errorf("protocols[0].ProtocolDate = %v, want newest first", protocols[0].ProtocolDate)
	}
}
