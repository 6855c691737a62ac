// ABOUTME: Tests for bloodwork storage operations
// ABOUTME: Verifies report imports, dedup, and biomarker history queries
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

// seedReport saves a report with one panel holding the given biomarkers.
func seedReport(t *testing.T, store *BloodworkStore, collected time.Time, sourceFile string, markers []markerSpec) *models.LabReport {
	t.Helper()
	report, err := models.NewLabReport("Quest Diagnostics", collected, sourceFile)
	if err != nil {
		t.Fatalf("NewLabReport() error = %v", err)
	}
	panel, err := models.NewPanel(report.ID, "Comprehensive Metabolic Panel", "")
	if err != nil {
		t.Fatalf("NewPanel() error = %v", err)
	}

	var biomarkers []models.Biomarker
	for _, spec := range markers {
		m, err := models.NewBiomarker(panel.ID, spec.name, spec.code, spec.value,
			"mg/dL", floatPtr(spec.low), floatPtr(spec.high), spec.flag)
		if err != nil {
			t.Fatalf("NewBiomarker() error = %v", err)
		}
		biomarkers = append(biomarkers, *m)
	}

	if err := store.SaveReport(report, []PanelInput{{Panel: *panel, Biomarkers: biomarkers}}); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	return report
}

type markerSpec struct {
	name  string
	code  string
	value float64
	low   float64
	high  float64
	flag  models.Flag
}

func TestBloodworkSaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	collected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	report := seedReport(t, store, collected, "labs_2025_01.json", []markerSpec{
		{name: "Glucose", code: "GLUCOSE", value: 92, low: 70, high: 99, flag: models.FlagNormal},
	})

	retrieved, err := store.GetReport(report.ID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetReport() returned nil")
	}
	if retrieved.LabProvider != "Quest Diagnostics" {
		t.Errorf("LabProvider = %v, want Quest Diagnostics", retrieved.LabProvider)
	}
	if !retrieved.CollectedDate.Equal(collected) {
		t.Errorf("CollectedDate = %v, want %v", retrieved.CollectedDate, collected)
	}

	panels, err := store.GetPanelsForReport(report.ID)
	if err != nil {
		t.Fatalf("GetPanelsForReport() error = %v", err)
	}
	if len(panels) != 1 {
		t.Fatalf("GetPanelsForReport() returned %d panels, want 1", len(panels))
	}

	markers, err := store.GetBiomarkersForPanel(panels[0].ID)
	if err != nil {
		t.Fatalf("GetBiomarkersForPanel() error = %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("GetBiomarkersForPanel() returned %d markers, want 1", len(markers))
	}
	if markers[0].Code != "GLUCOSE" || markers[0].Value != 92 {
		t.Errorf("marker = %+v, want GLUCOSE 92", markers[0])
	}
	if markers[0].ReferenceLow == nil || *markers[0].ReferenceLow != 70 {
		t.Errorf("ReferenceLow = %v, want 70", markers[0].ReferenceLow)
	}
}

func TestBloodworkImportDedup(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	collected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	seedReport(t, store, collected, "labs_2025_01.json", []markerSpec{
		{name: "Glucose", code: "GLUCOSE", value: 92, low: 70, high: 99, flag: models.FlagNormal},
	})

	duplicate, err := models.NewLabReport("Quest Diagnostics", collected, "labs_2025_01.json")
	if err != nil {
		t.Fatalf("NewLabReport() error = %v", err)
	}
	saveErr := store.SaveReport(duplicate, nil)
	var impErr *AlreadyImportedError
	if !errors.As(saveErr, &impErr) {
		t.Fatalf("SaveReport() error = %v, want AlreadyImportedError", saveErr)
	}

	reports, err := store.ListReports()
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("ListReports() returned %d reports after dup import, want 1", len(reports))
	}
}

func TestBloodworkBiomarkerHistory(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	dates := []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	values := []float64{88, 95, 102}
	for i, d := range dates {
		flag := models.FlagNormal
		if values[i] > 99 {
			flag = models.FlagHigh
		}
		seedReport(t, store, d, d.Format("labs_2006_01.json"), []markerSpec{
			{name: "Glucose", code: "GLUCOSE", value: values[i], low: 70, high: 99, flag: flag},
		})
	}

	history, err := store.GetBiomarkerHistory("GLUCOSE", 2)
	if err != nil {
		t.Fatalf("GetBiomarkerHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("GetBiomarkerHistory() returned %d results, want 2", len(history))
	}
	if history[0].Value != 102 || history[1].Value != 95 {
		t.Errorf("history values = [%v, %v], want [102, 95]", history[0].Value, history[1].Value)
	}
	if history[0].PanelName != "Comprehensive Metabolic Panel" {
		t.Errorf("PanelName = %v, want joined panel name", history[0].PanelName)
	}
	if history[0].CollectedDate.IsZero() {
		t.Error("CollectedDate not populated from report join")
	}
}

func TestBloodworkGetFlagged(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	seedReport(t, store, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "labs_flagged.json", []markerSpec{
		{name: "Glucose", code: "GLUCOSE", value: 92, low: 70, high: 99, flag: models.FlagNormal},
		{name: "LDL Cholesterol", code: "LDL", value: 162, low: 0, high: 99, flag: models.FlagHigh},
		{name: "Vitamin D", code: "VITAMIN_D", value: 18, low: 30, high: 100, flag: models.FlagLow},
	})

	flagged, err := store.GetFlagged()
	if err != nil {
		t.Fatalf("GetFlagged() error = %v", err)
	}
	if len(flagged) != 2 {
		t.Fatalf("GetFlagged() returned %d markers, want 2", len(flagged))
	}
	for _, m := range flagged {
		if m.Flag == models.FlagNormal || m.Flag == models.FlagPending {
			t.Errorf("GetFlagged() included %s with flag %s", m.Code, m.Flag)
		}
	}
}

func TestBloodworkGetRecent(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	seedReport(t, store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "labs_old.json", []markerSpec{
		{name: "Glucose", code: "GLUCOSE", value: 88, low: 70, high: 99, flag: models.FlagNormal},
		{name: "Ferritin", code: "FERRITIN", value: 45, low: 20, high: 250, flag: models.FlagNormal},
	})
	seedReport(t, store, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "labs_new.json", []markerSpec{
		{name: "Glucose", code: "GLUCOSE", value: 95, low: 70, high: 99, flag: models.FlagNormal},
	})

	recent, err := store.GetRecent()
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("GetRecent() returned %d markers, want 2", len(recent))
	}
	// Sorted by code: FERRITIN then GLUCOSE, each from its latest report.
	if recent[0].Code != "FERRITIN" || recent[0].Value != 45 {
		t.Errorf("recent[0] = %s %v, want FERRITIN 45", recent[0].Code, recent[0].Value)
	}
	if recent[1].Code != "GLUCOSE" || recent[1].Value != 95 {
		t.Errorf("recent[1] = %s %v, want GLUCOSE 95", recent[1].Code, recent[1].Value)
	}
}

func TestBloodworkGetReportMissing(t *testing.T) {
	db := testDB(t)
	store := NewBloodworkStore(db)

	retrieved, err := store.GetReport("no-such-id")
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if retrieved != nil {
		t.Errorf("GetReport() = %v, want nil", retrieved)
	}
}
