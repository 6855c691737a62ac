// ABOUTME: Bloodwork models: lab reports containing panels of biomarker results
// ABOUTME: Biomarker codes are standardized for tracking values across reports
package models

import (
	"time"

	"github.com/google/uuid"
)

// Flag indicates whether a biomarker result is inside its reference range.
type Flag string

const (
	FlagNormal       Flag = "normal"
	FlagHigh         Flag = "high"
	FlagLow          Flag = "low"
	FlagCriticalLow  Flag = "critical_low"
	FlagCriticalHigh Flag = "critical_high"
	FlagPending      Flag = "pending"
)

// Valid reports whether f is a known flag value.
func (f Flag) Valid() bool {
	switch f {
	case FlagNormal, FlagHigh, FlagLow, FlagCriticalLow, FlagCriticalHigh, FlagPending:
		return true
	}
	return false
}

// LabReport is one complete lab order from a provider.
type LabReport struct {
	ID            string    `json:"id"`
	LabProvider   string    `json:"lab_provider"`
	CollectedDate time.Time `json:"collected_date"`
	ReceivedDate  time.Time `json:"received_date,omitempty"`
	ReportedDate  time.Time `json:"reported_date,omitempty"`
	SourceFile    string    `json:"source_file,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewLabReport constructs a lab report, validating required fields.
func NewLabReport(labProvider string, collectedDate time.Time, sourceFile string) (*LabReport, error) {
	if labProvider == "" {
		return nil, validationErr("lab_provider", "must not be empty")
	}
	if collectedDate.IsZero() {
		return nil, validationErr("collected_date", "must be set")
	}
	return &LabReport{
		ID:            uuid.New().String(),
		LabProvider:   labProvider,
		CollectedDate: collectedDate,
		SourceFile:    sourceFile,
		CreatedAt:     time.Now(),
	}, nil
}

// Panel groups biomarkers tested together (e.g. "CBC", "Lipid Panel").
type Panel struct {
	ID          string `json:"id"`
	LabReportID string `json:"lab_report_id"`
	Name        string `json:"name"`
	Comment     string `json:"comment,omitempty"`
}

// NewPanel constructs a panel bound to a lab report.
func NewPanel(labReportID, name, comment string) (*Panel, error) {
	if labReportID == "" {
		return nil, validationErr("lab_report_id", "must not be empty")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	return &Panel{
		ID:          uuid.New().String(),
		LabReportID: labReportID,
		Name:        name,
		Comment:     comment,
	}, nil
}

// Biomarker is a single measured value within a panel. The temporal context
// fields (CollectedDate, LabProvider, PanelName) are populated by queries that
// join through the panel and report; they are not stored on the row.
type Biomarker struct {
	ID            string   `json:"id"`
	PanelID       string   `json:"panel_id"`
	Name          string   `json:"name"`
	Code          string   `json:"code"`
	Value         float64  `json:"value"`
	Unit          string   `json:"unit"`
	ReferenceLow  *float64 `json:"reference_low,omitempty"`
	ReferenceHigh *float64 `json:"reference_high,omitempty"`
	Flag          Flag     `json:"flag"`

	CollectedDate time.Time `json:"collected_date,omitempty"`
	LabProvider   string    `json:"lab_provider,omitempty"`
	PanelName     string    `json:"panel_name,omitempty"`
}

// NewBiomarker constructs a biomarker bound to a panel, validating its code
// and flag.
func NewBiomarker(panelID, name, code string, value float64, unit string, refLow, refHigh *float64, flag Flag) (*Biomarker, error) {
	if panelID == "" {
		return nil, validationErr("panel_id", "must not be empty")
	}
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if err := ValidateCode("code", code); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, validationErr("unit", "must not be empty")
	}
	if flag == "" {
		flag = FlagNormal
	}
	if !flag.Valid() {
		return nil, validationErr("flag", "must be one of normal, high, low, critical_low, critical_high, pending")
	}
	return &Biomarker{
		ID:            uuid.New().String(),
		PanelID:       panelID,
		Name:          name,
		Code:          code,
		Value:         value,
		Unit:          unit,
		ReferenceLow:  refLow,
		ReferenceHigh: refHigh,
		Flag:          flag,
	}, nil
}
