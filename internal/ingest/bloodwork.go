// ABOUTME: Bloodwork JSON parsing: lab report files into validated models
// ABOUTME: All validation happens here, before any database write
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

func parseRequiredDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing required field: %s", field)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// Bloodwork is a fully parsed lab report ready to persist.
type Bloodwork struct {
	Report *models.LabReport
	Panels []BloodworkPanel
}

// BloodworkPanel pairs a panel with its biomarkers.
type BloodworkPanel struct {
	Panel      models.Panel
	Biomarkers []models.Biomarker
}

type bloodworkFile struct {
	LabProvider   string `json:"lab_provider"`
	CollectedDate string `json:"collected_date"`
	ReceivedDate  string `json:"received_date"`
	ReportedDate  string `json:"reported_date"`
	Panels        []struct {
		Name       string `json:"name"`
		Comment    string `json:"comment"`
		Biomarkers []struct {
			Name          string   `json:"name"`
			Code          string   `json:"code"`
			Value         float64  `json:"value"`
			Unit          string   `json:"unit"`
			ReferenceLow  *float64 `json:"reference_low"`
			ReferenceHigh *float64 `json:"reference_high"`
			Flag          string   `json:"flag"`
		} `json:"biomarkers"`
	} `json:"panels"`
}

// ParseBloodwork parses a bloodwork JSON document into validated models. A
// validation failure anywhere rejects the whole document.
func ParseBloodwork(data []byte, sourceFile string) (*Bloodwork, error) {
	var file bloodworkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing bloodwork JSON: %w", err)
	}

	collected, err := parseRequiredDate("collected_date", file.CollectedDate)
	if err != nil {
		return nil, err
	}

	report, err := models.NewLabReport(file.LabProvider, collected, sourceFile)
	if err != nil {
		return nil, err
	}
	if report.ReceivedDate, err = parseOptionalDate("received_date", file.ReceivedDate); err != nil {
		return nil, err
	}
	if report.ReportedDate, err = parseOptionalDate("reported_date", file.ReportedDate); err != nil {
		return nil, err
	}

	result := &Bloodwork{Report: report}
	for _, panelData := range file.Panels {
		panel, err := models.NewPanel(report.ID, panelData.Name, panelData.Comment)
		if err != nil {
			return nil, err
		}

		entry := BloodworkPanel{Panel: *panel}
		for _, markerData := range panelData.Biomarkers {
			marker, err := models.NewBiomarker(panel.ID, markerData.Name,
				markerData.Code, markerData.Value, markerData.Unit,
				markerData.ReferenceLow, markerData.ReferenceHigh,
				models.Flag(markerData.Flag))
			if err != nil {
				return nil, err
			}
			entry.Biomarkers = append(entry.Biomarkers, *marker)
		}
		result.Panels = append(result.Panels, entry)
	}

	return result, nil
}
