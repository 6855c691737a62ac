// ABOUTME: Protocol JSON parsing: prescribed regimens into validated models
// ABOUTME: Scheduled supplements carry dose schedules, own supplements do not
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/bioarchitect/biodb/internal/models"
)

// Protocol is a fully parsed supplement protocol ready to persist.
type Protocol struct {
	Protocol    *models.SupplementProtocol
	Supplements []models.ProtocolSupplement
}

type protocolSupplementData struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Schedule     struct {
		UponWaking   int `json:"upon_waking"`
		Breakfast    int `json:"breakfast"`
		MidMorning   int `json:"mid_morning"`
		Lunch        int `json:"lunch"`
		MidAfternoon int `json:"mid_afternoon"`
		Dinner       int `json:"dinner"`
		BeforeSleep  int `json:"before_sleep"`
	} `json:"schedule"`
}

type protocolFile struct {
	ProtocolDate   string                   `json:"protocol_date"`
	Prescriber     string                   `json:"prescriber"`
	NextVisit      string                   `json:"next_visit"`
	Supplements    []protocolSupplementData `json:"supplements"`
	OwnSupplements []protocolSupplementData `json:"own_supplements"`
	LifestyleNotes struct {
		ProteinGoal string   `json:"protein_goal"`
		Other       []string `json:"other"`
	} `json:"lifestyle_notes"`
}

// ParseProtocol parses a protocol JSON document into validated models.
func ParseProtocol(data []byte, sourceFile string) (*Protocol, error) {
	var file protocolFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing protocol JSON: %w", err)
	}

	protocolDate, err := parseRequiredDate("protocol_date", file.ProtocolDate)
	if err != nil {
		return nil, err
	}

	protocol, err := models.NewSupplementProtocol(protocolDate, file.Prescriber,
		file.NextVisit, sourceFile)
	if err != nil {
		return nil, err
	}
	protocol.ProteinGoal = file.LifestyleNotes.ProteinGoal
	protocol.LifestyleNotes = file.LifestyleNotes.Other

	result := &Protocol{Protocol: protocol}

	for _, data := range file.Supplements {
		supplement, err := models.NewProtocolSupplement(protocol.ID,
			models.SupplementScheduled, data.Name, models.Frequency(data.Frequency))
		if err != nil {
			return nil, err
		}
		supplement.Instructions = data.Instructions
		supplement.Dosage = data.Dosage
		supplement.Schedule = models.DoseSchedule{
			UponWaking:   data.Schedule.UponWaking,
			Breakfast:    data.Schedule.Breakfast,
			MidMorning:   data.Schedule.MidMorning,
			Lunch:        data.Schedule.Lunch,
			MidAfternoon: data.Schedule.MidAfternoon,
			Dinner:       data.Schedule.Dinner,
			BeforeSleep:  data.Schedule.BeforeSleep,
		}
		result.Supplements = append(result.Supplements, *supplement)
	}

	for _, data := range file.OwnSupplements {
		supplement, err := models.NewProtocolSupplement(protocol.ID,
			models.SupplementOwn, data.Name, models.Frequency(data.Frequency))
		if err != nil {
			return nil, err
		}
		supplement.Instructions = data.Instructions
		supplement.Dosage = data.Dosage
		result.Supplements = append(result.Supplements, *supplement)
	}

	return result, nil
}
