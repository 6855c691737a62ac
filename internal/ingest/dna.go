// ABOUTME: DNA JSON parsing: genotype test files into validated models
// ABOUTME: The source file name is required as the import dedup key
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/bioarchitect/biodb/internal/models"
)

// Dna is a fully parsed genotype test ready to persist.
type Dna struct {
	Test *models.DnaTest
	Snps []models.Snp
}

type dnaFile struct {
	Source        string `json:"source"`
	CollectedDate string `json:"collected_date"`
	Snps          []struct {
		Rsid      string  `json:"rsid"`
		Genotype  string  `json:"genotype"`
		Magnitude float64 `json:"magnitude"`
		Repute    string  `json:"repute"`
		Gene      string  `json:"gene"`
	} `json:"snps"`
}

// ParseDna parses a DNA JSON document into validated models. Input read from
// stdin should pass "stdin" as the source file.
func ParseDna(data []byte, sourceFile string) (*Dna, error) {
	var file dnaFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing dna JSON: %w", err)
	}

	collected, err := parseRequiredDate("collected_date", file.CollectedDate)
	if err != nil {
		return nil, err
	}

	test, err := models.NewDnaTest(file.Source, collected, sourceFile)
	if err != nil {
		return nil, err
	}

	result := &Dna{Test: test}
	for _, snpData := range file.Snps {
		snp, err := models.NewSnp(test.ID, snpData.Rsid, snpData.Genotype,
			snpData.Magnitude, models.Repute(snpData.Repute), snpData.Gene)
		if err != nil {
			return nil, err
		}
		result.Snps = append(result.Snps, *snp)
	}

	return result, nil
}
