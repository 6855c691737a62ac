// ABOUTME: DNA models: genotype tests and the SNPs they report
// ABOUTME: Magnitude scores importance 0-10; repute marks variants good or bad
package models

import (
	"time"

	"github.com/google/uuid"
)

// Repute indicates whether a SNP variant is considered beneficial or harmful.
// The empty value means the variant has no assigned repute.
type Repute string

const (
	ReputeGood Repute = "good"
	ReputeBad  Repute = "bad"
	ReputeNone Repute = ""
)

// Valid reports whether r is a known repute value.
func (r Repute) Valid() bool {
	return r == ReputeGood || r == ReputeBad || r == ReputeNone
}

// DnaTest is one genotype data import from a provider.
type DnaTest struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	CollectedDate time.Time `json:"collected_date"`
	SourceFile    string    `json:"source_file"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewDnaTest constructs a DNA test, validating required fields. SourceFile is
// required because it is the import dedup key.
func NewDnaTest(source string, collectedDate time.Time, sourceFile string) (*DnaTest, error) {
	if source == "" {
		return nil, validationErr("source", "must not be empty")
	}
	if collectedDate.IsZero() {
		return nil, validationErr("collected_date", "must be set")
	}
	if sourceFile == "" {
		return nil, validationErr("source_file", "must not be empty")
	}
	return &DnaTest{
		ID:            uuid.New().String(),
		Source:        source,
		CollectedDate: collectedDate,
		SourceFile:    sourceFile,
		CreatedAt:     time.Now(),
	}, nil
}

// Snp is a single nucleotide polymorphism result from a DNA test.
type Snp struct {
	ID        string  `json:"id"`
	DnaTestID string  `json:"dna_test_id"`
	Rsid      string  `json:"rsid"`
	Genotype  string  `json:"genotype"`
	Magnitude float64 `json:"magnitude"`
	Repute    Repute  `json:"repute,omitempty"`
	Gene      string  `json:"gene"`
}

// NewSnp constructs a SNP bound to a DNA test, validating the magnitude range.
func NewSnp(dnaTestID, rsid, genotype string, magnitude float64, repute Repute, gene string) (*Snp, error) {
	if dnaTestID == "" {
		return nil, validationErr("dna_test_id", "must not be empty")
	}
	if rsid == "" {
		return nil, validationErr("rsid", "must not be empty")
	}
	if genotype == "" {
		return nil, validationErr("genotype", "must not be empty")
	}
	if magnitude < 0 || magnitude > 10 {
		return nil, validationErr("magnitude", "must be between 0 and 10")
	}
	if !repute.Valid() {
		return nil, validationErr("repute", "must be good, bad, or empty")
	}
	if gene == "" {
		return nil, validationErr("gene", "must not be empty")
	}
	return &Snp{
		ID:        uuid.New().String(),
		DnaTestID: dnaTestID,
		Rsid:      rsid,
		Genotype:  genotype,
		Magnitude: magnitude,
		Repute:    repute,
		Gene:      gene,
	}, nil
}
