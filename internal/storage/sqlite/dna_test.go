// ABOUTME: Tests for DNA storage operations
// ABOUTME: Verifies test imports, dedup, and SNP lookup queries
package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

type snpSpec struct {
	rsid      string
	genotype  string
	magnitude float64
	repute    models.Repute
	gene      string
}

func seedDnaTest(t *testing.T, store *DnaStore, sourceFile string, specs []snpSpec) *models.DnaTest {
	t.Helper()
	test, err := models.NewDnaTest("23andMe", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sourceFile)
	if err != nil {
		t.Fatalf("NewDnaTest() error = %v", err)
	}

	var snps []models.Snp
	for _, spec := range specs {
		snp, err := models.NewSnp(test.ID, spec.rsid, spec.genotype, spec.magnitude, spec.repute, spec.gene)
		if err != nil {
			t.Fatalf("NewSnp() error = %v", err)
		}
		snps = append(snps, *snp)
	}

	if err := store.SaveTest(test, snps); err != nil {
		t.Fatalf("SaveTest() error = %v", err)
	}
	return test
}

func TestDnaSaveAndLookup(t *testing.T) {
	db := testDB(t)
	store := NewDnaStore(db)

	seedDnaTest(t, store, "genome_v5.json", []snpSpec{
		{rsid: "rs1801133", genotype: "TT", magnitude: 2.8, repute: models.ReputeBad, gene: "MTHFR"},
		{rsid: "rs4680", genotype: "AA", magnitude: 2.5, repute: models.ReputeNone, gene: "COMT"},
	})

	snp, err := store.GetSnpByRsid("rs1801133")
	if err != nil {
		t.Fatalf("GetSnpByRsid() error = %v", err)
	}
	if snp == nil {
		t.Fatal("GetSnpByRsid() returned nil")
	}
	if snp.Genotype != "TT" || snp.Gene != "MTHFR" {
		t.Errorf("snp = %+v, want TT MTHFR", snp)
	}
	if snp.Repute != models.ReputeBad {
		t.Errorf("Repute = %v, want bad", snp.Repute)
	}

	missing, err := store.GetSnpByRsid("rs9999999")
	if err != nil {
		t.Fatalf("GetSnpByRsid() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetSnpByRsid() = %v, want nil", missing)
	}
}

func TestDnaImportDedup(t *testing.T) {
	db := testDB(t)
	store := NewDnaStore(db)

	seedDnaTest(t, store, "genome_v5.json", nil)

	duplicate, err := models.NewDnaTest("23andMe", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "genome_v5.json")
	if err != nil {
		t.Fatalf("NewDnaTest() error = %v", err)
	}
	saveErr := store.SaveTest(duplicate, nil)
	var impErr *AlreadyImportedError
	if !errors.As(saveErr, &impErr) {
		t.Fatalf("SaveTest() error = %v, want AlreadyImportedError", saveErr)
	}

	tests, err := store.ListTests()
	if err != nil {
		t.Fatalf("ListTests() error = %v", err)
	}
	if len(tests) != 1 {
		t.Errorf("ListTests() returned %d tests after dup import, want 1", len(tests))
	}
}

func TestDnaGetSnpsForGene(t *testing.T) {
	db := testDB(t)
	store := NewDnaStore(db)

	seedDnaTest(t, store, "genome_v5.json", []snpSpec{
		{rsid: "rs1801133", genotype: "TT", magnitude: 2.8, repute: models.ReputeBad, gene: "MTHFR"},
		{rsid: "rs1801131", genotype: "GT", magnitude: 2.1, repute: models.ReputeBad, gene: "MTHFR"},
		{rsid: "rs4680", genotype: "AA", magnitude: 2.5, repute: models.ReputeNone, gene: "COMT"},
	})

	snps, err := store.GetSnpsForGene("MTHFR")
	if err != nil {
		t.Fatalf("GetSnpsForGene() error = %v", err)
	}
	if len(snps) != 2 {
		t.Fatalf("GetSnpsForGene() returned %d snps, want 2", len(snps))
	}
	// Highest magnitude first.
	if snps[0].Rsid != "rs1801133" || snps[1].Rsid != "rs1801131" {
		t.Errorf("gene snps = [%s, %s], want [rs1801133, rs1801131]", snps[0].Rsid, snps[1].Rsid)
	}
}

func TestDnaGetHighImpact(t *testing.T) {
	db := testDB(t)
	store := NewDnaStore(db)

	seedDnaTest(t, store, "genome_v5.json", []snpSpec{
		{rsid: "rs1805007", genotype: "CT", magnitude: 4.2, repute: models.ReputeBad, gene: "MC1R"},
		{rsid: "rs1801133", genotype: "TT", magnitude: 3.0, repute: models.ReputeBad, gene: "MTHFR"},
		{rsid: "rs4680", genotype: "AA", magnitude: 2.5, repute: models.ReputeNone, gene: "COMT"},
	})

	snps, err := store.GetHighImpact(HighImpactMagnitude)
	if err != nil {
		t.Fatalf("GetHighImpact() error = %v", err)
	}
	if len(snps) != 2 {
		t.Fatalf("GetHighImpact() returned %d snps, want 2", len(snps))
	}
	// Threshold is inclusive and results come highest first.
	if snps[0].Rsid != "rs1805007" || snps[1].Rsid != "rs1801133" {
		t.Errorf("high impact = [%s, %s], want [rs1805007, rs1801133]", snps[0].Rsid, snps[1].Rsid)
	}
}

func TestDnaGetSnpsForTest(t *testing.T) {
	db := testDB(t)
	store := NewDnaStore(db)

	test := seedDnaTest(t, store, "genome_v5.json", []snpSpec{
		{rsid: "rs4680", genotype: "AA", magnitude: 2.5, repute: models.ReputeNone, gene: "COMT"},
		{rsid: "rs1801133", genotype: "TT", magnitude: 2.8, repute: models.ReputeBad, gene: "MTHFR"},
	})

	snps, err := store.GetSnpsForTest(test.ID)
	if err != nil {
		t.Fatalf("GetSnpsForTest() error = %v", err)
	}
	if len(snps) != 2 {
		t.Fatalf("GetSnpsForTest() returned %d snps, want 2", len(snps))
	}
	if snps[0].Rsid != "rs1801133" {
		t.Errorf("snps[0].Rsid = %v, want rs1801133 (rsid order)", snps[0].Rsid)
	}
}
