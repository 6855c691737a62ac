// ABOUTME: DNA storage: genotype tests and their SNPs
// ABOUTME: Lookups by rsid, by gene, and by magnitude threshold
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// HighImpactMagnitude is the default threshold above which a SNP is
// considered worth surfacing on its own.
const HighImpactMagnitude = 3.0

// DnaStore handles DNA test persistence
type DnaStore struct {
	db *DB
}

// NewDnaStore creates a new DnaStore
func NewDnaStore(db *DB) *DnaStore {
	return &DnaStore{db: db}
}

// SaveTest persists a DNA test with all its SNPs in one transaction. A test
// whose source file was already imported is rejected with
// AlreadyImportedError.
func (s *DnaStore) SaveTest(test *models.DnaTest, snps []models.Snp) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRow("SELECT 1 FROM dna_tests WHERE source_file = ?", test.SourceFile).Scan(&one)
	if err == nil {
		return &AlreadyImportedError{SourceFile: test.SourceFile}
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for prior import: %w", err)
	}

	createdAt := test.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO dna_tests (id, source, collected_date, source_file, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, test.ID, test.Source, dateText(test.CollectedDate), test.SourceFile, createdAt)
	if err != nil {
		return fmt.Errorf("inserting dna test: %w", err)
	}

	for _, snp := range snps {
		if _, err := tx.Exec(`
			INSERT INTO snps (id, dna_test_id, rsid, genotype, magnitude, repute, gene)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, snp.ID, snp.DnaTestID, snp.Rsid, snp.Genotype, snp.Magnitude,
			nullString(string(snp.Repute)), snp.Gene); err != nil {
			return fmt.Errorf("inserting snp: %w", err)
		}
	}

	return tx.Commit()
}

// ListTests returns all DNA tests, newest collection first.
func (s *DnaStore) ListTests() ([]models.DnaTest, error) {
	rows, err := s.db.Query(`
		SELECT id, source, collected_date, source_file, created_at
		FROM dna_tests
		ORDER BY collected_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tests []models.DnaTest
	for rows.Next() {
		var test models.DnaTest
		var collectedDate string
		if err := rows.Scan(&test.ID, &test.Source, &collectedDate,
			&test.SourceFile, &test.CreatedAt); err != nil {
			return nil, err
		}
		test.CollectedDate = parseDate(collectedDate)
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

// GetSnpByRsid retrieves a SNP by its rsid. Returns nil when no test reported
// that rsid. When several tests report it, the row from the newest test wins.
func (s *DnaStore) GetSnpByRsid(rsid string) (*models.Snp, error) {
	row := s.db.QueryRow(`
		SELECT s.id, s.dna_test_id, s.rsid, s.genotype, s.magnitude, s.repute, s.gene
		FROM snps s
		JOIN dna_tests t ON s.dna_test_id = t.id
		WHERE s.rsid = ?
		ORDER BY t.collected_date DESC
		LIMIT 1
	`, rsid)

	snp, err := scanSnp(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snp, nil
}

// GetSnpsForGene returns all SNPs reported for a gene, highest magnitude
// first.
func (s *DnaStore) GetSnpsForGene(gene string) ([]models.Snp, error) {
	rows, err := s.db.Query(`
		SELECT id, dna_test_id, rsid, genotype, magnitude, repute, gene
		FROM snps
		WHERE gene = ?
		ORDER BY magnitude DESC, rsid
	`, gene)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSnps(rows)
}

// GetHighImpact returns every SNP at or above the given magnitude threshold,
// highest magnitude first. The threshold is inclusive.
func (s *DnaStore) GetHighImpact(threshold float64) ([]models.Snp, error) {
	rows, err := s.db.Query(`
		SELECT id, dna_test_id, rsid, genotype, magnitude, repute, gene
		FROM snps
		WHERE magnitude >= ?
		ORDER BY magnitude DESC, rsid
	`, threshold)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSnps(rows)
}

// GetSnpsForTest returns all SNPs of one test, ordered by rsid.
func (s *DnaStore) GetSnpsForTest(testID string) ([]models.Snp, error) {
	rows, err := s.db.Query(`
		SELECT id, dna_test_id, rsid, genotype, magnitude, repute, gene
		FROM snps
		WHERE dna_test_id = ?
		ORDER BY rsid
	`, testID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanSnps(rows)
}

func scanSnp(sc rowScanner) (*models.Snp, error) {
	var snp models.Snp
	var repute sql.NullString
	err := sc.Scan(&snp.ID, &snp.DnaTestID, &snp.Rsid, &snp.Genotype,
		&snp.Magnitude, &repute, &snp.Gene)
	if err != nil {
		return nil, err
	}
	if repute.Valid {
		snp.Repute = models.Repute(repute.String)
	}
	return &snp, nil
}

func scanSnps(rows *sql.Rows) ([]models.Snp, error) {
	var snps []models.Snp
	for rows.Next() {
		snp, err := scanSnp(rows)
		if err != nil {
			return nil, err
		}
		snps = append(snps, *snp)
	}
	return snps, rows.Err()
}
