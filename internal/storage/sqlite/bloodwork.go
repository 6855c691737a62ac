// ABOUTME: Bloodwork storage: lab reports with their panels and biomarkers
// ABOUTME: History queries join through panels so results carry report context
package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// dateLayout is the storage format for date-only columns.
const dateLayout = "2006-01-02"

func dateText(t time.Time) string {
	return t.Format(dateLayout)
}

func nullDateText(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BloodworkStore handles lab report persistence
type BloodworkStore struct {
	db *DB
}

// NewBloodworkStore creates a new BloodworkStore
func NewBloodworkStore(db *DB) *BloodworkStore {
	return &BloodworkStore{db: db}
}

// PanelInput bundles a panel with its biomarkers for a report save.
type PanelInput struct {
	Panel      models.Panel
	Biomarkers []models.Biomarker
}

// SaveReport persists a lab report with all its panels and biomarkers in one
// transaction. A report whose source file was already imported is rejected
// with AlreadyImportedError.
func (s *BloodworkStore) SaveReport(report *models.LabReport, panels []PanelInput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if report.SourceFile != "" {
		var one int
		err := tx.QueryRow("SELECT 1 FROM lab_reports WHERE source_file = ?", report.SourceFile).Scan(&one)
		if err == nil {
			return &AlreadyImportedError{SourceFile: report.SourceFile}
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking for prior import: %w", err)
		}
	}

	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO lab_reports (id, lab_provider, collected_date, received_date,
			reported_date, source_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.LabProvider, dateText(report.CollectedDate),
		nullDateText(report.ReceivedDate), nullDateText(report.ReportedDate),
		nullString(report.SourceFile), createdAt)
	if err != nil {
		return fmt.Errorf("inserting lab report: %w", err)
	}

	for _, input := range panels {
		panel := input.Panel
		if _, err := tx.Exec(`
			INSERT INTO panels (id, lab_report_id, name, comment)
			VALUES (?, ?, ?, ?)
		`, panel.ID, panel.LabReportID, panel.Name, nullString(panel.Comment)); err != nil {
			return fmt.Errorf("inserting panel: %w", err)
		}

		for _, marker := range input.Biomarkers {
			if _, err := tx.Exec(`
				INSERT INTO biomarkers (id, panel_id, name, code, value, unit,
					reference_low, reference_high, flag)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, marker.ID, marker.PanelID, marker.Name, marker.Code, marker.Value,
				marker.Unit, marker.ReferenceLow, marker.ReferenceHigh,
				string(marker.Flag)); err != nil {
				return fmt.Errorf("inserting biomarker: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListReports returns all lab reports, newest collection first.
func (s *BloodworkStore) ListReports() ([]models.LabReport, error) {
	rows, err := s.db.Query(`
		SELECT id, lab_provider, collected_date, received_date, reported_date,
			source_file, created_at
		FROM lab_reports
		ORDER BY collected_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var reports []models.LabReport
	for rows.Next() {
		report, err := scanLabReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// GetReport retrieves a lab report by ID. Returns nil when the id is absent.
func (s *BloodworkStore) GetReport(id string) (*models.LabReport, error) {
	row := s.db.QueryRow(`
		SELECT id, lab_provider, collected_date, received_date, reported_date,
			source_file, created_at
		FROM lab_reports
		WHERE id = ?
	`, id)

	report, err := scanLabReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetPanelsForReport returns the panels of a lab report, ordered by name.
func (s *BloodworkStore) GetPanelsForReport(reportID string) ([]models.Panel, error) {
	rows, err := s.db.Query(`
		SELECT id, lab_report_id, name, comment
		FROM panels
		WHERE lab_report_id = ?
		ORDER BY name
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var panels []models.Panel
	for rows.Next() {
		var panel models.Panel
		var comment sql.NullString
		if err := rows.Scan(&panel.ID, &panel.LabReportID, &panel.Name, &comment); err != nil {
			return nil, err
		}
		if comment.Valid {
			panel.Comment = comment.String
		}
		panels = append(panels, panel)
	}
	return panels, rows.Err()
}

// GetBiomarkersForPanel returns the biomarkers of a panel, ordered by name.
func (s *BloodworkStore) GetBiomarkersForPanel(panelID string) ([]models.Biomarker, error) {
	rows, err := s.db.Query(`
		SELECT id, panel_id, name, code, value, unit, reference_low,
			reference_high, flag
		FROM biomarkers
		WHERE panel_id = ?
		ORDER BY name
	`, panelID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var markers []models.Biomarker
	for rows.Next() {
		var m models.Biomarker
		var flag string
		if err := rows.Scan(&m.ID, &m.PanelID, &m.Name, &m.Code, &m.Value,
			&m.Unit, &m.ReferenceLow, &m.ReferenceHigh, &flag); err != nil {
			return nil, err
		}
		m.Flag = models.Flag(flag)
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

const biomarkerContextQuery = `
	SELECT b.id, b.panel_id, b.name, b.code, b.value, b.unit,
		b.reference_low, b.reference_high, b.flag,
		r.collected_date, r.lab_provider, p.name
	FROM biomarkers b
	JOIN panels p ON b.panel_id = p.id
	JOIN lab_reports r ON p.lab_report_id = r.id
`

// GetBiomarkerHistory returns results for one biomarker code across reports,
// newest collection first, limited to the given count. A limit of 0 or less
// means no limit.
func (s *BloodworkStore) GetBiomarkerHistory(code string, limit int) ([]models.Biomarker, error) {
	query := biomarkerContextQuery + `
		WHERE b.code = ?
		ORDER BY r.collected_date DESC
	`
	args := []interface{}{code}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanBiomarkersWithContext(rows)
}

// GetFlagged returns every biomarker outside its reference range (any flag
// other than normal or pending), newest collection first.
func (s *BloodworkStore) GetFlagged() ([]models.Biomarker, error) {
	rows, err := s.db.Query(biomarkerContextQuery+`
		WHERE b.flag NOT IN (?, ?)
		ORDER BY r.collected_date DESC, b.code
	`, string(models.FlagNormal), string(models.FlagPending))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanBiomarkersWithContext(rows)
}

// GetRecent returns the most recent result for each biomarker code, sorted by
// code. When a code appears multiple times on its latest collection date, one
// of those rows is returned.
func (s *BloodworkStore) GetRecent() ([]models.Biomarker, error) {
	rows, err := s.db.Query(biomarkerContextQuery + `
		ORDER BY r.collected_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	all, err := scanBiomarkersWithContext(rows)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var recent []models.Biomarker
	for _, m := range all {
		if seen[m.Code] {
			continue
		}
		seen[m.Code] = true
		recent = append(recent, m)
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].Code < recent[j].Code })
	return recent, nil
}

func scanLabReport(sc rowScanner) (*models.LabReport, error) {
	var (
		report        models.LabReport
		collectedDate string
		receivedDate  sql.NullString
		reportedDate  sql.NullString
		sourceFile    sql.NullString
	)

	err := sc.Scan(&report.ID, &report.LabProvider, &collectedDate,
		&receivedDate, &reportedDate, &sourceFile, &report.CreatedAt)
	if err != nil {
		return nil, err
	}

	report.CollectedDate = parseDate(collectedDate)
	if receivedDate.Valid {
		report.ReceivedDate = parseDate(receivedDate.String)
	}
	if reportedDate.Valid {
		report.ReportedDate = parseDate(reportedDate.String)
	}
	if sourceFile.Valid {
		report.SourceFile = sourceFile.String
	}
	return &report, nil
}

func scanBiomarkersWithContext(rows *sql.Rows) ([]models.Biomarker, error) {
	var markers []models.Biomarker
	for rows.Next() {
		var m models.Biomarker
		var flag, collectedDate string
		if err := rows.Scan(&m.ID, &m.PanelID, &m.Name, &m.Code, &m.Value,
			&m.Unit, &m.ReferenceLow, &m.ReferenceHigh, &flag,
			&collectedDate, &m.LabProvider, &m.PanelName); err != nil {
			return nil, err
		}
		m.Flag = models.Flag(flag)
		m.CollectedDate = parseDate(collectedDate)
		markers = append(markers, m)
	}
	return markers, rows.Err()
}
