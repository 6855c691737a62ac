// ABOUTME: Protocol storage: prescribed supplement regimens and their entries
// ABOUTME: The current protocol is the one with the newest protocol date
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// ProtocolStore handles supplement protocol persistence
type ProtocolStore struct {
	db *DB
}

// NewProtocolStore creates a new ProtocolStore
func NewProtocolStore(db *DB) *ProtocolStore {
	return &ProtocolStore{db: db}
}

// SaveProtocol persists a protocol with all its supplement entries in one
// transaction. A protocol whose source file was already imported is rejected
// with AlreadyImportedError.
func (s *ProtocolStore) SaveProtocol(protocol *models.SupplementProtocol, supplements []models.ProtocolSupplement) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if protocol.SourceFile != "" {
		var one int
		err := tx.QueryRow("SELECT 1 FROM supplement_protocols WHERE source_file = ?", protocol.SourceFile).Scan(&one)
		if err == nil {
			return &AlreadyImportedError{SourceFile: protocol.SourceFile}
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking for prior import: %w", err)
		}
	}

	notes, err := jsonList(protocol.LifestyleNotes)
	if err != nil {
		return fmt.Errorf("encoding lifestyle notes: %w", err)
	}

	createdAt := protocol.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO supplement_protocols (id, protocol_date, prescriber,
			next_visit, source_file, created_at, protein_goal, lifestyle_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, protocol.ID, dateText(protocol.ProtocolDate), nullString(protocol.Prescriber),
		nullString(protocol.NextVisit), nullString(protocol.SourceFile),
		createdAt, nullString(protocol.ProteinGoal), notes)
	if err != nil {
		return fmt.Errorf("inserting protocol: %w", err)
	}

	for _, supplement := range supplements {
		if _, err := tx.Exec(`
			INSERT INTO protocol_supplements (id, protocol_id, supplement_label_id,
				type, name, instructions, dosage, frequency, upon_waking,
				breakfast, mid_morning, lunch, mid_afternoon, dinner, before_sleep)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, supplement.ID, supplement.ProtocolID,
			nullString(supplement.SupplementLabelID), string(supplement.Type),
			supplement.Name, nullString(supplement.Instructions),
			nullString(supplement.Dosage), string(supplement.Frequency),
			supplement.Schedule.UponWaking, supplement.Schedule.Breakfast,
			supplement.Schedule.MidMorning, supplement.Schedule.Lunch,
			supplement.Schedule.MidAfternoon, supplement.Schedule.Dinner,
			supplement.Schedule.BeforeSleep); err != nil {
			return fmt.Errorf("inserting protocol supplement: %w", err)
		}
	}

	return tx.Commit()
}

// ListProtocols returns all protocols, newest first.
func (s *ProtocolStore) ListProtocols() ([]models.SupplementProtocol, error) {
	rows, err := s.db.Query(protocolQuery + " ORDER BY protocol_date DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var protocols []models.SupplementProtocol
	for rows.Next() {
		protocol, err := scanProtocol(rows)
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, *protocol)
	}
	return protocols, rows.Err()
}

// GetProtocol retrieves a protocol by ID. Returns nil when the id is absent.
func (s *ProtocolStore) GetProtocol(id string) (*models.SupplementProtocol, error) {
	row := s.db.QueryRow(protocolQuery+" WHERE id = ?", id)

	protocol, err := scanProtocol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return protocol, nil
}

// GetCurrentProtocol returns the protocol with the newest protocol date, or
// nil when none exist.
func (s *ProtocolStore) GetCurrentProtocol() (*models.SupplementProtocol, error) {
	row := s.db.QueryRow(protocolQuery + " ORDER BY protocol_date DESC LIMIT 1")

	protocol, err := scanProtocol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return protocol, nil
}

// GetSupplementsForProtocol returns a protocol's supplement entries,
// scheduled entries before own, then by name.
func (s *ProtocolStore) GetSupplementsForProtocol(protocolID string) ([]models.ProtocolSupplement, error) {
	rows, err := s.db.Query(`
		SELECT id, protocol_id, supplement_label_id, type, name, instructions,
			dosage, frequency, upon_waking, breakfast, mid_morning, lunch,
			mid_afternoon, dinner, before_sleep
		FROM protocol_supplements
		WHERE protocol_id = ?
		ORDER BY type DESC, name
	`, protocolID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var supplements []models.ProtocolSupplement
	for rows.Next() {
		var (
			supplement     models.ProtocolSupplement
			labelID        sql.NullString
			supplementType string
			instructions   sql.NullString
			dosage         sql.NullString
			frequency      string
		)
		if err := rows.Scan(&supplement.ID, &supplement.ProtocolID, &labelID,
			&supplementType, &supplement.Name, &instructions, &dosage, &frequency,
			&supplement.Schedule.UponWaking, &supplement.Schedule.Breakfast,
			&supplement.Schedule.MidMorning, &supplement.Schedule.Lunch,
			&supplement.Schedule.MidAfternoon, &supplement.Schedule.Dinner,
			&supplement.Schedule.BeforeSleep); err != nil {
			return nil, err
		}
		supplement.Type = models.ProtocolSupplementType(supplementType)
		supplement.Frequency = models.Frequency(frequency)
		if labelID.Valid {
			supplement.SupplementLabelID = labelID.String
		}
		if instructions.Valid {
			supplement.Instructions = instructions.String
		}
		if dosage.Valid {
			supplement.Dosage = dosage.String
		}
		supplements = append(supplements, supplement)
	}
	return supplements, rows.Err()
}

const protocolQuery = `
	SELECT id, protocol_date, prescriber, next_visit, source_file, created_at,
		protein_goal, lifestyle_notes
	FROM supplement_protocols
`

func scanProtocol(sc rowScanner) (*models.SupplementProtocol, error) {
	var (
		protocol     models.SupplementProtocol
		protocolDate string
		prescriber   sql.NullString
		nextVisit    sql.NullString
		sourceFile   sql.NullString
		proteinGoal  sql.NullString
		notes        sql.NullString
	)

	err := sc.Scan(&protocol.ID, &protocolDate, &prescriber, &nextVisit,
		&sourceFile, &protocol.CreatedAt, &proteinGoal, &notes)
	if err != nil {
		return nil, err
	}

	protocol.ProtocolDate = parseDate(protocolDate)
	if prescriber.Valid {
		protocol.Prescriber = prescriber.String
	}
	if nextVisit.Valid {
		protocol.NextVisit = nextVisit.String
	}
	if sourceFile.Valid {
		protocol.SourceFile = sourceFile.String
	}
	if proteinGoal.Valid {
		protocol.ProteinGoal = proteinGoal.String
	}
	protocol.LifestyleNotes = parseJSONList(notes)
	return &protocol, nil
}
