// ABOUTME: Knowledge ledger storage: append-only entries with supersession
// ABOUTME: Validates polymorphic link targets and keeps writes atomic
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bioarchitect/biodb/internal/models"
)

// KnowledgeStore handles knowledge entry persistence. Entries are never
// deleted; superseding an entry deprecates it in place and inserts the
// replacement in the same transaction.
type KnowledgeStore struct {
	db *DB
}

// NewKnowledgeStore creates a new KnowledgeStore
func NewKnowledgeStore(db *DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// querier is satisfied by both *DB and *sql.Tx so link probes can run inside
// the transaction that inserts the links.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// linkTargetTable maps a link type to the table holding its targets. The
// switch is exhaustive over the closed LinkType set; a new linkable domain
// must be added here before links to it can be stored.
func linkTargetTable(linkType models.LinkType) (string, bool) {
	switch linkType {
	case models.LinkSnp:
		return "snps", true
	case models.LinkBiomarker:
		return "biomarkers", true
	case models.LinkIngredient:
		return "ingredients", true
	case models.LinkSupplement:
		return "supplement_labels", true
	case models.LinkProtocol:
		return "supplement_protocols", true
	case models.LinkKnowledge:
		return "knowledge", true
	}
	return "", false
}

// ValidateLinkTarget checks that a link's target row exists in the table
// named by its link type.
func (s *KnowledgeStore) ValidateLinkTarget(linkType models.LinkType, targetID string) (bool, error) {
	return linkTargetExists(s.db, linkType, targetID)
}

func linkTargetExists(q querier, linkType models.LinkType, targetID string) (bool, error) {
	table, ok := linkTargetTable(linkType)
	if !ok {
		return false, nil
	}

	var one int
	err := q.QueryRow("SELECT 1 FROM "+table+" WHERE id = ?", targetID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// checkLinks probes every link target inside the given transaction, so the
// whole save aborts before any row lands when a target is missing.
func checkLinks(tx *sql.Tx, links []models.KnowledgeLink) error {
	for _, link := range links {
		exists, err := linkTargetExists(tx, link.LinkType, link.TargetID)
		if err != nil {
			return fmt.Errorf("probing link target: %w", err)
		}
		if !exists {
			return &LinkTargetNotFoundError{LinkType: link.LinkType, TargetID: link.TargetID}
		}
	}
	return nil
}

// Save persists a knowledge entry with its tags and links as one atomic unit.
// The entry is re-validated and every link target is probed first; on any
// failure nothing is persisted.
func (s *KnowledgeStore) Save(k *models.Knowledge, tags []models.KnowledgeTag, links []models.KnowledgeLink) error {
	if err := k.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkLinks(tx, links); err != nil {
		return err
	}

	if err := insertKnowledge(tx, k); err != nil {
		return err
	}
	if err := insertTagsAndLinks(tx, tags, links); err != nil {
		return err
	}

	return tx.Commit()
}

// Supersede deprecates the entry identified by oldID and inserts the
// replacement with its tags and links, all in one transaction. The
// replacement's supersedes field is overwritten with oldID regardless of what
// the caller set.
func (s *KnowledgeStore) Supersede(oldID string, k *models.Knowledge, tags []models.KnowledgeTag, links []models.KnowledgeLink) error {
	if err := k.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRow("SELECT 1 FROM knowledge WHERE id = ?", oldID).Scan(&one)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "knowledge", ID: oldID}
	}
	if err != nil {
		return fmt.Errorf("looking up superseded entry: %w", err)
	}

	if err := checkLinks(tx, links); err != nil {
		return err
	}

	k.SupersedesID = oldID
	if err := insertKnowledge(tx, k); err != nil {
		return err
	}
	if err := insertTagsAndLinks(tx, tags, links); err != nil {
		return err
	}

	if _, err := tx.Exec("UPDATE knowledge SET status = ? WHERE id = ?",
		string(models.KnowledgeDeprecated), oldID); err != nil {
		return fmt.Errorf("deprecating superseded entry: %w", err)
	}

	return tx.Commit()
}

func insertKnowledge(tx *sql.Tx, k *models.Knowledge) error {
	createdAt := k.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := tx.Exec(`
		INSERT INTO knowledge (id, type, status, summary, content, confidence,
			supersedes_id, supersession_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, k.ID, string(k.Type), string(k.Status), k.Summary, k.Content, k.Confidence,
		nullString(k.SupersedesID), nullString(k.SupersessionReason), createdAt)
	if err != nil {
		return fmt.Errorf("inserting knowledge: %w", err)
	}
	return nil
}

func insertTagsAndLinks(tx *sql.Tx, tags []models.KnowledgeTag, links []models.KnowledgeLink) error {
	for _, tag := range tags {
		if _, err := tx.Exec(`
			INSERT INTO knowledge_tags (id, knowledge_id, tag)
			VALUES (?, ?, ?)
		`, tag.ID, tag.KnowledgeID, tag.Tag); err != nil {
			return fmt.Errorf("inserting tag: %w", err)
		}
	}
	for _, link := range links {
		if _, err := tx.Exec(`
			INSERT INTO knowledge_links (id, knowledge_id, link_type, target_id)
			VALUES (?, ?, ?, ?)
		`, link.ID, link.KnowledgeID, string(link.LinkType), link.TargetID); err != nil {
			return fmt.Errorf("inserting link: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a knowledge entry by its ID, regardless of status.
// Returns nil when the id is absent.
func (s *KnowledgeStore) GetByID(id string) (*models.Knowledge, error) {
	row := s.db.QueryRow(`
		SELECT id, type, status, summary, content, confidence,
			supersedes_id, supersession_reason, created_at
		FROM knowledge
		WHERE id = ?
	`, id)

	k, err := scanKnowledgeRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

// ListActive returns every active entry, newest first.
func (s *KnowledgeStore) ListActive() ([]models.Knowledge, error) {
	rows, err := s.db.Query(`
		SELECT id, type, status, summary, content, confidence,
			supersedes_id, supersession_reason, created_at
		FROM knowledge
		WHERE status = ?
		ORDER BY created_at DESC
	`, string(models.KnowledgeActive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanKnowledgeRows(rows)
}

// GetTags returns all tags for a knowledge entry, ordered by tag value.
func (s *KnowledgeStore) GetTags(knowledgeID string) ([]models.KnowledgeTag, error) {
	rows, err := s.db.Query(`
		SELECT id, knowledge_id, tag
		FROM knowledge_tags
		WHERE knowledge_id = ?
		ORDER BY tag
	`, knowledgeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []models.KnowledgeTag
	for rows.Next() {
		var tag models.KnowledgeTag
		if err := rows.Scan(&tag.ID, &tag.KnowledgeID, &tag.Tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// GetLinks returns all links for a knowledge entry, ordered by link type.
func (s *KnowledgeStore) GetLinks(knowledgeID string) ([]models.KnowledgeLink, error) {
	rows, err := s.db.Query(`
		SELECT id, knowledge_id, link_type, target_id
		FROM knowledge_links
		WHERE knowledge_id = ?
		ORDER BY link_type
	`, knowledgeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var links []models.KnowledgeLink
	for rows.Next() {
		var link models.KnowledgeLink
		var linkType string
		if err := rows.Scan(&link.ID, &link.KnowledgeID, &linkType, &link.TargetID); err != nil {
			return nil, err
		}
		link.LinkType = models.LinkType(linkType)
		links = append(links, link)
	}
	return links, rows.Err()
}

// FindByTag returns the distinct entries (any status) carrying a tag with the
// exact given value. Duplicate tag rows on one entry yield that entry once.
func (s *KnowledgeStore) FindByTag(tag string) ([]models.Knowledge, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT k.id, k.type, k.status, k.summary, k.content, k.confidence,
			k.supersedes_id, k.supersession_reason, k.created_at
		FROM knowledge k
		JOIN knowledge_tags kt ON k.id = kt.knowledge_id
		WHERE kt.tag = ?
		ORDER BY k.created_at DESC
	`, tag)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanKnowledgeRows(rows)
}

// FindByLink returns the distinct entries holding a link with the exact
// (link type, target id) pair. A matching target under a different link type
// is not a hit.
func (s *KnowledgeStore) FindByLink(linkType models.LinkType, targetID string) ([]models.Knowledge, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT k.id, k.type, k.status, k.summary, k.content, k.confidence,
			k.supersedes_id, k.supersession_reason, k.created_at
		FROM knowledge k
		JOIN knowledge_links kl ON k.id = kl.knowledge_id
		WHERE kl.link_type = ? AND kl.target_id = ?
		ORDER BY k.created_at DESC
	`, string(linkType), targetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanKnowledgeRows(rows)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanKnowledge(sc rowScanner) (*models.Knowledge, error) {
	var (
		k                  models.Knowledge
		knowledgeType      string
		status             string
		supersedesID       sql.NullString
		supersessionReason sql.NullString
	)

	err := sc.Scan(&k.ID, &knowledgeType, &status, &k.Summary, &k.Content,
		&k.Confidence, &supersedesID, &supersessionReason, &k.CreatedAt)
	if err != nil {
		return nil, err
	}

	k.Type = models.KnowledgeType(knowledgeType)
	k.Status = models.KnowledgeStatus(status)
	if supersedesID.Valid {
		k.SupersedesID = supersedesID.String
	}
	if supersessionReason.Valid {
		k.SupersessionReason = supersessionReason.String
	}
	return &k, nil
}

func scanKnowledgeRow(row *sql.Row) (*models.Knowledge, error) {
	return scanKnowledge(row)
}

func scanKnowledgeRows(rows *sql.Rows) ([]models.Knowledge, error) {
	var entries []models.Knowledge
	for rows.Next() {
		k, err := scanKnowledge(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *k)
	}
	return entries, rows.Err()
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
