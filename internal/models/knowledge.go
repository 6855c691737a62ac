// ABOUTME: Knowledge entry models: versioned insights with tags and typed links
// ABOUTME: Entries are append-only; supersession deprecates but never deletes
package models

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeType classifies a knowledge entry.
type KnowledgeType string

const (
	KnowledgeInsight          KnowledgeType = "insight"
	KnowledgeRecommendation   KnowledgeType = "recommendation"
	KnowledgeContraindication KnowledgeType = "contraindication"
	KnowledgeMemory           KnowledgeType = "memory"
)

// Valid reports whether t is a known knowledge type.
func (t KnowledgeType) Valid() bool {
	switch t {
	case KnowledgeInsight, KnowledgeRecommendation, KnowledgeContraindication, KnowledgeMemory:
		return true
	}
	return false
}

// KnowledgeStatus tracks whether an entry is current or superseded.
type KnowledgeStatus string

const (
	KnowledgeActive     KnowledgeStatus = "active"
	KnowledgeDeprecated KnowledgeStatus = "deprecated"
)

// LinkType names the table a knowledge link points into. The set is closed;
// the storage layer matches on it exhaustively, so adding a linkable domain
// is a compile-time-visible change.
type LinkType string

const (
	LinkSnp        LinkType = "snp"
	LinkBiomarker  LinkType = "biomarker"
	LinkIngredient LinkType = "ingredient"
	LinkSupplement LinkType = "supplement"
	LinkProtocol   LinkType = "protocol"
	LinkKnowledge  LinkType = "knowledge"
)

// Valid reports whether t is a known link type.
func (t LinkType) Valid() bool {
	switch t {
	case LinkSnp, LinkBiomarker, LinkIngredient, LinkSupplement, LinkProtocol, LinkKnowledge:
		return true
	}
	return false
}

// LinkTypes returns all link types in display order.
func LinkTypes() []LinkType {
	return []LinkType{LinkSnp, LinkBiomarker, LinkIngredient, LinkSupplement, LinkProtocol, LinkKnowledge}
}

// Knowledge is a single versioned entry in the knowledge ledger.
type Knowledge struct {
	ID                 string          `json:"id"`
	Type               KnowledgeType   `json:"type"`
	Status             KnowledgeStatus `json:"status"`
	Summary            string          `json:"summary"`
	Content            string          `json:"content"`
	Confidence         float64         `json:"confidence"`
	SupersedesID       string          `json:"supersedes_id,omitempty"`
	SupersessionReason string          `json:"supersession_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// NewKnowledge constructs an active knowledge entry, validating all invariants.
func NewKnowledge(knowledgeType KnowledgeType, summary, content string, confidence float64) (*Knowledge, error) {
	k := &Knowledge{
		ID:         uuid.New().String(),
		Type:       knowledgeType,
		Status:     KnowledgeActive,
		Summary:    summary,
		Content:    content,
		Confidence: confidence,
		CreatedAt:  time.Now(),
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Validate re-asserts construction invariants. The storage layer calls this
// again before persisting as defense-in-depth.
func (k *Knowledge) Validate() error {
	if k.ID == "" {
		return validationErr("id", "must not be empty")
	}
	if !k.Type.Valid() {
		return validationErr("type", "must be one of insight, recommendation, contraindication, memory")
	}
	if k.Status != KnowledgeActive && k.Status != KnowledgeDeprecated {
		return validationErr("status", "must be active or deprecated")
	}
	if k.Summary == "" {
		return validationErr("summary", "must not be empty")
	}
	if k.Content == "" {
		return validationErr("content", "must not be empty")
	}
	if k.Confidence < 0.0 || k.Confidence > 1.0 {
		return validationErr("confidence", "must be between 0.0 and 1.0")
	}
	return nil
}

// KnowledgeTag is a free-text label on a knowledge entry. Duplicate values on
// the same entry are allowed at write time; tag lookups dedup at read time.
type KnowledgeTag struct {
	ID          string `json:"id"`
	KnowledgeID string `json:"knowledge_id"`
	Tag         string `json:"tag"`
}

// NewKnowledgeTag constructs a tag bound to a knowledge entry.
func NewKnowledgeTag(knowledgeID, tag string) (*KnowledgeTag, error) {
	if knowledgeID == "" {
		return nil, validationErr("knowledge_id", "must not be empty")
	}
	if tag == "" {
		return nil, validationErr("tag", "must not be empty")
	}
	return &KnowledgeTag{
		ID:          uuid.New().String(),
		KnowledgeID: knowledgeID,
		Tag:         tag,
	}, nil
}

// KnowledgeLink is a typed polymorphic reference from a knowledge entry to a
// row in one of the other domains. The schema cannot enforce the target FK;
// the storage layer probes for existence when the link is persisted.
type KnowledgeLink struct {
	ID          string   `json:"id"`
	KnowledgeID string   `json:"knowledge_id"`
	LinkType    LinkType `json:"link_type"`
	TargetID    string   `json:"target_id"`
}

// NewKnowledgeLink constructs a link bound to a knowledge entry.
func NewKnowledgeLink(knowledgeID string, linkType LinkType, targetID string) (*KnowledgeLink, error) {
	if knowledgeID == "" {
		return nil, validationErr("knowledge_id", "must not be empty")
	}
	if !linkType.Valid() {
		return nil, validationErr("link_type", "must be one of snp, biomarker, ingredient, supplement, protocol, knowledge")
	}
	if targetID == "" {
		return nil, validationErr("target_id", "must not be empty")
	}
	return &KnowledgeLink{
		ID:          uuid.New().String(),
		KnowledgeID: knowledgeID,
		LinkType:    linkType,
		TargetID:    targetID,
	}, nil
}
