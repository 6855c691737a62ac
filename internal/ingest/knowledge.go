// ABOUTME: Knowledge JSON parsing: ledger entries with tags and typed links
// ABOUTME: Confidence is required; its absence is not a zero value
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/bioarchitect/biodb/internal/models"
)

// KnowledgeEntry is a fully parsed knowledge entry ready to persist.
type KnowledgeEntry struct {
	Knowledge *models.Knowledge
	Tags      []models.KnowledgeTag
	Links     []models.KnowledgeLink
}

type knowledgeFile struct {
	Type               string   `json:"type"`
	Summary            string   `json:"summary"`
	Content            string   `json:"content"`
	Confidence         *float64 `json:"confidence"`
	SupersessionReason string   `json:"supersession_reason"`
	Tags               []string `json:"tags"`
	Links              []struct {
		LinkType string `json:"link_type"`
		TargetID string `json:"target_id"`
	} `json:"links"`
}

// ParseKnowledge parses a knowledge JSON document into a validated entry with
// its tags and links. Link targets are not checked here; the store validates
// them inside the write transaction.
func ParseKnowledge(data []byte) (*KnowledgeEntry, error) {
	var file knowledgeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing knowledge JSON: %w", err)
	}

	if file.Confidence == nil {
		return nil, fmt.Errorf("missing required field: confidence")
	}

	knowledge, err := models.NewKnowledge(models.KnowledgeType(file.Type),
		file.Summary, file.Content, *file.Confidence)
	if err != nil {
		return nil, err
	}
	knowledge.SupersessionReason = file.SupersessionReason

	result := &KnowledgeEntry{Knowledge: knowledge}

	for _, value := range file.Tags {
		tag, err := models.NewKnowledgeTag(knowledge.ID, value)
		if err != nil {
			return nil, err
		}
		result.Tags = append(result.Tags, *tag)
	}

	for _, linkData := range file.Links {
		link, err := models.NewKnowledgeLink(knowledge.ID,
			models.LinkType(linkData.LinkType), linkData.TargetID)
		if err != nil {
			return nil, err
		}
		result.Links = append(result.Links, *link)
	}

	return result, nil
}
