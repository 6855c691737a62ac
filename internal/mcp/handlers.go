// ABOUTME: MCP tool handler implementations for the biodb server
// ABOUTME: All tools are read-only views over the SQLite stores
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bioarchitect/biodb/internal/models"
	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	knowledge    *sqlite.KnowledgeStore
	bloodwork    *sqlite.BloodworkStore
	dna          *sqlite.DnaStore
	historyLimit int
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// knowledgeView is the wire shape for one knowledge entry with its tags and
// links attached.
type knowledgeView struct {
	models.Knowledge
	Tags  []string               `json:"tags"`
	Links []models.KnowledgeLink `json:"links"`
}

func (h *Handlers) buildKnowledgeView(k models.Knowledge) (*knowledgeView, error) {
	tags, err := h.knowledge.GetTags(k.ID)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}
	links, err := h.knowledge.GetLinks(k.ID)
	if err != nil {
		return nil, fmt.Errorf("loading links: %w", err)
	}

	view := &knowledgeView{Knowledge: k, Tags: []string{}, Links: links}
	seen := make(map[string]bool)
	for _, tag := range tags {
		if seen[tag.Tag] {
			continue
		}
		seen[tag.Tag] = true
		view.Tags = append(view.Tags, tag.Tag)
	}
	if view.Links == nil {
		view.Links = []models.KnowledgeLink{}
	}
	return view, nil
}

func (h *Handlers) buildKnowledgeViews(entries []models.Knowledge) ([]knowledgeView, error) {
	views := make([]knowledgeView, 0, len(entries))
	for _, k := range entries {
		view, err := h.buildKnowledgeView(k)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetKnowledge handles the get_knowledge tool
func (h *Handlers) GetKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	k, err := h.knowledge.GetByID(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("looking up knowledge: %v", err)), nil
	}
	if k == nil {
		return mcp.NewToolResultError(fmt.Sprintf("knowledge not found: %s", id)), nil
	}

	view, err := h.buildKnowledgeView(*k)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(view)
}

// ListActiveKnowledge handles the list_active_knowledge tool
func (h *Handlers) ListActiveKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.knowledge.ListActive()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing knowledge: %v", err)), nil
	}

	views, err := h.buildKnowledgeViews(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(map[string]interface{}{
		"count":   len(views),
		"entries": views,
	})
}

// FindKnowledgeByTag handles the find_knowledge_by_tag tool
func (h *Handlers) FindKnowledgeByTag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := request.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError("tag argument is required and must be a string"), nil
	}

	entries, err := h.knowledge.FindByTag(tag)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("finding by tag: %v", err)), nil
	}

	views, err := h.buildKnowledgeViews(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(map[string]interface{}{
		"tag":     tag,
		"count":   len(views),
		"entries": views,
	})
}

// FindKnowledgeByLink handles the find_knowledge_by_link tool
func (h *Handlers) FindKnowledgeByLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	linkTypeArg, err := request.RequireString("link_type")
	if err != nil {
		return mcp.NewToolResultError("link_type argument is required and must be a string"), nil
	}
	targetID, err := request.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id argument is required and must be a string"), nil
	}

	linkType := models.LinkType(linkTypeArg)
	if !linkType.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown link_type: %s", linkTypeArg)), nil
	}

	entries, err := h.knowledge.FindByLink(linkType, targetID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("finding by link: %v", err)), nil
	}

	views, err := h.buildKnowledgeViews(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(map[string]interface{}{
		"link_type": linkType,
		"target_id": targetID,
		"count":     len(views),
		"entries":   views,
	})
}

// BiomarkerHistory handles the biomarker_history tool
func (h *Handlers) BiomarkerHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("code argument is required and must be a string"), nil
	}
	limit := request.GetInt("limit", h.historyLimit)

	history, err := h.bloodwork.GetBiomarkerHistory(code, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading biomarker history: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"code":    code,
		"count":   len(history),
		"results": history,
	})
}

// SnpLookup handles the snp_lookup tool
func (h *Handlers) SnpLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rsid, err := request.RequireString("rsid")
	if err != nil {
		return mcp.NewToolResultError("rsid argument is required and must be a string"), nil
	}

	snp, err := h.dna.GetSnpByRsid(rsid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("looking up snp: %v", err)), nil
	}
	if snp == nil {
		return mcp.NewToolResultError(fmt.Sprintf("snp not found: %s", rsid)), nil
	}

	return toolResultJSON(snp)
}
