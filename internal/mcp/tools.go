// ABOUTME: MCP tool definitions and registration for the biodb server
// ABOUTME: Exposes read-only knowledge, biomarker, and SNP tools over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bioarchitect/biodb/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, db *sqlite.DB, historyLimit int) *Handlers {
	handlers := &Handlers{
		knowledge:    sqlite.NewKnowledgeStore(db),
		bloodwork:    sqlite.NewBloodworkStore(db),
		dna:          sqlite.NewDnaStore(db),
		historyLimit: historyLimit,
	}

	// 1. get_knowledge - fetch one knowledge entry with tags and links
	server.AddTool(mcp.Tool{
		Name:        "get_knowledge",
		Description: "Get a knowledge entry by id, including its tags and links. Deprecated entries are returned too.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Knowledge entry id",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.GetKnowledge)

	// 2. list_active_knowledge - current view of the ledger
	server.AddTool(mcp.Tool{
		Name:        "list_active_knowledge",
		Description: "List all active knowledge entries, newest first. Superseded entries are excluded.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListActiveKnowledge)

	// 3. find_knowledge_by_tag - tag lookup across statuses
	server.AddTool(mcp.Tool{
		Name:        "find_knowledge_by_tag",
		Description: "Find knowledge entries carrying an exact tag value, across active and deprecated entries.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tag": map[string]interface{}{
					"type":        "string",
					"description": "Exact tag value to match",
				},
			},
			Required: []string{"tag"},
		},
	}, handlers.FindKnowledgeByTag)

	// 4. find_knowledge_by_link - linked-entity lookup
	server.AddTool(mcp.Tool{
		Name:        "find_knowledge_by_link",
		Description: "Find knowledge entries linked to a specific record, matching the exact link type and target id pair.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"link_type": map[string]interface{}{
					"type":        "string",
					"description": "One of: snp, biomarker, ingredient, supplement, protocol, knowledge",
				},
				"target_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the linked record",
				},
			},
			Required: []string{"link_type", "target_id"},
		},
	}, handlers.FindKnowledgeByLink)

	// 5. biomarker_history - one code across reports
	server.AddTool(mcp.Tool{
		Name:        "biomarker_history",
		Description: "Get results for one biomarker code across lab reports, newest first, with collection dates and reference ranges.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Biomarker code, e.g. GLUCOSE or VITAMIN_D",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 4)",
					"default":     4,
				},
			},
			Required: []string{"code"},
		},
	}, handlers.BiomarkerHistory)

	// 6. snp_lookup - genotype for one rsid
	server.AddTool(mcp.Tool{
		Name:        "snp_lookup",
		Description: "Look up the genotype, magnitude, repute, and gene for a SNP by rsid.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"rsid": map[string]interface{}{
					"type":        "string",
					"description": "SNP rsid, e.g. rs1801133",
				},
			},
			Required: []string{"rsid"},
		},
	}, handlers.SnpLookup)

	return handlers
}
