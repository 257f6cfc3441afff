// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes raftcheck inspection tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raftcheck/internal/apperr"
	"github.com/starford/raftcheck/internal/checklist"
	"github.com/starford/raftcheck/internal/inspection"
	"github.com/starford/raftcheck/internal/registry"
)

const rulesURI = "raftcheck://verdict-rules"

// Server wraps the MCP server with raftcheck tools.
type Server struct {
	mcp         *server.MCPServer
	registry    registry.Store
	inspections *inspection.Service
}

// New creates a new MCP server with all raftcheck tools registered.
func New(reg registry.Store, inspections *inspection.Service) *Server {
	s := &Server{registry: reg, inspections: inspections}

	s.mcp = server.NewMCPServer(
		"raftcheck",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_assets",
		mcp.WithDescription("List registered life-rafts, optionally filtered by brand."),
		mcp.WithString("brand", mcp.Description("Exact brand name (e.g. ZODIAC)")),
	), s.listAssets)

	s.mcp.AddTool(mcp.NewTool("open_inspection",
		mcp.WithDescription("Open an inspection of a raft and generate its compliance checklist. "+
			"Returns the inspection id used by every other checklist tool."),
		mcp.WithString("asset_id", mcp.Required(), mcp.Description("Id of the raft to inspect")),
	), s.openInspection)

	s.mcp.AddTool(mcp.NewTool("get_checklist",
		mcp.WithDescription("Return the ordered checklist items of an inspection."),
		mcp.WithString("inspection_id", mcp.Required(), mcp.Description("Inspection id")),
		mcp.WithString("source", mcp.Description("Only items from this source (ledger, inventory, functional_tests, bulletins, manual, installed_components)")),
	), s.getChecklist)

	s.mcp.AddTool(mcp.NewTool("update_checklist_item",
		mcp.WithDescription("Record a verdict or notes on one checklist item. "+
			"Read the raftcheck://verdict-rules resource for how verdicts roll up."),
		mcp.WithString("inspection_id", mcp.Required(), mcp.Description("Inspection id")),
		mcp.WithString("item_id", mcp.Required(), mcp.Description("Checklist item id")),
		mcp.WithString("field", mcp.Required(), mcp.Description("verdict or notes"), mcp.Enum("verdict", "notes")),
		mcp.WithString("value", mcp.Required(), mcp.Description("pending, passed, failed or not_applicable for verdict; free text for notes")),
	), s.updateChecklistItem)

	s.mcp.AddTool(mcp.NewTool("set_inspection_asset",
		mcp.WithDescription("Switch an open inspection to another raft and rebuild its checklist. "+
			"Switching back to the raft already checked keeps its verdicts."),
		mcp.WithString("inspection_id", mcp.Required(), mcp.Description("Inspection id")),
		mcp.WithString("asset_id", mcp.Required(), mcp.Description("Id of the raft to inspect")),
	), s.setInspectionAsset)

	s.mcp.AddTool(mcp.NewTool("regenerate_checklist",
		mcp.WithDescription("Rebuild the checklist from current records. Discards every verdict and note."),
		mcp.WithString("inspection_id", mcp.Required(), mcp.Description("Inspection id")),
	), s.regenerateChecklist)

	s.mcp.AddTool(mcp.NewTool("inspection_summary",
		mcp.WithDescription("Progress, overall verdict and per-source statistics of an inspection."),
		mcp.WithString("inspection_id", mcp.Required(), mcp.Description("Inspection id")),
	), s.inspectionSummary)

	s.mcp.AddTool(mcp.NewTool("get_verdict_rules",
		mcp.WithDescription("Returns the rules that derive progress and the overall verdict from item verdicts."),
	), s.getVerdictRules)

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Verdict Rules",
			mcp.WithResourceDescription("How item verdicts roll up into the inspection result."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readVerdictRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrAssetNotFound):
		return mcp.NewToolResultError("asset not found")
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listAssets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assets, total, err := s.registry.ListAssets(ctx, 200, 0, req.GetString("brand", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"assets": assets, "total": total}), nil
}

func (s *Server) openInspection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assetID, err := req.RequireString("asset_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.inspections.Open(ctx, assetID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) getChecklist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("inspection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.inspections.Get(id)
	if err != nil {
		return errorResult(err), nil
	}
	items := v.Items
	if src := req.GetString("source", ""); src != "" {
		items = items[:0:0]
		for _, it := range v.Items {
			if it.Source == checklist.Source(src) {
				items = append(items, it)
			}
		}
	}
	return jsonResult(items), nil
}

func (s *Server) updateChecklistItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args [4]string
	for i, key := range []string{"inspection_id", "item_id", "field", "value"} {
		v, err := req.RequireString(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args[i] = v
	}
	item, err := s.inspections.UpdateItem(args[0], args[1], checklist.Field(args[2]), args[3])
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no item %s in inspection %s", args[1], args[0])), nil
		}
		return errorResult(err), nil
	}
	return jsonResult(item), nil
}

func (s *Server) setInspectionAsset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("inspection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	assetID, err := req.RequireString("asset_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.inspections.SetAsset(ctx, id, assetID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) regenerateChecklist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("inspection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.inspections.Regenerate(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) inspectionSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("inspection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.inspections.Summary(id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sum), nil
}

func (s *Server) getVerdictRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(VerdictRules), nil
}

func (s *Server) readVerdictRulesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "text/markdown",
			Text:     VerdictRules,
		},
	}, nil
}
