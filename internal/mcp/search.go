package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type searchParams struct {
	Query string `json:"query" jsonschema:"Search term. Matched against formula and cask names (e.g. wget, firefox)."`
}

func (h *handler) searchHandler(ctx context.Context, req *mcp.CallToolRequest, params searchParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Query) == "" {
		return errorResult("query must not be empty")
	}

	names, err := h.brew.Search(ctx, params.Query)
	if err != nil {
		return errorResult(fmt.Sprintf("search failed: %v", err))
	}

	if len(names) == 0 {
		return textResult(fmt.Sprintf("No packages match %q.", params.Query))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d packages match %q:\n\n", len(names), params.Query)
	for _, n := range names {
		fmt.Fprintf(&b, "  %s\n", n)
	}
	fmt.Fprintf(&b, "\nUse cellar_info for details on a specific package.\n")
	return textResult(b.String())
}
