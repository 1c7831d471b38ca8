package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cellar/internal/brew"
)

func (h *handler) outdatedHandler(ctx context.Context, req *mcp.CallToolRequest, params struct{}) (*mcp.CallToolResult, any, error) {
	resp, err := h.brew.Outdated(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing outdated packages failed: %v", err))
	}
	if len(resp.Formulae) == 0 && len(resp.Casks) == 0 {
		return textResult("Everything is up to date.")
	}
	return textResult(formatOutdated(resp))
}

func (h *handler) updateHandler(ctx context.Context, req *mcp.CallToolRequest, params struct{}) (*mcp.CallToolResult, any, error) {
	if err := h.brew.Update(ctx); err != nil {
		return errorResult(fmt.Sprintf("update failed: %v", err))
	}
	return textResult("Package index updated.")
}

func formatOutdated(resp *brew.OutdatedResponse) string {
	var b strings.Builder

	total := len(resp.Formulae) + len(resp.Casks)
	fmt.Fprintf(&b, "%d packages have upgrades available:\n\n", total)

	writeRow := func(p brew.OutdatedPackage, cask bool) {
		installed := strings.Join(p.InstalledVersions, ", ")
		fmt.Fprintf(&b, "  %s: %s -> %s", p.Name, installed, p.CurrentVersion)
		if cask {
			fmt.Fprint(&b, " (cask)")
		}
		if p.Pinned {
			fmt.Fprint(&b, " (pinned, will not upgrade)")
		}
		fmt.Fprintln(&b)
	}

	for _, p := range resp.Formulae {
		writeRow(p, false)
	}
	for _, p := range resp.Casks {
		writeRow(p, true)
	}

	fmt.Fprint(&b, "\nUse cellar_upgrade to apply them.\n")
	return b.String()
}
