package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type installParams struct {
	Name string `json:"name" jsonschema:"Formula or cask name to install (e.g. wget, firefox)."`
	Cask bool   `json:"cask,omitempty" jsonschema:"Treat the name as a cask (GUI application)."`
}

func (h *handler) installHandler(ctx context.Context, req *mcp.CallToolRequest, params installParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Name) == "" {
		return errorResult("name must not be empty")
	}

	if err := h.brew.Install(ctx, params.Name, params.Cask); err != nil {
		return errorResult(fmt.Sprintf("installing %s failed: %v", params.Name, err))
	}
	return textResult(fmt.Sprintf("Installed %s.", params.Name))
}

type uninstallParams struct {
	Name string `json:"name" jsonschema:"Formula or cask name to uninstall."`
	Cask bool   `json:"cask,omitempty" jsonschema:"Treat the name as a cask (GUI application)."`
}

func (h *handler) uninstallHandler(ctx context.Context, req *mcp.CallToolRequest, params uninstallParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Name) == "" {
		return errorResult("name must not be empty")
	}

	if err := h.brew.Uninstall(ctx, params.Name, params.Cask); err != nil {
		return errorResult(fmt.Sprintf("uninstalling %s failed: %v", params.Name, err))
	}
	return textResult(fmt.Sprintf("Uninstalled %s.", params.Name))
}

type upgradeParams struct {
	Names []string `json:"names,omitempty" jsonschema:"Packages to upgrade. Empty upgrades everything outdated."`
}

func (h *handler) upgradeHandler(ctx context.Context, req *mcp.CallToolRequest, params upgradeParams) (*mcp.CallToolResult, any, error) {
	if err := h.brew.Upgrade(ctx, params.Names...); err != nil {
		return errorResult(fmt.Sprintf("upgrade failed: %v", err))
	}
	if len(params.Names) == 0 {
		return textResult("Upgraded all outdated packages.")
	}
	return textResult(fmt.Sprintf("Upgraded %s.", strings.Join(params.Names, ", ")))
}
