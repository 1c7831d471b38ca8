// Package mcp provides the Cellar MCP server, registering all tools
// and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cellar"
	"github.com/deixis/cellar/internal/brew"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	brew *brew.Client
}

// NewServer creates an MCP server with all Cellar tools registered.
func NewServer(client *brew.Client) *mcp.Server {
	h := &handler{brew: client}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "cellar", Version: cellar.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cellar_search",
		Description: "Search Homebrew for formulae and casks matching a query.",
	}, h.searchHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "cellar_info",
		Description: `Fetch metadata for named formulae or casks.

Returns description, homepage, latest version, and the installed version
if the package is present.`,
	}, h.infoHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "cellar_installed",
		Description: `List every installed package with its version and install state.

Results may be served from a short-lived snapshot; mutating tools
(install, uninstall, upgrade) invalidate it.`,
	}, h.installedHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "cellar_install",
		Description: `Install a formula, or a cask when cask=true.

Installs run one at a time, in the order they were requested.`,
	}, h.installHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cellar_uninstall",
		Description: "Uninstall a formula, or a cask when cask=true.",
	}, h.uninstallHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "cellar_upgrade",
		Description: `Upgrade the named packages, or everything outdated when no names are given.

Run cellar_outdated first to see what would change.`,
	}, h.upgradeHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cellar_outdated",
		Description: "List packages with a newer version available.",
	}, h.outdatedHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cellar_update",
		Description: "Refresh Homebrew's package index (brew update).",
	}, h.updateHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
