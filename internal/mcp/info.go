package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cellar/internal/brew"
)

type infoParams struct {
	Names []string `json:"names" jsonschema:"Formula or cask names to look up (e.g. wget, firefox)."`
}

func (h *handler) infoHandler(ctx context.Context, req *mcp.CallToolRequest, params infoParams) (*mcp.CallToolResult, any, error) {
	if len(params.Names) == 0 {
		return errorResult("names must not be empty")
	}

	resp, err := h.brew.Info(ctx, params.Names...)
	if err != nil {
		return errorResult(fmt.Sprintf("info failed: %v", err))
	}
	if len(resp.Formulae) == 0 && len(resp.Casks) == 0 {
		return textResult("No matching packages found.")
	}
	return textResult(formatInfo(resp))
}

func (h *handler) installedHandler(ctx context.Context, req *mcp.CallToolRequest, params struct{}) (*mcp.CallToolResult, any, error) {
	resp, err := h.brew.Installed(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("listing installed packages failed: %v", err))
	}
	if len(resp.Formulae) == 0 && len(resp.Casks) == 0 {
		return textResult("No packages installed.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d formulae, %d casks installed\n\n", len(resp.Formulae), len(resp.Casks))
	for _, f := range resp.Formulae {
		fmt.Fprintf(&b, "  %s %s", f.Name, f.InstalledVersion())
		if f.Outdated {
			fmt.Fprint(&b, " (outdated)")
		}
		if f.Pinned {
			fmt.Fprint(&b, " (pinned)")
		}
		fmt.Fprintln(&b)
	}
	for _, c := range resp.Casks {
		fmt.Fprintf(&b, "  %s %s (cask)", c.Token, c.Installed)
		if c.Outdated {
			fmt.Fprint(&b, " (outdated)")
		}
		fmt.Fprintln(&b)
	}
	return textResult(b.String())
}

func formatInfo(resp *brew.InfoResponse) string {
	var b strings.Builder

	for _, f := range resp.Formulae {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Versions.Stable)
		if f.Desc != "" {
			fmt.Fprintf(&b, "  %s\n", f.Desc)
		}
		if f.Homepage != "" {
			fmt.Fprintf(&b, "  %s\n", f.Homepage)
		}
		if v := f.InstalledVersion(); v != "" {
			fmt.Fprintf(&b, "  Installed: %s", v)
			if f.Outdated {
				fmt.Fprint(&b, " (outdated)")
			}
			fmt.Fprintln(&b)
		} else {
			fmt.Fprintln(&b, "  Not installed")
		}
		fmt.Fprintln(&b)
	}

	for _, c := range resp.Casks {
		fmt.Fprintf(&b, "%s: %s (cask)\n", c.Token, c.Version)
		if name := c.DisplayName(); name != "" && name != c.Token {
			fmt.Fprintf(&b, "  %s\n", name)
		}
		if c.Desc != "" {
			fmt.Fprintf(&b, "  %s\n", c.Desc)
		}
		if c.Homepage != "" {
			fmt.Fprintf(&b, "  %s\n", c.Homepage)
		}
		if c.Installed != "" {
			fmt.Fprintf(&b, "  Installed: %s", c.Installed)
			if c.Outdated {
				fmt.Fprint(&b, " (outdated)")
			}
			fmt.Fprintln(&b)
		} else {
			fmt.Fprintln(&b, "  Not installed")
		}
		fmt.Fprintln(&b)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
