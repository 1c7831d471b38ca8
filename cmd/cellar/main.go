// Command cellar manages Homebrew packages through a serialized shell queue.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cellar"
	"github.com/deixis/cellar/internal/brew"
	"github.com/deixis/cellar/internal/catalog"
	"github.com/deixis/cellar/internal/config"
	"github.com/deixis/cellar/internal/logging"
	cellarmcp "github.com/deixis/cellar/internal/mcp"
	"github.com/deixis/cellar/internal/shell"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cellar: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "mcp":
		err = mcpMain(args)
	case "search":
		err = searchMain(args)
	case "info":
		err = infoMain(args)
	case "install":
		err = installMain(args)
	case "uninstall":
		err = uninstallMain(args)
	case "upgrade":
		err = upgradeMain(args)
	case "list":
		err = listMain(args)
	case "outdated":
		err = outdatedMain(args)
	case "update":
		err = updateMain(args)
	case "version":
		err = versionMain(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "cellar: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: cellar <command> [flags] [packages]

Commands:
  search      Search for formulae and casks
  info        Show package metadata
  install     Install a package
  uninstall   Uninstall a package
  upgrade     Upgrade packages (all outdated when none named)
  list        List installed package names
  outdated    List packages with pending upgrades
  update      Refresh the brew package index
  mcp         Start the MCP server
  version     Print versions
  help        Show this help

Use "cellar <command> -h" for command-specific flags.`)
}

// newClient builds the brew client every command shares: config, logging,
// the serial shell queue, and the snapshot cache. The returned cleanup
// drains the queue.
func newClient() (*brew.Client, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("determining working directory: %w", err)
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.Verbosity)

	enc, err := cfg.Encoding()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	sh := shell.New(shell.Options{
		Processor: cfg.Processor(),
		Encoding:  enc,
	})

	store := catalog.NewLRUStore(4, catalog.NewDiskStore(""))

	client := brew.NewClient(brew.Options{
		Invoker:     sh,
		Brew:        cfg.BrewPath(),
		Store:       store,
		CacheMaxAge: cfg.CacheMaxAge(),
	})
	return client, sh.Close, nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(cellarmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	server := cellarmcp.NewServer(client)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- search ---

func searchMain(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cellar search <query>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := client.Search(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

// --- info ---

func infoMain(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output brew's raw JSON")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: cellar info [-json] <package>...")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.Info(ctx, fs.Args()...)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	for _, f := range resp.Formulae {
		fmt.Printf("%s: %s\n", f.Name, f.Versions.Stable)
		if f.Desc != "" {
			fmt.Printf("  %s\n", f.Desc)
		}
		if v := f.InstalledVersion(); v != "" {
			fmt.Printf("  installed: %s\n", v)
		}
	}
	for _, c := range resp.Casks {
		fmt.Printf("%s: %s (cask)\n", c.Token, c.Version)
		if c.Desc != "" {
			fmt.Printf("  %s\n", c.Desc)
		}
		if c.Installed != "" {
			fmt.Printf("  installed: %s\n", c.Installed)
		}
	}
	return nil
}

// --- install / uninstall / upgrade ---

func installMain(args []string) error {
	fs := flag.NewFlagSet("install", flag.ExitOnError)
	caskFlag := fs.Bool("cask", false, "install as a cask")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cellar install [-cask] <package>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := client.Install(ctx, fs.Arg(0), *caskFlag); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	fmt.Printf("installed %s\n", fs.Arg(0))
	return nil
}

func uninstallMain(args []string) error {
	fs := flag.NewFlagSet("uninstall", flag.ExitOnError)
	caskFlag := fs.Bool("cask", false, "uninstall a cask")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cellar uninstall [-cask] <package>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := client.Uninstall(ctx, fs.Arg(0), *caskFlag); err != nil {
		return fmt.Errorf("uninstall: %w", err)
	}
	fmt.Printf("uninstalled %s\n", fs.Arg(0))
	return nil
}

func upgradeMain(args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := client.Upgrade(ctx, fs.Args()...); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}
	if fs.NArg() == 0 {
		fmt.Println("upgraded all outdated packages")
	} else {
		fmt.Printf("upgraded %s\n", strings.Join(fs.Args(), ", "))
	}
	return nil
}

// --- list / outdated / update ---

func listMain(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func outdatedMain(args []string) error {
	fs := flag.NewFlagSet("outdated", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output brew's raw JSON")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.Outdated(ctx)
	if err != nil {
		return fmt.Errorf("outdated: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	for _, p := range resp.Formulae {
		fmt.Printf("%s: %s -> %s\n", p.Name, strings.Join(p.InstalledVersions, ", "), p.CurrentVersion)
	}
	for _, p := range resp.Casks {
		fmt.Printf("%s: %s -> %s (cask)\n", p.Name, strings.Join(p.InstalledVersions, ", "), p.CurrentVersion)
	}
	return nil
}

func updateMain(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := client.Update(ctx); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	fmt.Println("package index updated")
	return nil
}

// --- version ---

func versionMain(args []string) error {
	fmt.Printf("cellar %s\n", cellar.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	v, err := client.Version(ctx)
	if err != nil {
		// brew may be missing; the cellar version is still useful.
		fmt.Println("brew: unavailable")
		return nil
	}
	fmt.Println(v)
	return nil
}
