package brew

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deixis/cellar/internal/catalog"
	"github.com/deixis/cellar/internal/logging"
)

// snapshotInstalled is the catalog key for the installed-packages snapshot.
const snapshotInstalled = "installed"

// Invoker runs one command line at a time, in submission order.
// Implemented by shell.Shell.
type Invoker interface {
	Run(ctx context.Context, command string, args ...string) ([]byte, error)
	RunString(ctx context.Context, command string, args ...string) (string, error)
	RunLines(ctx context.Context, command string, args ...string) ([]string, error)
}

// Client exposes the brew catalog operations. All commands funnel through
// the invoker's queue, so operations that mutate the brew database are
// serialized without any locking here.
type Client struct {
	inv    Invoker
	brew   string
	store  catalog.Store
	maxAge time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// Options configures a Client.
type Options struct {
	Invoker     Invoker       // required
	Brew        string        // brew executable; empty means "brew"
	Store       catalog.Store // optional snapshot cache
	CacheMaxAge time.Duration   // snapshot freshness bound; zero disables caching
	Logger      *zerolog.Logger // nil falls back to the package logger
}

// NewClient creates a brew client.
func NewClient(opts Options) *Client {
	brew := opts.Brew
	if brew == "" {
		brew = "brew"
	}

	log := logging.GetLogger("brew")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		inv:    opts.Invoker,
		brew:   brew,
		store:  opts.Store,
		maxAge: opts.CacheMaxAge,
		now:    time.Now,
		log:    log,
	}
}

// Search returns the package names matching query, one per line of brew's
// output. No matches yields an empty slice.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	return c.inv.RunLines(ctx, c.brew, searchArgs(query)...)
}

// Info fetches metadata for the named formulae and casks.
func (c *Client) Info(ctx context.Context, names ...string) (*InfoResponse, error) {
	out, err := c.inv.Run(ctx, c.brew, infoArgs(names)...)
	if err != nil {
		return nil, err
	}
	return DecodeInfo(out)
}

// Installed fetches metadata for every installed package. Results are
// served from the catalog store while a snapshot younger than the
// configured max age exists.
func (c *Client) Installed(ctx context.Context) (*InfoResponse, error) {
	if c.store != nil && c.maxAge > 0 {
		snap, err := c.store.Load(snapshotInstalled)
		if err == nil && snap.Fresh(c.now(), c.maxAge) {
			c.log.Debug().Time("fetched_at", snap.FetchedAt).Msg("Serving installed packages from snapshot")
			return DecodeInfo(snap.Data)
		}
	}

	out, err := c.inv.Run(ctx, c.brew, installedArgs()...)
	if err != nil {
		return nil, err
	}
	resp, err := DecodeInfo(out)
	if err != nil {
		return nil, err
	}

	c.saveSnapshot(out)
	return resp, nil
}

// Install installs a formula, or a cask when cask is true.
func (c *Client) Install(ctx context.Context, name string, cask bool) error {
	c.log.Info().Str("package", name).Bool("cask", cask).Msg("Installing package")
	if _, err := c.inv.Run(ctx, c.brew, installArgs(name, cask)...); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Uninstall removes a formula, or a cask when cask is true.
func (c *Client) Uninstall(ctx context.Context, name string, cask bool) error {
	c.log.Info().Str("package", name).Bool("cask", cask).Msg("Uninstalling package")
	if _, err := c.inv.Run(ctx, c.brew, uninstallArgs(name, cask)...); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Upgrade upgrades the named packages, or everything outdated when no
// names are given.
func (c *Client) Upgrade(ctx context.Context, names ...string) error {
	c.log.Info().Strs("packages", names).Msg("Upgrading packages")
	if _, err := c.inv.Run(ctx, c.brew, upgradeArgs(names)...); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Update refreshes brew's own package index.
func (c *Client) Update(ctx context.Context) error {
	_, err := c.inv.Run(ctx, c.brew, updateArgs()...)
	return err
}

// List returns the names of all installed packages.
func (c *Client) List(ctx context.Context) ([]string, error) {
	return c.inv.RunLines(ctx, c.brew, listArgs()...)
}

// Outdated reports the packages with pending upgrades.
func (c *Client) Outdated(ctx context.Context) (*OutdatedResponse, error) {
	out, err := c.inv.Run(ctx, c.brew, outdatedArgs()...)
	if err != nil {
		return nil, err
	}
	return DecodeOutdated(out)
}

// Version returns brew's version line.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.inv.RunString(ctx, c.brew, versionArgs()...)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) saveSnapshot(data []byte) {
	if c.store == nil || c.maxAge <= 0 {
		return
	}
	snap := &catalog.Snapshot{
		Key:       snapshotInstalled,
		FetchedAt: c.now(),
		Data:      json.RawMessage(data),
	}
	if err := c.store.Save(snap); err != nil {
		// Cache failures never fail the operation.
		c.log.Warn().Err(err).Msg("Saving installed snapshot failed")
	}
}

// invalidate drops the installed snapshot after a mutating command.
func (c *Client) invalidate() {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(snapshotInstalled); err != nil {
		c.log.Warn().Err(err).Msg("Invalidating installed snapshot failed")
	}
}
