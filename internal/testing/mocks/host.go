// Package mocks provides shared test doubles for gmhelper packages.
package mocks

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/host"
	"github.com/gmhelper/gmhelper/internal/sprite"
)

// Host implements host.Session for testing.
// Use NewHost() to create instances with a fluent builder API.
//
// Assets registered with WithAsset play the role of files on disk: Open and
// Reload copy them into the open slot, so mutations of the open slot never
// reach the registered template.
type Host struct {
	assets map[string]*sprite.Asset

	path    string
	current *sprite.Asset

	dirtyOnExport bool

	// ExportFunc is called by ExportSheet. If nil, ExportSheet returns nil.
	ExportFunc func(ctx context.Context, opts host.SheetOptions) error

	// Call tracking (thread-safe)
	exportCount int32
	reloadCount int32
	mu          sync.Mutex
	calls       []string
	exports     []host.SheetOptions
	observed    []sprite.Asset
}

// NewHost creates a mock host with nothing open.
func NewHost() *Host {
	return &Host{assets: make(map[string]*sprite.Asset)}
}

// WithAsset registers the on-disk state of path. The asset's Path is set to
// path.
func (m *Host) WithAsset(path string, a *sprite.Asset) *Host {
	c := a.Clone()
	c.Path = path
	m.assets[path] = c
	return m
}

// WithTags registers a 16x16 asset at path with the given tags.
func (m *Host) WithTags(path string, tags ...sprite.Tag) *Host {
	return m.WithAsset(path, &sprite.Asset{Width: 16, Height: 16, Tags: tags})
}

// WithOpen puts a registered asset in the open slot without recording a call,
// as if another tool had opened it before this session started.
func (m *Host) WithOpen(path string) *Host {
	if a, ok := m.assets[path]; ok {
		m.path = path
		m.current = a.Clone()
	}
	return m
}

// WithDirtyOnExport makes every export mutate the open asset: dimensions
// double and tags are renamed, the way a careless host script would leave it.
func (m *Host) WithDirtyOnExport() *Host {
	m.dirtyOnExport = true
	return m
}

// WithExportFunc sets the function called by ExportSheet.
func (m *Host) WithExportFunc(fn func(ctx context.Context, opts host.SheetOptions) error) *Host {
	m.ExportFunc = fn
	return m
}

// host.Session interface implementation

func (m *Host) Open(_ context.Context, path string) error {
	m.record("open:" + path)

	a, ok := m.assets[path]
	if !ok {
		m.path = ""
		m.current = nil
		return errors.NoAssetOpen(path, fmt.Errorf("open %s: %w", path, fs.ErrNotExist))
	}
	m.path = path
	m.current = a.Clone()
	return nil
}

func (m *Host) Reload(_ context.Context) error {
	atomic.AddInt32(&m.reloadCount, 1)
	m.record("reload")

	if m.path == "" {
		return errors.NoAssetOpen("", nil)
	}
	m.current = m.assets[m.path].Clone()
	return nil
}

func (m *Host) Sprite() (*sprite.Asset, error) {
	if m.current == nil {
		return nil, errors.NoAssetOpen("", nil)
	}
	return m.current.Clone(), nil
}

func (m *Host) ExportSheet(ctx context.Context, opts host.SheetOptions) error {
	atomic.AddInt32(&m.exportCount, 1)
	m.record("export:" + opts.Tag)

	if m.current == nil {
		return errors.NoAssetOpen("", nil)
	}

	m.mu.Lock()
	m.exports = append(m.exports, opts)
	m.observed = append(m.observed, *m.current.Clone())
	m.mu.Unlock()

	var err error
	if m.ExportFunc != nil {
		err = m.ExportFunc(ctx, opts)
	}

	if m.dirtyOnExport {
		m.current.Width *= 2
		m.current.Height *= 2
		for i := range m.current.Tags {
			m.current.Tags[i].Name += "-dirty"
			m.current.Tags[i].To++
		}
	}
	return err
}

func (m *Host) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Test inspection methods

// Calls returns every session call in order, as "open:<path>", "reload" or
// "export:<tag>".
func (m *Host) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.calls))
	copy(result, m.calls)
	return result
}

// Exports returns the options of every ExportSheet call.
func (m *Host) Exports() []host.SheetOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]host.SheetOptions, len(m.exports))
	copy(result, m.exports)
	return result
}

// Observed returns the open asset as it was at the start of each export.
func (m *Host) Observed() []sprite.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]sprite.Asset, len(m.observed))
	copy(result, m.observed)
	return result
}

// ExportCount returns the number of times ExportSheet was called.
func (m *Host) ExportCount() int32 {
	return atomic.LoadInt32(&m.exportCount)
}

// ReloadCount returns the number of times Reload was called.
func (m *Host) ReloadCount() int32 {
	return atomic.LoadInt32(&m.reloadCount)
}

// Reset clears call tracking state.
func (m *Host) Reset() {
	atomic.StoreInt32(&m.exportCount, 0)
	atomic.StoreInt32(&m.reloadCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.exports = nil
	m.observed = nil
	m.mu.Unlock()
}
