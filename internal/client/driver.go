package client

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// AdapterName identifies the bridge in BackendInfo
const AdapterName = "bridge"

// Entry is an entry descriptor translated to a virtual path
type Entry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"isDirectory"`
	Size        uint64    `json:"size"`
	Mtime       time.Time `json:"mtime"`
}

// BackendInfo describes the storage behind a Driver
type BackendInfo struct {
	Adapter string `json:"adapter"`
	BaseDir string `json:"baseDir"`
}

// Driver exposes the bridge as a filesystem rooted at "/", mapped onto
// the bridge's base directory. The base directory is fetched on first use
// and cached once a fetch succeeds.
type Driver struct {
	client *Client
	now    func() time.Time

	mu      sync.Mutex
	baseDir string
}

// NewDriver returns a Driver that issues commands through c
func NewDriver(c *Client) *Driver {
	return &Driver{client: c, now: time.Now}
}

// BaseDir returns the cached base directory, fetching it if needed
func (d *Driver) BaseDir(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.baseDir != "" {
		return d.baseDir, nil
	}
	dir, err := d.client.GetBaseDir(ctx)
	if err != nil {
		return "", err
	}
	d.baseDir = dir
	return dir, nil
}

func (d *Driver) base() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.baseDir
}

// BackendInfo reports the adapter name and the resolved base directory
func (d *Driver) BackendInfo(ctx context.Context) (BackendInfo, error) {
	base, err := d.BaseDir(ctx)
	if err != nil {
		return BackendInfo{}, err
	}
	return BackendInfo{Adapter: AdapterName, BaseDir: base}, nil
}

// ReadFile returns the contents of the file at a virtual path
func (d *Driver) ReadFile(ctx context.Context, path string) ([]byte, error) {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.client.ReadFile(ctx, host)
}

// WriteFile replaces the file at a virtual path, creating parents
func (d *Driver) WriteFile(ctx context.Context, path string, data []byte) error {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return err
	}
	return d.client.WriteFile(ctx, host, data)
}

// ReadDir lists the children of a virtual directory
func (d *Driver) ReadDir(ctx context.Context, path string) ([]Entry, error) {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return nil, err
	}
	descriptors, err := d.client.ReadDir(ctx, host)
	if err != nil {
		return nil, err
	}

	base := d.base()
	entries := make([]Entry, 0, len(descriptors))
	for _, desc := range descriptors {
		entries = append(entries, d.entry(base, desc))
	}
	return entries, nil
}

// Stat describes the object at a virtual path
func (d *Driver) Stat(ctx context.Context, path string) (Entry, error) {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return Entry{}, err
	}
	desc, err := d.client.Stat(ctx, host)
	if err != nil {
		return Entry{}, err
	}
	return d.entry(d.base(), desc), nil
}

// Mkdir creates a virtual directory and any missing ancestors
func (d *Driver) Mkdir(ctx context.Context, path string) error {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return err
	}
	return d.client.Mkdir(ctx, host)
}

// Remove deletes a virtual path, recursively for directories
func (d *Driver) Remove(ctx context.Context, path string) error {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return err
	}
	return d.client.Remove(ctx, host)
}

// Exists reports whether a virtual path resolves to an existing object
func (d *Driver) Exists(ctx context.Context, path string) (bool, error) {
	host, err := d.hostPath(ctx, path)
	if err != nil {
		return false, err
	}
	return d.client.Exists(ctx, host)
}

func (d *Driver) hostPath(ctx context.Context, virtual string) (string, error) {
	base, err := d.BaseDir(ctx)
	if err != nil {
		return "", err
	}
	return HostPath(base, virtual), nil
}

func (d *Driver) entry(base string, desc types.EntryDescriptor) Entry {
	mtime := d.now()
	if desc.MtimeMs != nil && *desc.MtimeMs > 0 {
		mtime = time.UnixMilli(int64(*desc.MtimeMs))
	}
	return Entry{
		Name:        desc.Name,
		Path:        VirtualPath(base, desc.Path),
		IsDirectory: desc.IsDirectory,
		Size:        desc.Size,
		Mtime:       mtime,
	}
}

// NormalizeVirtual roots a virtual path at "/"; empty and "." mean the root
func NormalizeVirtual(virtual string) string {
	switch {
	case virtual == "" || virtual == ".":
		return "/"
	case strings.HasPrefix(virtual, "/"):
		return virtual
	default:
		return "/" + virtual
	}
}

// HostPath maps a virtual path onto a host path under base
func HostPath(base, virtual string) string {
	normalized := NormalizeVirtual(virtual)
	if normalized == "/" {
		return base
	}
	return filepath.Join(base, filepath.FromSlash(normalized[1:]))
}

// VirtualPath maps a host path back to a "/"-rooted path relative to base
func VirtualPath(base, host string) string {
	rel, err := filepath.Rel(base, host)
	if err != nil {
		rel = host
	}
	if rel == "." || rel == "" {
		return "/"
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}
