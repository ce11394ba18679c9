package filesystem

import (
	"context"

	"github.com/GriffinCanCode/fsbridge/internal/dispatch"
	"github.com/GriffinCanCode/fsbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Command names
const (
	CmdGetBaseDir = "fs_get_base_dir"
	CmdReadFile   = "fs_read_file"
	CmdWriteFile  = "fs_write_file"
	CmdReadDir    = "fs_readdir"
	CmdStat       = "fs_stat"
	CmdMkdir      = "fs_mkdir"
	CmdRm         = "fs_rm"
	CmdExists     = "fs_exists"
)

// ServiceID is the id the provider registers under
const ServiceID = "filesystem"

// Options configures the provider
type Options struct {
	// AtomicWrites stages fs_write_file data in a temp file and renames it into place
	AtomicWrites bool
	// Metrics, when set, counts bytes moved by reads and writes
	Metrics *monitoring.Metrics
}

// Provider exposes the filesystem commands to the dispatcher
type Provider struct {
	opts Options
}

// PathArgs is the argument object of single-path commands
type PathArgs struct {
	Path string `json:"path"`
}

// WriteArgs is the argument object of fs_write_file
type WriteArgs struct {
	Path string      `json:"path"`
	Data types.Bytes `json:"data"`
}

// NewProvider creates a filesystem provider
func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	pathParam := func(desc string) []types.Parameter {
		return []types.Parameter{
			{Name: "path", Type: "string", Description: desc, Required: true},
		}
	}

	return types.Service{
		ID:          ServiceID,
		Name:        "Filesystem Bridge",
		Description: "Read, write, enumerate, stat, create and remove local files and directories",
		Category:    types.CategoryFilesystem,
		Commands: []types.Command{
			{
				Name:        CmdGetBaseDir,
				Description: "Current working directory of the bridge process",
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
			{
				Name:        CmdReadFile,
				Description: "Read the complete contents of a file",
				Parameters:  pathParam("File path"),
				Returns:     "bytes",
			},
			{
				Name:        CmdWriteFile,
				Description: "Replace the contents of a file, creating missing parent directories",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
					{Name: "data", Type: "bytes", Description: "File contents as an array of byte values", Required: true},
				},
				Returns: "null",
			},
			{
				Name:        CmdReadDir,
				Description: "List the immediate children of a directory",
				Parameters:  pathParam("Directory path"),
				Returns:     "EntryDescriptor[]",
			},
			{
				Name:        CmdStat,
				Description: "Describe a file or directory, following symbolic links",
				Parameters:  pathParam("File or directory path"),
				Returns:     "EntryDescriptor",
			},
			{
				Name:        CmdMkdir,
				Description: "Create a directory and any missing ancestors",
				Parameters:  pathParam("Directory path"),
				Returns:     "null",
			},
			{
				Name:        CmdRm,
				Description: "Remove a file or a directory tree; missing paths are ignored",
				Parameters:  pathParam("File or directory path"),
				Returns:     "null",
			},
			{
				Name:        CmdExists,
				Description: "Check whether a file or directory exists",
				Parameters:  pathParam("File or directory path"),
				Returns:     "boolean",
				Infallible:  true,
			},
		},
	}
}

// Handlers returns the command handlers keyed by command name
func (p *Provider) Handlers() map[string]dispatch.HandlerFunc {
	return map[string]dispatch.HandlerFunc{
		CmdGetBaseDir: p.getBaseDir,
		CmdReadFile:   p.readFile,
		CmdWriteFile:  p.writeFile,
		CmdReadDir:    p.readDir,
		CmdStat:       p.stat,
		CmdMkdir:      p.mkdir,
		CmdRm:         p.rm,
		CmdExists:     p.exists,
	}
}

func (p *Provider) getBaseDir(_ context.Context, _ dispatch.Args) (interface{}, error) {
	return GetBaseDir()
}

func (p *Provider) readFile(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdReadFile, args, &in); err != nil {
		return nil, err
	}

	data, err := ReadFile(in.Path)
	if err != nil {
		return nil, err
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.AddBytesRead(len(data))
	}
	return types.Bytes(data), nil
}

func (p *Provider) writeFile(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in WriteArgs
	if err := dispatch.BindArgs(CmdWriteFile, args, &in); err != nil {
		return nil, err
	}

	if err := WriteFile(in.Path, in.Data, p.opts.AtomicWrites); err != nil {
		return nil, err
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.AddBytesWritten(len(in.Data))
	}
	return nil, nil
}

func (p *Provider) readDir(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdReadDir, args, &in); err != nil {
		return nil, err
	}
	return ReadDir(in.Path)
}

func (p *Provider) stat(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdStat, args, &in); err != nil {
		return nil, err
	}
	return Stat(in.Path)
}

func (p *Provider) mkdir(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdMkdir, args, &in); err != nil {
		return nil, err
	}
	return nil, Mkdir(in.Path)
}

func (p *Provider) rm(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdRm, args, &in); err != nil {
		return nil, err
	}
	return nil, Remove(in.Path)
}

func (p *Provider) exists(_ context.Context, args dispatch.Args) (interface{}, error) {
	var in PathArgs
	if err := dispatch.BindArgs(CmdExists, args, &in); err != nil {
		return nil, err
	}
	return Exists(in.Path), nil
}
