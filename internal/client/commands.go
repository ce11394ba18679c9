package client

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/fsbridge/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsbridge/internal/types"
)

type pathArgs struct {
	Path string `json:"path"`
}

// GetBaseDir returns the bridge process working directory
func (c *Client) GetBaseDir(ctx context.Context) (string, error) {
	var dir string
	err := c.Invoke(ctx, filesystem.CmdGetBaseDir, nil, &dir)
	return dir, err
}

// ReadFile returns the full contents of the file at path
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	var data types.Bytes
	if err := c.Invoke(ctx, filesystem.CmdReadFile, pathArgs{Path: path}, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = types.Bytes{}
	}
	return data, nil
}

// WriteFile replaces the file at path with data, creating parent directories.
// The payload travels as a raw octet-stream body.
func (c *Client) WriteFile(ctx context.Context, path string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	return c.do(ctx, filesystem.CmdWriteFile, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("path", path).
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(data).
			Post("/invoke/{command}")
	}, nil)
}

// ReadDir lists the immediate children of the directory at path
func (c *Client) ReadDir(ctx context.Context, path string) ([]types.EntryDescriptor, error) {
	var entries []types.EntryDescriptor
	if err := c.Invoke(ctx, filesystem.CmdReadDir, pathArgs{Path: path}, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.EntryDescriptor{}
	}
	return entries, nil
}

// Stat describes the object at path, following symbolic links
func (c *Client) Stat(ctx context.Context, path string) (types.EntryDescriptor, error) {
	var entry types.EntryDescriptor
	err := c.Invoke(ctx, filesystem.CmdStat, pathArgs{Path: path}, &entry)
	return entry, err
}

// Mkdir creates the directory at path and any missing ancestors
func (c *Client) Mkdir(ctx context.Context, path string) error {
	return c.Invoke(ctx, filesystem.CmdMkdir, pathArgs{Path: path}, nil)
}

// Remove deletes the object at path, recursively for directories.
// A missing path is not an error.
func (c *Client) Remove(ctx context.Context, path string) error {
	return c.Invoke(ctx, filesystem.CmdRm, pathArgs{Path: path}, nil)
}

// Exists reports whether path resolves to an existing object
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	var ok bool
	err := c.Invoke(ctx, filesystem.CmdExists, pathArgs{Path: path}, &ok)
	return ok, err
}
