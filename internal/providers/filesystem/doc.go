// Package filesystem is the bridge between callers and the local filesystem.
//
// It registers eight commands with the dispatcher:
//
//	fs_get_base_dir  working directory of the process
//	fs_read_file     whole-file read
//	fs_write_file    whole-file write, creating missing parents
//	fs_readdir       immediate children as entry descriptors
//	fs_stat          one entry descriptor
//	fs_mkdir         mkdir -p
//	fs_rm            recursive, idempotent delete
//	fs_exists        existence check that never fails
//
// Paths are passed to the OS untouched: relative paths resolve against the
// working directory at call time and nothing is cleaned or sandboxed.
// Metadata reads follow symbolic links. Commands hold no state, take no
// locks and run to completion once started; OS errors are returned as-is.
//
// Example Usage:
//
//	registry := dispatch.NewRegistry()
//	registry.Register(filesystem.NewProvider(filesystem.Options{}))
//	result, err := registry.Invoke(ctx, filesystem.CmdStat, dispatch.MustArgs(map[string]string{"path": "go.mod"}))
package filesystem
