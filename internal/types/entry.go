package types

// EntryDescriptor describes one filesystem object.
// MtimeMs is nil when the host cannot report a modification time
// or the time is before the Unix epoch.
type EntryDescriptor struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	IsDirectory bool    `json:"isDirectory"`
	Size        uint64  `json:"size"`
	MtimeMs     *uint64 `json:"mtimeMs"`
}
