package secondary

import "context"

// RegionRecord describes one block appended to a shared file.
type RegionRecord struct {
	ID        string
	RunID     string
	Dataset   string
	Path      string
	Offset    int64  // byte offset of the leading "\n\n"
	Length    int64  // length of "\n\n"+text
	Checksum  string // hex SHA-256 of "\n\n"+text
	CreatedAt string
}

// RegionRepository defines the secondary port for the splice region registry.
type RegionRepository interface {
	Record(ctx context.Context, record *RegionRecord) error
	// Find returns nil, nil when no region is registered.
	Find(ctx context.Context, dataset, path string) (*RegionRecord, error)
	Forget(ctx context.Context, dataset, path string) error
	List(ctx context.Context, dataset string) ([]*RegionRecord, error)
}

// HistoryRecord describes one create or undo run.
type HistoryRecord struct {
	ID        string
	RunID     string
	Dataset   string
	Action    string // "create" or "undo"
	Source    string // CSV path
	CreatedAt string
}

// HistoryRepository defines the secondary port for the scaffold history log.
type HistoryRepository interface {
	Append(ctx context.Context, record *HistoryRecord) error
	List(ctx context.Context, dataset string, limit int) ([]*HistoryRecord, error)
}
