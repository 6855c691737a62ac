// ABOUTME: Database snapshot push/pull over Charm KV
// ABOUTME: Snapshots are gzip-compressed whole-file copies with metadata
package charm

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bioarchitect/biodb/internal/util"
)

const (
	snapshotRetries   = 3
	snapshotBaseDelay = 500 * time.Millisecond
)

// withRetry runs op up to snapshotRetries times, backing off between
// attempts. Charm KV writes can fail transiently when the SSH tunnel drops.
func withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < snapshotRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(snapshotBaseDelay, attempt))
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

// SnapshotMeta describes a pushed database snapshot.
type SnapshotMeta struct {
	PushedAt       time.Time `json:"pushed_at"`
	SizeBytes      int       `json:"size_bytes"`
	CompressedSize int       `json:"compressed_size"`
	SourceHost     string    `json:"source_host,omitempty"`
}

// PushSnapshot compresses the database file at dbPath and stores it with
// metadata under the snapshot keys.
func (c *Client) PushSnapshot(dbPath string) (*SnapshotMeta, error) {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("reading database: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}

	hostname, _ := os.Hostname()
	meta := &SnapshotMeta{
		PushedAt:       time.Now(),
		SizeBytes:      len(data),
		CompressedSize: buf.Len(),
		SourceHost:     hostname,
	}

	if err := withRetry(func() error { return c.Set(SnapshotKey(), buf.Bytes()) }); err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}
	if err := withRetry(func() error { return c.SetJSON(SnapshotMetaKey(), meta) }); err != nil {
		return nil, fmt.Errorf("storing snapshot metadata: %w", err)
	}

	return meta, nil
}

// PullSnapshot retrieves the stored snapshot and writes it to dbPath. The
// file is written to a temp path first so a failed pull never truncates the
// local database.
func (c *Client) PullSnapshot(dbPath string) (*SnapshotMeta, error) {
	if err := withRetry(c.Sync); err != nil {
		return nil, fmt.Errorf("syncing with cloud: %w", err)
	}

	compressed, err := c.Get(SnapshotKey())
	if err != nil {
		return nil, fmt.Errorf("retrieving snapshot: %w", err)
	}
	if len(compressed) == 0 {
		return nil, fmt.Errorf("no snapshot found")
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("decompressing snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	tmpPath := dbPath + ".pull"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, dbPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("replacing database: %w", err)
	}

	var meta SnapshotMeta
	if err := c.GetJSON(SnapshotMetaKey(), &meta); err != nil {
		// The snapshot itself landed; metadata is best-effort.
		return &SnapshotMeta{SizeBytes: len(data)}, nil
	}
	return &meta, nil
}

// SnapshotStatus returns the stored snapshot metadata, or nil when no
// snapshot has been pushed.
func (c *Client) SnapshotStatus() (*SnapshotMeta, error) {
	data, err := c.Get(SnapshotMetaKey())
	if err != nil {
		return nil, fmt.Errorf("retrieving snapshot metadata: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var meta SnapshotMeta
	if err := c.GetJSON(SnapshotMetaKey(), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
