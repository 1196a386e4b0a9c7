package signal

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// File persists the flag as a small file holding the sentinel string. A
// missing file reads as clean, so first runs need no setup.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Dirty(ctx context.Context) (bool, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("signal: read flag file: %w", err)
	}
	return strings.TrimSpace(string(raw)) == sentinelDirty, nil
}

func (f *File) Reset(ctx context.Context) error {
	return f.write(sentinelClean)
}

// MarkDirty flips the flag, standing in for the external mutator.
func (f *File) MarkDirty(ctx context.Context) error {
	return f.write(sentinelDirty)
}

func (f *File) write(sentinel string) error {
	if err := os.WriteFile(f.path, []byte(sentinel), 0o644); err != nil {
		return fmt.Errorf("signal: write flag file: %w", err)
	}
	return nil
}
