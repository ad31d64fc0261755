package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const tempDirName = ".tmp"

// DiskKV stores every key as a file below a base directory.
type DiskKV struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDiskKV creates a diskv backed KV rooted at basePath.
func OpenDiskKV(basePath string) (*DiskKV, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskKV{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Writes go to a temp file and are renamed into place.
		TempDir: filepath.Join(basePath, tempDirName),
		// No cache: other processes write the same files.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

func (p *DiskKV) BasePath() string {
	return p.basePath
}

func (p *DiskKV) Read(key string) ([]byte, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

// Write syncs the temp file before renaming it over key.
func (p *DiskKV) Write(key string, val []byte) error {
	return p.d.WriteStream(key, bytes.NewReader(val), true)
}

func (p *DiskKV) Erase(key string) error {
	if !p.d.Has(key) {
		return nil
	}
	if err := p.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (p *DiskKV) Keys(ctx context.Context, prefix string) []string {
	keys := make([]string, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		if strings.HasPrefix(key, tempDirName) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func (p *DiskKV) Close() error {
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := split(s)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return join(append(append([]string{}, pathKey.Path...), pathKey.FileName)...)
}
