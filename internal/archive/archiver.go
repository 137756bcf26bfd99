// Package archive packs cache paths into a compressed tar file and unpacks it again.
package archive

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Archiver stores entries relative to Root and extracts them back under Root.
type Archiver struct {
	root   string
	method CompressionMethod
	logger *slog.Logger
}

type Options struct {
	// Root defaults to the working directory.
	Root   string
	Method CompressionMethod
	Logger *slog.Logger
}

func New(opts Options) (*Archiver, error) {
	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	method := opts.Method
	if method == "" {
		method = Zstd
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{root: root, method: method, logger: logger}, nil
}

func (a *Archiver) Root() string {
	return a.root
}

// CompressionMethod is the method selected for this process.
func (a *Archiver) CompressionMethod() CompressionMethod {
	return a.method
}

func (a *Archiver) CacheFileName(method CompressionMethod) string {
	return CacheFileName(method)
}
