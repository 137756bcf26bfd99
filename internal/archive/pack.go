package archive

import (
	"archive/tar"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Pack writes every path into folder/CacheFileName(method) and returns the archive path.
// Directories are added recursively; symlinks are stored as links.
func (a *Archiver) Pack(ctx context.Context, folder string, paths []string, method CompressionMethod) (string, error) {
	archivePath := filepath.Join(folder, CacheFileName(method))
	f, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	if err := a.writeTar(ctx, bw, paths, method); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	return archivePath, nil
}

func (a *Archiver) writeTar(ctx context.Context, w io.Writer, paths []string, method CompressionMethod) error {
	cw, err := newCompressWriter(w, method)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(cw)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = cw.Close()
			return err
		}
		if err := a.addPath(ctx, tw, abs); err != nil {
			_ = cw.Close()
			return fmt.Errorf("pack %s: %w", p, err)
		}
	}
	if err := tw.Close(); err != nil {
		_ = cw.Close()
		return fmt.Errorf("close tar: %w", err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("close %s stream: %w", method, err)
	}
	return nil
}

func (a *Archiver) addPath(ctx context.Context, tw *tar.Writer, full string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	info, err := os.Lstat(full)
	if err != nil {
		return err
	}
	name, err := a.entryName(full)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		link, err := os.Readlink(full)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = name
		return tw.WriteHeader(hdr)
	case info.IsDir():
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name + "/"
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		entries, err := os.ReadDir(full)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := a.addPath(ctx, tw, filepath.Join(full, e.Name())); err != nil {
				return err
			}
		}
		return nil
	case info.Mode().IsRegular():
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(full)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	default:
		a.logger.Debug("skipping special file", "path", full, "mode", info.Mode().String())
		return nil
	}
}

// entryName is full relative to the root in slash form. Paths outside the root keep
// their leading "../" segments so they unpack to the same place.
func (a *Archiver) entryName(full string) (string, error) {
	rel, err := filepath.Rel(a.root, full)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", fmt.Errorf("cannot archive the workspace root itself")
	}
	return strings.TrimPrefix(rel, "./"), nil
}
