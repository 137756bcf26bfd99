package archive

import (
	"archive/tar"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Unpack extracts archivePath under the archiver root. Symlinks are created after
// every other entry, and nothing is written through a symlinked parent directory.
func (a *Archiver) Unpack(ctx context.Context, archivePath string, method CompressionMethod) error {
	var links []*tar.Header
	err := a.walkArchive(ctx, archivePath, method, func(tr *tar.Reader, hdr *tar.Header) error {
		if hdr.Typeflag == tar.TypeSymlink {
			links = append(links, hdr)
			return nil
		}
		return a.restoreEntry(tr, hdr)
	})
	if err != nil {
		return err
	}
	for _, hdr := range links {
		if err := a.restoreLink(hdr); err != nil {
			return err
		}
	}
	return nil
}

// List returns the entry names of archivePath in archive order.
func (a *Archiver) List(ctx context.Context, archivePath string, method CompressionMethod) ([]string, error) {
	var names []string
	err := a.walkArchive(ctx, archivePath, method, func(_ *tar.Reader, hdr *tar.Header) error {
		names = append(names, hdr.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (a *Archiver) walkArchive(ctx context.Context, archivePath string, method CompressionMethod, fn func(*tar.Reader, *tar.Header) error) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	r, err := newDecompressReader(bufio.NewReaderSize(f, 1<<20), method)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", archivePath, err)
	}
	defer r.Close()
	tr := tar.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar %s: %w", archivePath, err)
		}
		if err := fn(tr, hdr); err != nil {
			return err
		}
	}
}

func (a *Archiver) restoreEntry(tr *tar.Reader, hdr *tar.Header) error {
	dstPath, anchor, ok := a.destination(hdr.Name)
	if !ok {
		a.logger.Debug("skipping tar entry", "name", hdr.Name)
		return nil
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := a.makeParents(anchor, dstPath); err != nil {
			return err
		}
		if err := refuseSymlink(dstPath); err != nil {
			return err
		}
		return os.MkdirAll(dstPath, os.FileMode(hdr.Mode).Perm()|0o700)
	case tar.TypeReg:
		if err := a.makeParents(anchor, dstPath); err != nil {
			return err
		}
		if err := removeSymlink(dstPath); err != nil {
			return err
		}
		f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tr); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		if !hdr.ModTime.IsZero() {
			_ = os.Chtimes(dstPath, hdr.ModTime, hdr.ModTime)
		}
		return nil
	default:
		a.logger.Debug("skipping tar entry", "name", hdr.Name, "type", string(hdr.Typeflag))
		return nil
	}
}

func (a *Archiver) restoreLink(hdr *tar.Header) error {
	dstPath, anchor, ok := a.destination(hdr.Name)
	if !ok {
		a.logger.Debug("skipping tar entry", "name", hdr.Name)
		return nil
	}
	if err := a.makeParents(anchor, dstPath); err != nil {
		return err
	}
	if err := os.Remove(dstPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(hdr.Linkname, dstPath)
}

// destination maps an entry name to its path on disk and to the directory the name
// climbs to with its leading ".." segments (the root when there are none).
func (a *Archiver) destination(name string) (dst, anchor string, ok bool) {
	name = cleanTarName(name, rootDepth(a.root))
	if name == "" {
		return "", "", false
	}
	anchor = a.root
	rest := name
	for rest == ".." || strings.HasPrefix(rest, "../") {
		anchor = filepath.Dir(anchor)
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, ".."), "/")
	}
	return filepath.Join(anchor, filepath.FromSlash(rest)), anchor, true
}

// makeParents creates the directories between anchor and dst, failing when one of
// them is a symlink.
func (a *Archiver) makeParents(anchor, dst string) error {
	rel, err := filepath.Rel(anchor, filepath.Dir(dst))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(anchor, 0o755); err != nil {
		return err
	}
	if rel == "." {
		return nil
	}
	dir := anchor
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		switch {
		case os.IsNotExist(err):
			if err := os.Mkdir(dir, 0o755); err != nil {
				return err
			}
		case err != nil:
			return err
		case info.Mode()&os.ModeSymlink != 0:
			return fmt.Errorf("refusing to extract %s through symlink %s", dst, dir)
		case !info.IsDir():
			return fmt.Errorf("extract %s: %s is not a directory", dst, dir)
		}
	}
	return nil
}

func refuseSymlink(path string) error {
	info, err := os.Lstat(path)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to extract through symlink %s", path)
	}
	return nil
}

// removeSymlink deletes path when it is a symlink so a file write replaces the link
// instead of following it.
func removeSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return os.Remove(path)
}

// rootDepth is the number of path components in root, the most ".." segments a packed
// entry name can start with.
func rootDepth(root string) int {
	trimmed := strings.Trim(filepath.ToSlash(filepath.Clean(root)), "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// cleanTarName rejects absolute names and names climbing more than maxUp directories
// above the root. Leading ".." segments within that bound are kept: they come from
// cached paths that live outside the workspace root.
func cleanTarName(name string, maxUp int) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") || strings.ContainsRune(name, 0) {
		return ""
	}
	name = path.Clean(name)
	if name == "." || name == ".." {
		return ""
	}
	ups, rest := 0, name
	for rest == ".." || strings.HasPrefix(rest, "../") {
		ups++
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, ".."), "/")
	}
	if rest == "" || ups > maxUp {
		return ""
	}
	return name
}
