package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePaths_Globs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "pkg", "a", "go.sum"))
	touch(t, filepath.Join(root, "pkg", "b", "go.sum"))
	touch(t, filepath.Join(root, "pkg", "b", "vendor", "go.sum"))
	touch(t, filepath.Join(root, "dist", "app"))

	w, err := New(root, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := w.ResolvePaths([]string{"pkg/**/go.sum", "!pkg/b/vendor/**", "missing-dir", ""})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "pkg", "a", "go.sum"),
		filepath.Join(root, "pkg", "b", "go.sum"),
	}
	if len(got) != len(want) {
		t.Fatalf("ResolvePaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolvePaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolvePaths_NoMatches(t *testing.T) {
	w, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := w.ResolvePaths([]string{"does/not/exist", "*.nothing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("ResolvePaths = %v, want empty", got)
	}
}

func TestResolvePaths_DropsNestedAndDuplicates(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "cache", "inner", "f"))
	touch(t, filepath.Join(root, "cache-extra", "g"))
	w, err := New(root, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := w.ResolvePaths([]string{"cache", "cache-extra", "cache/inner", filepath.Join(root, "cache")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "cache"), filepath.Join(root, "cache-extra")}
	if len(got) != len(want) {
		t.Fatalf("ResolvePaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolvePaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDropNested(t *testing.T) {
	sep := string(filepath.Separator)
	in := []string{sep + "w" + sep + "deps", sep + "w" + sep + "deps-extra", sep + "w" + sep + "deps" + sep + "sub", sep + "w" + sep + "deps-extra" + sep + "x"}
	got := dropNested(in)
	if len(got) != 2 || got[0] != sep+"w"+sep+"deps" || got[1] != sep+"w"+sep+"deps-extra" {
		t.Errorf("dropNested = %v", got)
	}
}

func TestResolvePaths_RootWithGlobMetacharacters(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build[1]")
	touch(t, filepath.Join(root, "deps", "a.txt"))
	touch(t, filepath.Join(root, "logs", "x.log"))
	w, err := New(root, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := w.ResolvePaths([]string{"deps", "logs/*.log"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "deps"), filepath.Join(root, "logs", "x.log")}
	if len(got) != len(want) {
		t.Fatalf("ResolvePaths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolvePaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEscapeMeta(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/plain/dir", "/plain/dir"},
		{"/w/build[1]", `/w/build\[1\]`},
		{"/w/{a}*?", `/w/\{a\}\*\?`},
	}
	for _, tt := range tests {
		if got := escapeMeta(tt.in); got != tt.want {
			t.Errorf("escapeMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePaths_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	touch(t, filepath.Join(home, ".npm", "index"))
	w := &FS{root: t.TempDir(), tempRoot: os.TempDir(), home: home}
	got, err := w.ResolvePaths([]string{"~/.npm"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != filepath.Join(home, ".npm") {
		t.Errorf("ResolvePaths(~/.npm) = %v", got)
	}
}

func TestTempDirLifecycle(t *testing.T) {
	tempRoot := filepath.Join(t.TempDir(), "runner-temp")
	w, err := New(t.TempDir(), tempRoot)
	if err != nil {
		t.Fatal(err)
	}
	dir, err := w.CreateTempDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dir, tempRoot) {
		t.Errorf("temp dir %q not under %q", dir, tempRoot)
	}
	p := filepath.Join(dir, "cache.tzst")
	touch(t, p)
	size, err := w.FileSize(p)
	if err != nil || size != 1 {
		t.Errorf("FileSize = %d, %v", size, err)
	}
	if err := w.Remove(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("temp dir should be gone, stat err = %v", err)
	}
	if err := w.Remove(dir); err != nil {
		t.Errorf("second Remove should be a no-op: %v", err)
	}
	if err := w.Remove(""); err != nil {
		t.Errorf("Remove(\"\") = %v", err)
	}
}
