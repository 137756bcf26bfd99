package s3

import (
	"testing"
)

func TestClientKey_NoPrefix(t *testing.T) {
	c := &Client{}
	if got := c.Key("node-deps-abc/cache.tzst"); got != "node-deps-abc/cache.tzst" {
		t.Errorf("Key = %q", got)
	}
	if got := c.Key("/node-deps-"); got != "node-deps-" {
		t.Errorf("Key with leading slash = %q", got)
	}
}

func TestClientKey_WithPrefix(t *testing.T) {
	c := &Client{prefix: "team/linux"}
	tests := []struct {
		in, want string
	}{
		{"node-deps-abc/cache.tzst", "team/linux/node-deps-abc/cache.tzst"},
		{"node-deps-", "team/linux/node-deps-"},
		{"node-deps/", "team/linux/node-deps/"},
		{"", "team/linux/"},
	}
	for _, tt := range tests {
		if got := c.Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientRelative(t *testing.T) {
	c := &Client{prefix: "team/linux"}
	if got := c.relative("team/linux/k/cache.tzst"); got != "k/cache.tzst" {
		t.Errorf("relative = %q", got)
	}
	if got := (&Client{}).relative("k/cache.tzst"); got != "k/cache.tzst" {
		t.Errorf("relative without prefix = %q", got)
	}
}
