package s3

import (
	"path"
	"strings"
)

// Key maps a cache object name to the full bucket key under the client prefix.
// Unlike path.Join it keeps a trailing separator so prefix listings stay exact.
func (c *Client) Key(name string) string {
	name = strings.TrimLeft(name, "/")
	if c.prefix == "" {
		return name
	}
	if name == "" {
		return c.prefix + "/"
	}
	joined := path.Join(c.prefix, name)
	if strings.HasSuffix(name, "/") {
		joined += "/"
	}
	return joined
}

// relative strips the client prefix from a listed bucket key.
func (c *Client) relative(key string) string {
	if c.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, c.prefix+"/")
}
