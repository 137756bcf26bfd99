package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	DefaultEndpoint = "s3.amazonaws.com"
	DefaultPort     = 9000
)

const (
	EnvEndpoint     = "ALT_GHA_CACHE_ENDPOINT"
	EnvPort         = "ALT_GHA_CACHE_PORT"
	EnvAccessKey    = "ALT_GHA_CACHE_ACCESS_KEY"
	EnvSecretKey    = "ALT_GHA_CACHE_SECRET_KEY"
	EnvSessionToken = "ALT_GHA_CACHE_SESSION_TOKEN"
	EnvRegion       = "ALT_GHA_CACHE_REGION"
	EnvUseSSL       = "ALT_GHA_CACHE_USE_SSL"
	EnvBucket       = "ALT_GHA_CACHE_BUCKET"

	EnvAWSAccessKey    = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey    = "AWS_SECRET_ACCESS_KEY"
	EnvAWSSessionToken = "AWS_SESSION_TOKEN"
	EnvAWSRegion       = "AWS_REGION"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// StoreOptions are fully resolved connection parameters.
type StoreOptions struct {
	Endpoint           string
	Port               int
	AccessKey          string
	SecretKey          string
	SessionToken       string
	Region             string
	Bucket             string
	Prefix             string
	UseSSL             bool
	InsecureSkipVerify bool
	PartSizeMB         int
}

// HostPort returns host:port for the store. A port already present in Endpoint wins.
func (o StoreOptions) HostPort() string {
	if _, _, err := net.SplitHostPort(o.Endpoint); err == nil {
		return o.Endpoint
	}
	return net.JoinHostPort(o.Endpoint, strconv.Itoa(o.Port))
}

// URL returns the endpoint as an http(s) URL for SDKs that want one.
func (o StoreOptions) URL() string {
	scheme := "https"
	if !o.UseSSL {
		scheme = "http"
	}
	return scheme + "://" + o.HostPort()
}

// ResolveStore layers explicit options over the environment over defaults.
// Empty environment values count as unset.
func ResolveStore(explicit *StoreConfig, lookup LookupFunc) (StoreOptions, error) {
	if explicit == nil {
		explicit = &StoreConfig{}
	}
	env := func(keys ...string) string {
		if lookup == nil {
			return ""
		}
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v
			}
		}
		return ""
	}
	pick := func(v string, keys ...string) string {
		if v != "" {
			return v
		}
		return env(keys...)
	}

	opts := StoreOptions{
		Endpoint:           pick(explicit.Endpoint, EnvEndpoint),
		AccessKey:          pick(explicit.AccessKey, EnvAccessKey, EnvAWSAccessKey),
		SecretKey:          pick(explicit.SecretKey, EnvSecretKey, EnvAWSSecretKey),
		SessionToken:       pick(explicit.SessionToken, EnvSessionToken, EnvAWSSessionToken),
		Region:             pick(explicit.Region, EnvRegion, EnvAWSRegion),
		Bucket:             pick(explicit.Bucket, EnvBucket),
		Prefix:             NormalizePrefix(explicit.Prefix),
		InsecureSkipVerify: explicit.InsecureSkipVerify,
		PartSizeMB:         explicit.PartSizeMB,
	}
	var schemeTLS *bool
	opts.Endpoint, schemeTLS = stripScheme(opts.Endpoint)
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.PartSizeMB <= 0 {
		opts.PartSizeMB = DefaultPartSizeMB
	}

	opts.Port = explicit.Port
	if opts.Port == 0 {
		if raw := env(EnvPort); raw != "" {
			p, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || p <= 0 || p > 65535 {
				return StoreOptions{}, fmt.Errorf("%s: invalid port %q", EnvPort, raw)
			}
			opts.Port = p
		} else {
			opts.Port = DefaultPort
		}
	}

	opts.UseSSL = true
	if explicit.UseSSL != nil {
		opts.UseSSL = *explicit.UseSSL
	} else if b, ok := parseYesNo(env(EnvUseSSL)); ok {
		opts.UseSSL = b
	} else if schemeTLS != nil {
		opts.UseSSL = *schemeTLS
	}
	return opts, nil
}

// stripScheme removes an http:// or https:// prefix and reports whether it asked for
// TLS. The result is nil when endpoint carries no scheme.
func stripScheme(endpoint string) (string, *bool) {
	endpoint = strings.TrimSpace(endpoint)
	var tls *bool
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(endpoint), scheme) {
			endpoint = endpoint[len(scheme):]
			secure := scheme == "https://"
			tls = &secure
			break
		}
	}
	return strings.TrimRight(endpoint, "/"), tls
}

// parseYesNo accepts the usual boolean spellings; anything else is reported as unset.
func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "t", "1", "on":
		return true, true
	case "n", "no", "false", "f", "0", "off":
		return false, true
	default:
		return false, false
	}
}
