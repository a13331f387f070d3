// Package config defines the server's configuration surface: the compiled
// defaults from spec.md §6 and an optional TOML file overlaid on top,
// mirroring how caddyconfig layers a loaded document over module defaults.
// Defaults are grounded on original_source/include/utils.h and
// original_source/include/cgi.h's compile-time constants.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the engine's full runtime configuration. Every field has a
// sensible default from Default(); a TOML file only needs to name the
// fields it wants to override.
type Config struct {
	// Webroot is the document root static files and CGI scripts resolve
	// under.
	Webroot string `toml:"webroot"`

	// ListenAddress and ListenPort name the accept socket.
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`

	// ListenBacklog is the configured pending-connection backlog. It is not
	// applied: cmd/zhttpd listens with net.Listen, which takes no backlog
	// argument, so the kernel default is used.
	ListenBacklog int `toml:"listen_backlog"`

	// MaxConnections bounds concurrently-served connections (spec.md §5's
	// external supervisor capacity, promoted to an in-process semaphore
	// per SPEC_FULL.md §5).
	MaxConnections int `toml:"max_connections"`

	// RequestTimeout gates time-to-first-complete-request.
	RequestTimeout        time.Duration `toml:"-"`
	RequestTimeoutSeconds int           `toml:"request_timeout_seconds"`

	// KeepAliveTimeout gates idle time between pipelined requests.
	KeepAliveTimeout        time.Duration `toml:"-"`
	KeepAliveTimeoutSeconds int           `toml:"keepalive_timeout_seconds"`

	// CGIReadTimeout gates total CGI output read time.
	CGIReadTimeout        time.Duration `toml:"-"`
	CGIReadTimeoutSeconds int           `toml:"cgi_read_timeout_seconds"`

	// CGIInterpreterPath is the interpreter invoked for CGI-dispatched
	// requests (the source hardcodes php-cgi at the call site).
	CGIInterpreterPath string `toml:"cgi_interpreter_path"`

	// CGIExtension is the file extension that triggers CGI dispatch.
	// Matching is case-insensitive (see DESIGN.md's Open Question #2).
	CGIExtension string `toml:"cgi_extension"`

	// ServerIdent is the value sent in every response's Server header.
	ServerIdent string `toml:"server_ident"`

	// LogFilePath is where structured access/application logs are
	// written; empty means stderr only.
	LogFilePath string `toml:"log_file_path"`

	// LogMaxSizeMB and LogMaxBackups bound the rotated log file set (see
	// internal/zlog, backed by timberjack).
	LogMaxSizeMB  int `toml:"log_max_size_mb"`
	LogMaxBackups int `toml:"log_max_backups"`
}

// Default returns the compiled-in configuration, matching the constants in
// original_source/include/utils.h (SERVER_IDENT, LISTEN_PORT,
// REQUEST_TIMEOUT_SECONDS, REQUEST_KEEPALIVE_TIMEOUT_SECONDS, WEBROOT).
// MaxConnections has no counterpart in the original source (it spawns one
// process per connection with no runtime cap); its default is this
// implementation's own choice.
func Default() Config {
	c := Config{
		Webroot:                 "/var/www-zhttpd",
		ListenAddress:           "0.0.0.0",
		ListenPort:              8080,
		ListenBacklog:           5,
		MaxConnections:          256,
		RequestTimeoutSeconds:   60,
		KeepAliveTimeoutSeconds: 10,
		CGIReadTimeoutSeconds:   30,
		CGIInterpreterPath:      "/usr/bin/php-cgi",
		CGIExtension:            "php",
		ServerIdent:             "zhttpd/0.1-alpha",
		LogFilePath:             "",
		LogMaxSizeMB:            100,
		LogMaxBackups:           5,
	}
	c.resolveDurations()
	return c
}

// Load overlays path, a TOML document, onto the compiled defaults.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
	}
	c.resolveDurations()
	return c, nil
}

// resolveDurations converts the TOML-facing *Seconds integer fields into
// their time.Duration counterparts, which is what the rest of the engine
// actually consumes.
func (c *Config) resolveDurations() {
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second
	c.KeepAliveTimeout = time.Duration(c.KeepAliveTimeoutSeconds) * time.Second
	c.CGIReadTimeout = time.Duration(c.CGIReadTimeoutSeconds) * time.Second
}
