// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source opens profiles from wherever they were collected.
//
// A source is named by a string, which is one of:
//
//   - "-", for standard input.
//   - A local path, optionally with a file:// prefix.
//   - ssh://[user@]host[:port]/path, read over SFTP.
//   - s3://bucket/key, read from an S3-compatible object store.
package source

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Config holds settings for remote sources.
type Config struct {
	// Read for the "-" source. Defaults to os.Stdin.
	Stdin io.Reader

	SSH SSHConfig
	S3  S3Config

	Logger *zap.Logger
}

// Location is a parsed source name.
type Location struct {
	Scheme string // "", "-", "ssh", or "s3".
	User   string
	Host   string // Includes the port, if any.
	Path   string // For s3, the object key.
}

// Parse parses a source name.
func Parse(name string) (Location, error) {
	if name == "" {
		return Location{}, errors.New("source: empty source name")
	}
	if name == "-" {
		return Location{Scheme: "-"}, nil
	}
	if path, ok := strings.CutPrefix(name, "file://"); ok {
		return Location{Path: path}, nil
	}
	if !strings.Contains(name, "://") {
		return Location{Path: name}, nil
	}

	u, err := url.Parse(name)
	if err != nil {
		return Location{}, eris.Wrapf(err, "source: invalid source %q", name)
	}

	loc := Location{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	if u.User != nil {
		loc.User = u.User.Username()
	}

	switch loc.Scheme {
	case "ssh":
		if loc.Host == "" || loc.Path == "" {
			return Location{}, eris.Errorf("source: ssh source %q needs a host and a path", name)
		}
	case "s3":
		loc.Path = strings.TrimPrefix(loc.Path, "/")
		if loc.Host == "" || loc.Path == "" {
			return Location{}, eris.Errorf("source: s3 source %q needs a bucket and a key", name)
		}
	default:
		return Location{}, eris.Errorf("source: unsupported scheme %q", loc.Scheme)
	}
	return loc, nil
}

// String implements [fmt.Stringer].
func (l Location) String() string {
	switch l.Scheme {
	case "":
		return l.Path
	case "-":
		return "-"
	case "s3":
		return "s3://" + l.Host + "/" + l.Path
	default:
		u := url.URL{Scheme: l.Scheme, Host: l.Host, Path: l.Path}
		if l.User != "" {
			u.User = url.User(l.User)
		}
		return u.String()
	}
}

// Open opens the named source for reading.
//
// Errors that mean the source does not exist match [os.ErrNotExist].
func Open(ctx context.Context, name string, cfg Config) (io.ReadCloser, error) {
	loc, err := Parse(name)
	if err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.Logger.Debug("opening profile", zap.Stringer("source", loc))

	switch loc.Scheme {
	case "-":
		stdin := cfg.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.NopCloser(stdin), nil
	case "ssh":
		return openSSH(ctx, loc, cfg.SSH)
	case "s3":
		return openS3(ctx, loc, cfg.S3)
	default:
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, eris.Wrap(err, "source: open")
		}
		return f, nil
	}
}

// closers is an io.ReadCloser that closes a stack of resources.
type closers struct {
	io.Reader
	stack []io.Closer
}

func (c *closers) Close() error {
	var errs []error
	for i := len(c.stack) - 1; i >= 0; i-- {
		errs = append(errs, c.stack[i].Close())
	}
	return errors.Join(errs...)
}

// closeOnCancel closes c once ctx is done. Closing the result unregisters
// this without closing c.
func closeOnCancel(ctx context.Context, c io.Closer) io.Closer {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	return closerFunc(func() error {
		stop()
		return nil
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
