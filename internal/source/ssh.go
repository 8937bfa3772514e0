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

package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	osuser "os/user"
	"strconv"
	"time"

	"github.com/melbahja/goph"
	"github.com/rotisserie/eris"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

const defaultSSHTimeout = 20 * time.Second

// SSHConfig configures ssh:// sources.
type SSHConfig struct {
	// Used if the source does not name a user. Defaults to the current user.
	User string
	// If set, password authentication is attempted after the SSH agent.
	Password string
	// Private key to authenticate with, in addition to the agent.
	KeyFile string

	// known_hosts file to verify host keys against. Defaults to
	// ~/.ssh/known_hosts.
	KnownHosts string
	// Skip host key verification entirely.
	Insecure bool

	// Prompt on the terminal for keyboard-interactive challenges.
	Interactive bool

	Timeout time.Duration
}

func openSSH(ctx context.Context, loc Location, cfg SSHConfig) (io.ReadCloser, error) {
	user := loc.User
	if user == "" {
		user = cfg.User
	}
	if user == "" {
		u, err := osuser.Current()
		if err != nil {
			return nil, eris.Wrap(err, "source: ssh user")
		}
		user = u.Username
	}

	host, port := loc.Host, uint(22)
	if h, p, err := net.SplitHostPort(loc.Host); err == nil {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return nil, eris.Wrapf(err, "source: invalid ssh port %q", p)
		}
		host, port = h, uint(n)
	}

	auth, _ := goph.UseAgent()
	if cfg.KeyFile != "" {
		key, err := goph.Key(cfg.KeyFile, "")
		if err != nil {
			return nil, eris.Wrap(err, "source: ssh key")
		}
		auth = append(auth, key...)
	}
	if cfg.Password != "" {
		auth = append(auth, goph.Password(cfg.Password)...)
	}
	if cfg.Interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		auth = append(auth, ssh.KeyboardInteractive(askTerminal))
	}

	var callback ssh.HostKeyCallback
	switch {
	case cfg.Insecure:
		callback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Explicitly requested.
	case cfg.KnownHosts != "":
		var err error
		if callback, err = goph.KnownHosts(cfg.KnownHosts); err != nil {
			return nil, eris.Wrap(err, "source: known_hosts")
		}
	default:
		var err error
		if callback, err = goph.DefaultKnownHosts(); err != nil {
			return nil, eris.Wrap(err, "source: known_hosts")
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultSSHTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	client, err := goph.NewConn(&goph.Config{
		User:     user,
		Addr:     host,
		Port:     port,
		Auth:     auth,
		Timeout:  timeout,
		Callback: callback,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "source: dialing ssh://%s@%s", user, loc.Host)
	}

	// The dial is bounded by timeout; past that point, cancellation tears
	// down the connection, which fails any transfer in progress.
	unwatch := closeOnCancel(ctx, client)

	sftp, err := client.NewSftp()
	if err != nil {
		_ = unwatch.Close()
		_ = client.Close()
		return nil, eris.Wrap(err, "source: starting sftp")
	}

	f, err := sftp.Open(loc.Path)
	if err != nil {
		_ = unwatch.Close()
		_ = sftp.Close()
		_ = client.Close()
		return nil, eris.Wrapf(err, "source: opening %s", loc)
	}

	return &closers{Reader: f, stack: []io.Closer{client, sftp, f, unwatch}}, nil
}

// askTerminal answers keyboard-interactive challenges on the terminal.
//
// Prompts go to stderr, since stdout is usually carrying a report.
func askTerminal(name, instruction string, questions []string, echos []bool) ([]string, error) {
	if name != "" || instruction != "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, instruction)
	}

	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Fprintf(os.Stderr, "%s ", q)
		if echos[i] {
			if _, err := fmt.Fscanln(os.Stdin, &answers[i]); err != nil {
				return nil, err
			}
			continue
		}

		answer, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		answers[i] = string(answer)
	}

	return answers, nil
}
