package gitops

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const defaultSSHUser = "git"

// AgentAuth resolves the authentication method for a remote URL. SSH-style
// URLs get ssh-agent credentials for the username embedded in the URL
// (defaulting to "git"); every other scheme returns nil so the transport's
// own defaults apply.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func AgentAuth(remoteURL string) (transport.AuthMethod, error) {
	user, ok := sshUserFromURL(remoteURL)
	if !ok {
		return nil, nil
	}

	auth, err := ssh.NewSSHAgentAuth(user)
	if err != nil {
		return nil, WrapError(err, "ssh agent auth")
	}
	return auth, nil
}

func sshUserFromURL(remoteURL string) (string, bool) {
	// scp-like syntax: user@host:path
	if !strings.Contains(remoteURL, "://") {
		head, _, found := strings.Cut(remoteURL, ":")
		if !found {
			return "", false
		}
		if user, _, hasUser := strings.Cut(head, "@"); hasUser && user != "" {
			return user, true
		}
		return defaultSSHUser, true
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return "", false
	}

	switch parsed.Scheme {
	case "ssh", "git", "git+ssh":
	default:
		return "", false
	}

	if parsed.User != nil && parsed.User.Username() != "" {
		return parsed.User.Username(), true
	}
	return defaultSSHUser, true
}
