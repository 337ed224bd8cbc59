package remote

import (
	"fmt"
	"strings"
)

// ParseTarget splits a "user@host" destination. The host may be a bracketed
// IPv6 address; ports belong in Config.Port, not in the target.
func ParseTarget(raw string) (user, host string, err error) {
	if strings.TrimSpace(raw) == "" {
		return "", "", fmt.Errorf("remote target is required")
	}
	if strings.Count(raw, "@") != 1 {
		return "", "", fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}

	user, host, _ = strings.Cut(raw, "@")
	if user == "" || host == "" {
		return "", "", fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}
	if strings.HasPrefix(user, "-") || strings.HasPrefix(host, "-") {
		return "", "", fmt.Errorf("invalid remote target %q", raw)
	}
	if strings.ContainsAny(raw, " \t\n\r/\\") {
		return "", "", fmt.Errorf("invalid remote target %q: unexpected characters", raw)
	}

	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		switch {
		case end == -1:
			return "", "", fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		case end == 1:
			return "", "", fmt.Errorf("invalid remote target %q: empty host", raw)
		case end != len(host)-1:
			if rest := host[end+1:]; strings.HasPrefix(rest, ":") && isAllDigits(rest[1:]) {
				return "", "", fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
			}
			return "", "", fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
		return user, host[1:end], nil
	}
	if strings.Contains(host, "]") {
		return "", "", fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
	}
	if h, port, ok := strings.Cut(host, ":"); ok && !strings.Contains(port, ":") && isAllDigits(port) && h != "" {
		return "", "", fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
	}
	return user, host, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
