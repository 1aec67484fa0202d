package hostsfile

import (
	"commitblock/internal/models"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

const (
	commentPrefix = "#"
	ipv4Prefix    = "127.0.0.1\t"
	ipv6Prefix    = "::1\t\t"
)

// hostLines returns the IPv4 and IPv6 loopback redirects for host.
func hostLines(host string, released bool) []string {
	prefix := ""
	if released {
		prefix = commentPrefix
	}
	return []string{
		prefix + ipv4Prefix + host,
		prefix + ipv6Prefix + host,
	}
}

func isReleased(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commentPrefix)
}

// hostFromLine recovers the host name of a redirect line, engaged or released.
// Lines with an unknown prefix yield their last field.
func hostFromLine(line string) string {
	rest := strings.TrimLeft(strings.TrimSpace(line), commentPrefix)
	for _, prefix := range []string{ipv4Prefix, ipv6Prefix} {
		if host, ok := strings.CutPrefix(rest, prefix); ok {
			return strings.TrimSpace(host)
		}
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func engageLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	return line[:indent] + strings.TrimLeft(line[indent:], commentPrefix)
}

func releaseLine(line string) string {
	if strings.TrimSpace(line) == "" || isReleased(line) {
		return line
	}
	return commentPrefix + line
}

func blockMode(inside []string) models.BlockMode {
	engaged, released := 0, 0
	for _, line := range inside {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isReleased(line) {
			released++
		} else {
			engaged++
		}
	}
	switch {
	case engaged == 0 && released == 0:
		return models.ModeAbsent
	case released == 0:
		return models.ModeEngaged
	case engaged == 0:
		return models.ModeReleased
	default:
		return models.ModeMixed
	}
}

// CleanHosts trims host names and drops empty ones.
func CleanHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

// NormalizeHost converts a user-entered host name to lower-case ASCII.
func NormalizeHost(input string) (string, error) {
	host, err := idna.Lookup.ToASCII(strings.ToLower(strings.TrimSpace(input)))
	if err != nil {
		return "", &HostError{Host: input, Cause: err}
	}
	if err := validateHost(host); err != nil {
		return "", err
	}
	return host, nil
}

// ValidateHosts cleans hosts and rejects any entry that would not stay a
// single host field on one line.
func ValidateHosts(hosts []string) ([]string, error) {
	cleaned := CleanHosts(hosts)
	for _, h := range cleaned {
		if err := validateHost(h); err != nil {
			return nil, err
		}
	}
	return cleaned, nil
}

func validateHost(host string) error {
	if host == "" || strings.Contains(host, commentPrefix) {
		return &HostError{Host: host}
	}
	for _, r := range host {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return &HostError{Host: host}
		}
	}
	return nil
}
