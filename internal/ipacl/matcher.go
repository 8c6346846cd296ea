// Package ipacl decides whether a client address is allowed to check in
// to an activity, based on the activity's configured network allow-lists.
package ipacl

import (
	"net"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
)

// Network is an ordered allow-list entry: a display name plus a
// newline-delimited list of literal IP addresses and CIDR blocks.
type Network struct {
	Name      string
	Addresses string
}

// Matcher evaluates candidate addresses against network allow-lists. It is
// a pure decision function; the caller supplies the ordered list of active
// networks on every call.
type Matcher struct {
	logger zerolog.Logger
}

// NewMatcher constructs a matcher.
func NewMatcher(logger zerolog.Logger) Matcher {
	return Matcher{logger: logger.With().Str("component", "ipacl").Logger()}
}

// Allowed reports whether candidate may check in. When restrict is false
// every address is allowed. When restrict is true and no active network is
// configured the answer is a lockout, not open access. Unparsable
// candidates are denied; malformed allow-list lines are skipped so one bad
// entry never breaks an otherwise valid network.
func (m Matcher) Allowed(candidate string, restrict bool, networks []Network) bool {
	if !restrict {
		return true
	}

	if len(networks) == 0 {
		return false
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(candidate))
	if err != nil {
		m.logger.Warn().Str("candidate", candidate).Msg("unparsable client address denied")
		return false
	}
	addr = addr.Unmap()

	for _, network := range networks {
		if m.networkContains(network, addr) {
			return true
		}
	}

	return false
}

// NetworkName returns the display name of the first network whose entries
// match the stored address, else the raw address verbatim. It is a
// best-effort convenience for audit displays and never fails.
func (m Matcher) NetworkName(candidate string, networks []Network) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(candidate))
	if err != nil {
		return candidate
	}
	addr = addr.Unmap()

	for _, network := range networks {
		if m.networkContains(network, addr) {
			return network.Name
		}
	}

	return candidate
}

func (m Matcher) networkContains(network Network, addr netip.Addr) bool {
	for _, line := range strings.Split(network.Addresses, "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				m.logger.Warn().Str("network", network.Name).Str("entry", entry).Msg("skipping malformed CIDR entry")
				continue
			}
			if prefix.Contains(addr) {
				return true
			}
			continue
		}

		entryAddr, err := netip.ParseAddr(entry)
		if err != nil {
			m.logger.Warn().Str("network", network.Name).Str("entry", entry).Msg("skipping malformed address entry")
			continue
		}
		if entryAddr.Unmap() == addr {
			return true
		}
	}

	return false
}

// ClientIP resolves the caller's address: the first entry of a
// forwarded-for header when present, otherwise the direct peer address.
// Trusting the first hop assumes a reverse proxy controls the header.
func ClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	peer := strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(peer); err == nil {
		return host
	}

	return peer
}
