package checker

import (
	"net/netip"
	"strings"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
)

// MatchesServerHeader reports whether the Server header mentions BigIP.
func MatchesServerHeader(headers site.Headers) bool {
	server, ok := headers.Get("server")
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(server), consts.BigIPServerMarker)
}

// Classifier combines the header and subnet heuristics into one verdict.
type Classifier struct {
	Subnets *SubnetTable
}

// Classify evaluates both heuristics. A header match takes precedence over a
// subnet match, and a negative subnet result never clears a header match.
func (c *Classifier) Classify(addrs []netip.Addr, headers site.Headers) site.Verdict {
	byHeader := MatchesServerHeader(headers)
	bySubnet := c.Subnets.ContainsAny(addrs)

	switch {
	case byHeader:
		return site.VerdictBigIPByHeader
	case bySubnet:
		return site.VerdictBigIPBySubnet
	default:
		return site.VerdictNotDetected
	}
}
