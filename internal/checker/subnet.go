package checker

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"

	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// SubnetParseError describes one rejected line of subnet input.
type SubnetParseError struct {
	Line int
	Text string
	Err  error
}

func (e *SubnetParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *SubnetParseError) Unwrap() []error {
	return []error{sharedErrors.ErrSubnetParse, e.Err}
}

// SubnetTable is an immutable set of IPv4 networks. It is safe for concurrent reads.
type SubnetTable struct {
	prefixes []netip.Prefix
	set      *netipx.IPSet
}

// ParseSubnet parses one IPv4 CIDR and masks it to its network address.
func ParseSubnet(text string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(text))
	if err != nil {
		return netip.Prefix{}, err
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%s is not an IPv4 network", prefix)
	}
	return prefix.Masked(), nil
}

// NewSubnetTable builds a table from already-parsed IPv4 prefixes.
func NewSubnetTable(prefixes []netip.Prefix) (*SubnetTable, error) {
	var builder netipx.IPSetBuilder
	kept := make([]netip.Prefix, 0, len(prefixes))
	for _, p := range prefixes {
		if !p.IsValid() || !p.Addr().Is4() {
			return nil, fmt.Errorf("%w: %s is not an IPv4 network", sharedErrors.ErrSubnetParse, p)
		}
		p = p.Masked()
		builder.AddPrefix(p)
		kept = append(kept, p)
	}

	set, err := builder.IPSet()
	if err != nil {
		return nil, fmt.Errorf("build subnet set: %w", err)
	}
	return &SubnetTable{prefixes: kept, set: set}, nil
}

// ParseSubnetTable parses CIDR lines. Blank lines are ignored; malformed lines
// are returned as errors and left out of the table.
func ParseSubnetTable(lines []string) (*SubnetTable, []*SubnetParseError) {
	var (
		prefixes []netip.Prefix
		rejected []*SubnetParseError
	)
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		prefix, err := ParseSubnet(text)
		if err != nil {
			rejected = append(rejected, &SubnetParseError{Line: i + 1, Text: text, Err: err})
			continue
		}
		prefixes = append(prefixes, prefix)
	}

	// every prefix here already passed ParseSubnet
	table, _ := NewSubnetTable(prefixes)
	return table, rejected
}

// Len returns the number of networks loaded.
func (t *SubnetTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.prefixes)
}

// Prefixes returns the networks in input order.
func (t *SubnetTable) Prefixes() []netip.Prefix {
	if t == nil {
		return nil
	}
	out := make([]netip.Prefix, len(t.prefixes))
	copy(out, t.prefixes)
	return out
}

// Contains reports whether addr is an IPv4 address inside any network.
func (t *SubnetTable) Contains(addr netip.Addr) bool {
	if t == nil || t.set == nil || !addr.Is4() {
		return false
	}
	return t.set.Contains(addr)
}

// ContainsAny reports whether at least one address is inside the table.
func (t *SubnetTable) ContainsAny(addrs []netip.Addr) bool {
	if t.Len() == 0 {
		return false
	}
	for _, addr := range addrs {
		if t.Contains(addr) {
			return true
		}
	}
	return false
}
