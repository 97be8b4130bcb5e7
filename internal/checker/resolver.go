package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"

	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// Resolver resolves a hostname to its addresses in resolver-provided order.
type Resolver interface {
	Resolve(ctx context.Context, host string) ([]netip.Addr, error)
}

// SystemResolver resolves through net.Resolver, honouring the system
// configuration and the hosts file.
type SystemResolver struct {
	Resolver *net.Resolver // nil means net.DefaultResolver
}

// Resolve looks up A and AAAA records for host.
func (s *SystemResolver) Resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	resolver := s.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	addrs, err := resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", sharedErrors.ErrResolutionFailed, host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s: no addresses", sharedErrors.ErrResolutionFailed, host)
	}

	out := make([]netip.Addr, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.Unmap())
	}
	return out, nil
}

// NameserverResolver queries explicit nameservers directly, bypassing the
// system resolver configuration.
type NameserverResolver struct {
	Nameservers []string // host:port, tried in order
	Client      *dns.Client
}

// NewNameserverResolver normalizes nameserver addresses and builds a UDP client.
func NewNameserverResolver(nameservers []string, timeout time.Duration) (*NameserverResolver, error) {
	normalized := make([]string, 0, len(nameservers))
	for _, ns := range nameservers {
		ns = strings.TrimSpace(ns)
		if ns == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(ns); err != nil {
			ns = net.JoinHostPort(strings.Trim(ns, "[]"), consts.DefaultDNSPort)
		}
		normalized = append(normalized, ns)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no nameservers given", sharedErrors.ErrInvalidConfig)
	}

	return &NameserverResolver{
		Nameservers: normalized,
		Client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}, nil
}

var errNXDomain = errors.New("no such host")

// Resolve asks for A records then AAAA records and returns the answers in
// that order. Failure of one query type, NXDOMAIN on AAAA included, is
// tolerated if the other answers.
func (r *NameserverResolver) Resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	fqdn := dns.Fqdn(host)

	var (
		addrs   []netip.Addr
		lastErr error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		answers, err := r.query(ctx, fqdn, qtype)
		if err != nil {
			// NXDOMAIN before any answer means the name does not exist
			if errors.Is(err, errNXDomain) && len(addrs) == 0 {
				return nil, fmt.Errorf("%w: %s: %w", sharedErrors.ErrResolutionFailed, host, err)
			}
			lastErr = err
			continue
		}
		addrs = append(addrs, answers...)
	}

	if len(addrs) == 0 {
		if lastErr == nil {
			lastErr = errors.New("no addresses")
		}
		return nil, fmt.Errorf("%w: %s: %w", sharedErrors.ErrResolutionFailed, host, lastErr)
	}
	return addrs, nil
}

func (r *NameserverResolver) query(ctx context.Context, fqdn string, qtype uint16) ([]netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = true

	resp, err := r.exchange(ctx, msg)
	if err != nil {
		return nil, err
	}

	switch resp.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, errNXDomain
	default:
		return nil, fmt.Errorf("%s query answered %s", dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}

	addrs := make([]netip.Addr, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		var ip net.IP
		switch rec := rr.(type) {
		case *dns.A:
			ip = rec.A
		case *dns.AAAA:
			ip = rec.AAAA
		default:
			continue
		}
		if addr, ok := netip.AddrFromSlice(ip); ok {
			addrs = append(addrs, addr.Unmap())
		}
	}
	return addrs, nil
}

func (r *NameserverResolver) exchange(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
	client := r.Client
	if client == nil {
		client = &dns.Client{Net: "udp"}
	}

	var lastErr error
	for _, ns := range r.Nameservers {
		resp, _, err := client.ExchangeContext(ctx, msg, ns)
		if err == nil && resp != nil {
			return resp, nil
		}
		if err == nil {
			err = errors.New("empty response")
		}
		lastErr = fmt.Errorf("nameserver %s: %w", ns, err)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no nameservers configured")
	}
	return nil, lastErr
}
