// Package checker holds the per-host building blocks of a BigIP scan.
//
// Architecture overview:
//
//   - Resolver turns a hostname into addresses. SystemResolver uses the
//     platform resolver; NameserverResolver queries explicit servers with
//     miekg/dns.
//   - Prober issues one plain-HTTP GET with redirects disabled and returns
//     the response headers.
//   - SubnetTable is the read-only set of IPv4 networks loaded once per run,
//     backed by a netipx.IPSet.
//   - Classifier applies the Server header heuristic and the subnet heuristic
//     and composes them into a site.Verdict.
//   - Runner is the bounded worker pool that drives indexed tasks; result
//     placement by index keeps output in input order.
//
// The application layer (internal/application/scan) wires these together;
// cmd/ only builds them from flags and config.
package checker
