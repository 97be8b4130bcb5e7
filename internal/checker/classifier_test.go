package checker

import (
	"net/netip"
	"testing"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
)

func headersWithServer(value string) site.Headers {
	var h site.Headers
	h.Add("Server", value)
	return h
}

func TestMatchesServerHeader(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{value: "bigip", expected: true},
		{value: "BIGIP", expected: true},
		{value: "BigIP", expected: true},
		{value: "nginx/1.2.3", expected: false},
		{value: "F5 BigIP LTM", expected: true},
		{value: "big-ip", expected: false},
	}

	for _, tc := range testCases {
		if got := MatchesServerHeader(headersWithServer(tc.value)); got != tc.expected {
			t.Errorf("MatchesServerHeader(%q) = %v, want %v", tc.value, got, tc.expected)
		}
	}
}

func TestMatchesServerHeader_NameIsCaseInsensitive(t *testing.T) {
	var h site.Headers
	h.Add("SERVER", "BigIP")
	if !MatchesServerHeader(h) {
		t.Fatal("expected upper-case header name to match")
	}

	var none site.Headers
	none.Add("X-Powered-By", "BigIP")
	if MatchesServerHeader(none) {
		t.Fatal("only the server header is inspected")
	}
	if MatchesServerHeader(site.Headers{}) {
		t.Fatal("empty headers must not match")
	}
}

func TestClassifier_Precedence(t *testing.T) {
	table, _ := ParseSubnetTable([]string{"192.168.0.0/24"})
	classifier := &Classifier{Subnets: table}

	inside := []netip.Addr{netip.MustParseAddr("192.168.0.10")}
	outside := []netip.Addr{netip.MustParseAddr("198.51.100.10")}

	testCases := []struct {
		name     string
		addrs    []netip.Addr
		headers  site.Headers
		expected site.Verdict
	}{
		{name: "neither", addrs: outside, headers: headersWithServer("nginx"), expected: site.VerdictNotDetected},
		{name: "header only", addrs: outside, headers: headersWithServer("BigIP"), expected: site.VerdictBigIPByHeader},
		{name: "subnet only", addrs: inside, headers: headersWithServer("Apache"), expected: site.VerdictBigIPBySubnet},
		{name: "both prefer header", addrs: inside, headers: headersWithServer("BigIP"), expected: site.VerdictBigIPByHeader},
		{name: "no data", addrs: nil, headers: site.Headers{}, expected: site.VerdictNotDetected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.Classify(tc.addrs, tc.headers); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

// The subnet heuristic runs second; a miss there must not clear a header match.
func TestClassifier_SubnetMissKeepsHeaderVerdict(t *testing.T) {
	table, _ := ParseSubnetTable([]string{"10.0.0.0/8"})
	classifier := &Classifier{Subnets: table}

	got := classifier.Classify([]netip.Addr{netip.MustParseAddr("198.51.100.7")}, headersWithServer("BIGip"))
	if got != site.VerdictBigIPByHeader {
		t.Fatalf("expected header verdict to survive a subnet miss, got %s", got)
	}
}

func TestClassifier_NoSubnetTable(t *testing.T) {
	classifier := &Classifier{}
	got := classifier.Classify([]netip.Addr{netip.MustParseAddr("192.168.0.1")}, site.Headers{})
	if got != site.VerdictNotDetected {
		t.Fatalf("expected NotDetected without a subnet table, got %s", got)
	}
}

func TestClassifier_Idempotent(t *testing.T) {
	table, _ := ParseSubnetTable([]string{"192.168.0.0/24"})
	classifier := &Classifier{Subnets: table}
	addrs := []netip.Addr{netip.MustParseAddr("192.168.0.99"), netip.MustParseAddr("2001:db8::9")}
	headers := headersWithServer("cloudflare")

	first := classifier.Classify(addrs, headers)
	for i := 0; i < 5; i++ {
		if got := classifier.Classify(addrs, headers); got != first {
			t.Fatalf("run %d: expected %s, got %s", i, first, got)
		}
	}
}
