package json

import (
	"context"
	"encoding/json"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

func classifiedRecord(t *testing.T, host string, addrs []string, server string, verdict site.Verdict) *site.Record {
	t.Helper()
	rec, err := site.NewRecord(host)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	parsed := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		parsed = append(parsed, netip.MustParseAddr(a))
	}
	var resolveErr error
	if len(parsed) == 0 {
		resolveErr = errors.New("no such host")
	}
	_ = rec.Resolve(parsed, resolveErr)

	var headers site.Headers
	var probeErr error
	if server != "" {
		headers.Add("Server", server)
		headers.Add("Content-Type", "text/html")
	} else {
		probeErr = errors.New("refused")
	}
	_ = rec.Probe(headers, probeErr)
	_ = rec.Classify(verdict)
	return rec
}

func TestMarshalReport_Fields(t *testing.T) {
	records := []*site.Record{
		classifiedRecord(t, "lb.example", []string{"192.168.0.5", "2001:db8::5"}, "BigIP", site.VerdictBigIPByHeader),
		classifiedRecord(t, "nxdomain.invalid", nil, "", site.VerdictNotDetected),
	}

	data, err := MarshalReport(records)
	if err != nil {
		t.Fatalf("MarshalReport: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}

	first := decoded[0]
	if len(first) != 4 {
		t.Errorf("expected exactly host/addrs/headers/bigip, got %v", first)
	}
	if first["host"] != "lb.example" || first["bigip"] != "header" {
		t.Errorf("unexpected first entry %v", first)
	}
	addrs := first["addrs"].([]interface{})
	if len(addrs) != 2 || addrs[0] != "192.168.0.5" || addrs[1] != "2001:db8::5" {
		t.Errorf("unexpected addrs %v", addrs)
	}
	headers := first["headers"].(map[string]interface{})
	if headers["server"] != "BigIP" || headers["content-type"] != "text/html" {
		t.Errorf("expected lower-cased header names, got %v", headers)
	}

	second := decoded[1]
	if v, ok := second["bigip"]; !ok || v != nil {
		t.Errorf("expected bigip null for undetected host, got %v", v)
	}
	if len(second["addrs"].([]interface{})) != 0 {
		t.Errorf("expected empty addrs array, got %v", second["addrs"])
	}
	if len(second["headers"].(map[string]interface{})) != 0 {
		t.Errorf("expected empty headers object, got %v", second["headers"])
	}
}

func TestReportRepository_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	repo, err := NewReportRepository(path)
	if err != nil {
		t.Fatalf("NewReportRepository: %v", err)
	}

	records := []*site.Record{classifiedRecord(t, "a.example", []string{"10.0.0.1"}, "nginx", site.VerdictBigIPBySubnet)}
	if err := repo.Save(context.Background(), records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded []siteDTO
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 1 || decoded[0].BigIP == nil || *decoded[0].BigIP != "subnet" {
		t.Fatalf("unexpected report %s", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be renamed away, found %d entries", len(entries))
	}
}

func TestReportRepository_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	repo, _ := NewReportRepository(path)
	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestReportRepository_UnwritableDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	repo, _ := NewReportRepository(path)
	err := repo.Save(context.Background(), nil)
	if !errors.Is(err, sharedErrors.ErrFatalIO) {
		t.Fatalf("expected ErrFatalIO, got %v", err)
	}
}

func TestReportRepository_SaveAfterCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	repo, _ := NewReportRepository(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Save(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("report should not be written after cancel")
	}
}

func TestNewReportRepository_EmptyPath(t *testing.T) {
	if _, err := NewReportRepository(""); !errors.Is(err, sharedErrors.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
