package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/khanhnv2901/bigip-recon/internal/checker"
	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

const utf8BOM = "\ufeff"

// ReadLines returns every line of r with trailing newlines removed and a
// leading byte order mark stripped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ParseHosts builds one record per non-blank line, in input order.
func ParseHosts(r io.Reader, logger *zap.Logger) ([]*site.Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}

	records := make([]*site.Record, 0, len(lines))
	for i, line := range lines {
		rec, err := site.NewRecord(line)
		if err != nil {
			logger.Debug("skipping blank host line", zap.Int("line", i+1))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadHostsFile opens path and parses it with ParseHosts.
func LoadHostsFile(path string, logger *zap.Logger) ([]*site.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open host list %s: %w", sharedErrors.ErrFatalIO, path, err)
	}
	defer f.Close()

	records, err := ParseHosts(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: read host list %s: %w", sharedErrors.ErrFatalIO, path, err)
	}
	return records, nil
}

// ParseSubnets builds a subnet table, logging and skipping malformed lines.
func ParseSubnets(r io.Reader, logger *zap.Logger) (*checker.SubnetTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}

	table, rejected := checker.ParseSubnetTable(lines)
	for _, perr := range rejected {
		logger.Warn("skipping invalid subnet",
			zap.Int("line", perr.Line),
			zap.String("text", perr.Text),
			zap.Error(perr.Err),
		)
	}
	return table, nil
}

// LoadSubnetsFile opens path and parses it with ParseSubnets. An empty path
// yields an empty table.
func LoadSubnetsFile(path string, logger *zap.Logger) (*checker.SubnetTable, error) {
	if path == "" {
		table, _ := checker.ParseSubnetTable(nil)
		return table, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open subnet list %s: %w", sharedErrors.ErrFatalIO, path, err)
	}
	defer f.Close()

	table, err := ParseSubnets(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: read subnet list %s: %w", sharedErrors.ErrFatalIO, path, err)
	}
	return table, nil
}
