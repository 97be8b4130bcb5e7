package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// siteDTO is the data transfer object for one host in the report
type siteDTO struct {
	Host    string            `json:"host"`
	Addrs   []string          `json:"addrs"`
	Headers map[string]string `json:"headers"`
	BigIP   *string           `json:"bigip"`
}

// ReportRepository writes scan results as a JSON array
type ReportRepository struct {
	filePath string
}

// NewReportRepository creates a repository writing to filePath
func NewReportRepository(filePath string) (*ReportRepository, error) {
	if filePath == "" {
		return nil, fmt.Errorf("%w: output path cannot be empty", sharedErrors.ErrInvalidConfig)
	}
	return &ReportRepository{filePath: filePath}, nil
}

// Path returns the report location
func (r *ReportRepository) Path() string {
	return r.filePath
}

// Save serializes records in the given order and replaces the report file.
// The file is written to a temporary sibling first and renamed into place.
// Nothing is written once ctx is done.
func (r *ReportRepository) Save(ctx context.Context, records []*site.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save report %s: %w", r.filePath, err)
	}

	data, err := MarshalReport(records)
	if err != nil {
		return fmt.Errorf("%w: serialize report: %w", sharedErrors.ErrFatalIO, err)
	}

	dir := filepath.Dir(r.filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create output %s: %w", sharedErrors.ErrFatalIO, r.filePath, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: write output %s: %w", sharedErrors.ErrFatalIO, r.filePath, err)
	}
	if err := tmp.Chmod(consts.DefaultFilePerm); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod output %s: %w", sharedErrors.ErrFatalIO, r.filePath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close output %s: %w", sharedErrors.ErrFatalIO, r.filePath, err)
	}
	if err := os.Rename(tmpPath, r.filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace output %s: %w", sharedErrors.ErrFatalIO, r.filePath, err)
	}

	return nil
}

// MarshalReport renders records as an indented JSON array
func MarshalReport(records []*site.Record) ([]byte, error) {
	dtos := make([]siteDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toDTO(rec))
	}

	data, err := json.MarshalIndent(dtos, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func toDTO(rec *site.Record) siteDTO {
	addrs := rec.Addresses()
	dto := siteDTO{
		Host:    rec.Host(),
		Addrs:   make([]string, 0, len(addrs)),
		Headers: rec.Headers().Flatten(),
	}
	for _, a := range addrs {
		dto.Addrs = append(dto.Addrs, a.String())
	}
	if method := rec.Verdict().Method(); method != "" {
		dto.BigIP = &method
	}
	return dto
}
