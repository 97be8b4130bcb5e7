package site

import (
	"fmt"
	"net/netip"
	"strings"

	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// Stage is the pipeline position of a Record.
type Stage int

const (
	StageCreated Stage = iota
	StageResolved
	StageProbed
	StageClassified
)

func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "created"
	case StageResolved:
		return "resolved"
	case StageProbed:
		return "probed"
	case StageClassified:
		return "classified"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Record is one host under investigation and its accumulated findings.
// Each pipeline stage writes its own field once; setters enforce the order
// Created -> Resolved -> Probed -> Classified.
type Record struct {
	host       string
	stage      Stage
	addresses  []netip.Addr
	headers    Headers
	verdict    Verdict
	resolveErr error
	probeErr   error
}

// NewRecord creates a record for a trimmed, non-empty host.
func NewRecord(host string) (*Record, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, sharedErrors.ErrEmptyHost
	}
	return &Record{
		host:  host,
		stage: StageCreated,
	}, nil
}

// Business methods

// Resolve stores the resolver outcome. A failed resolution leaves the address list empty.
func (r *Record) Resolve(addrs []netip.Addr, err error) error {
	if err := r.advance(StageCreated, StageResolved); err != nil {
		return err
	}
	if err != nil {
		r.resolveErr = err
		return nil
	}
	r.addresses = append([]netip.Addr(nil), addrs...)
	return nil
}

// Probe stores the prober outcome. A failed probe leaves the headers empty.
func (r *Record) Probe(headers Headers, err error) error {
	if err := r.advance(StageResolved, StageProbed); err != nil {
		return err
	}
	if err != nil {
		r.probeErr = err
		return nil
	}
	r.headers = headers
	return nil
}

// Classify stores the final verdict.
func (r *Record) Classify(v Verdict) error {
	if err := r.advance(StageProbed, StageClassified); err != nil {
		return err
	}
	r.verdict = v
	return nil
}

func (r *Record) advance(from, to Stage) error {
	if r.stage != from {
		return fmt.Errorf("%w: %s cannot move from %s to %s", sharedErrors.ErrInvalidStage, r.host, r.stage, to)
	}
	r.stage = to
	return nil
}

// Getters

func (r *Record) Host() string {
	return r.host
}

func (r *Record) Stage() Stage {
	return r.stage
}

func (r *Record) Addresses() []netip.Addr {
	addrsCopy := make([]netip.Addr, len(r.addresses))
	copy(addrsCopy, r.addresses)
	return addrsCopy
}

func (r *Record) Headers() Headers {
	return r.headers
}

func (r *Record) Verdict() Verdict {
	return r.verdict
}

// ResolveErr is the resolution failure, if any.
func (r *Record) ResolveErr() error {
	return r.resolveErr
}

// ProbeErr is the probe failure, if any.
func (r *Record) ProbeErr() error {
	return r.probeErr
}
