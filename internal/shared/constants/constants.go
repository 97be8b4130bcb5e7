package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultProbeTimeout bounds the DNS lookup of a host, and separately its HTTP probe.
	DefaultProbeTimeout = 3 * time.Second
	// DefaultConcurrency is the number of hosts processed in parallel.
	DefaultConcurrency = 20
	// MaxConcurrency caps operator-supplied worker counts.
	MaxConcurrency = 512
	// ProbeBodyDrainBytes is how much of a response body is read before closing it.
	ProbeBodyDrainBytes = 4096
	// DefaultDNSPort is appended to nameservers given without a port.
	DefaultDNSPort = "53"
)

const (
	// BigIPServerMarker is searched for, case-insensitively, in the Server header.
	BigIPServerMarker = "bigip"
)
