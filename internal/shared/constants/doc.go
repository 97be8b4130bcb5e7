// Package constants centralizes defaults shared across the CLI and the scan core.
//
// File permissions, the per-host probe timeout, worker pool sizing and the
// BigIP header marker live here so cmd/ and internal/ agree on them without
// import cycles.
package constants
