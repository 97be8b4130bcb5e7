package site

// Verdict is the classification outcome for one host.
type Verdict int

const (
	VerdictNotDetected Verdict = iota
	VerdictBigIPByHeader
	VerdictBigIPBySubnet
)

// String returns the name used in logs.
func (v Verdict) String() string {
	switch v {
	case VerdictBigIPByHeader:
		return "BigIPByHeader"
	case VerdictBigIPBySubnet:
		return "BigIPBySubnet"
	default:
		return "NotDetected"
	}
}

// Method returns the detection method written to reports.
// It is empty when nothing was detected.
func (v Verdict) Method() string {
	switch v {
	case VerdictBigIPByHeader:
		return "header"
	case VerdictBigIPBySubnet:
		return "subnet"
	default:
		return ""
	}
}

// Detected reports whether either heuristic fired.
func (v Verdict) Detected() bool {
	return v == VerdictBigIPByHeader || v == VerdictBigIPBySubnet
}
