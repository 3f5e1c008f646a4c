package service

// GossFailedMessage is the msg reported when the validator ran and at least
// one test failed.
const GossFailedMessage = "Goss Tests Failed."

// Result is the document written to stdout at the end of an invocation.
type Result struct {
	Changed     bool     `json:"changed"`
	Failed      bool     `json:"failed"`
	Msg         string   `json:"msg,omitempty"`
	OutputLines []string `json:"output_lines"`

	// Installation
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`

	// Validation. GossFailed is nil for install, where it does not apply.
	GossFailed *bool `json:"goss_failed,omitempty"`
	*Execution
}

// Execution holds the validator's exit code and streams. It is only present
// when the validator actually ran.
type Execution struct {
	RC     int    `json:"rc"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// ExitCode is the process status for r: 0 when nothing failed, 1 otherwise.
func (r *Result) ExitCode() int {
	if r.Failed {
		return 1
	}
	return 0
}

func boolPtr(b bool) *bool {
	return &b
}
