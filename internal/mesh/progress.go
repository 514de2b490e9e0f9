package mesh

import "strings"

// OperationKind selects the wording reported while a mesh command runs
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
)

// ProgressFunc receives a phase label and a human-readable detail line
type ProgressFunc func(phase, detail string)

// OutputAccumulator collects raw command output for later parsing
type OutputAccumulator struct {
	Value string
}

func (a *OutputAccumulator) append(chunk string) {
	trimmed := strings.TrimSuffix(chunk, "\n")
	if a.Value == "" {
		a.Value = trimmed
		return
	}
	a.Value += "\n" + trimmed
}

type progressPhase struct {
	keyword string
	phase   string
	detail  string
}

var createPhases = []progressPhase{
	{"validating", "Validating Mesh Configuration...", "Checking mesh configuration files"},
	{"creating", "Creating API Mesh...", "Provisioning mesh resources"},
	{"deploying", "Deploying API Mesh...", "Publishing mesh to the edge network"},
	{"success", "✓ API Mesh Ready", "Mesh created and deployed"},
}

var updatePhases = []progressPhase{
	{"validating", "Validating Mesh Configuration...", "Checking mesh configuration files"},
	{"updating", "Updating Existing Mesh...", "Applying configuration changes"},
	{"deploying", "Deploying API Mesh...", "Publishing mesh to the edge network"},
	{"success", "✓ API Mesh Ready", "Mesh updated and deployed"},
}

// NewProgressCallback returns a per-chunk callback for streamed mesh CLI
// output. Each chunk is scanned case-insensitively against the ordered
// phase keywords and the first match reports progress; at most one phase
// fires per chunk. When an accumulator is supplied the raw output is
// collected, but only for create operations: the accumulated text is
// later parsed for a mesh ID, which only the create flow needs.
// A nil onProgress is valid and simply suppresses reporting.
func NewProgressCallback(kind OperationKind, onProgress ProgressFunc, acc *OutputAccumulator) func(chunk string) {
	phases := createPhases
	if kind == OperationUpdate {
		phases = updatePhases
	}

	return func(chunk string) {
		if acc != nil && kind == OperationCreate {
			acc.append(chunk)
		}

		if onProgress == nil {
			return
		}

		lower := strings.ToLower(chunk)
		for _, p := range phases {
			if strings.Contains(lower, p.keyword) {
				onProgress(p.phase, p.detail)
				return
			}
		}
	}
}
