package run

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"diamondeda/domain/core"
)

// CodeVersion is stamped into every manifest
const CodeVersion = "1.0.0"

// RunFingerprint identifies the inputs that determine a report's content.
// Two runs with equal fingerprints produce byte-identical tables.
type RunFingerprint struct {
	DatasetName string    `json:"dataset_name"`
	DatasetHash core.Hash `json:"dataset_hash"`
	ChartPlan   []string  `json:"chart_plan"`
	CodeVersion string    `json:"code_version"`
	Fingerprint core.Hash `json:"fingerprint"` // Hash of all above
}

// NewRunFingerprint creates a fingerprint from the determinism parameters
func NewRunFingerprint(datasetName string, datasetHash core.Hash, chartPlan []string, codeVersion string) RunFingerprint {
	return RunFingerprint{
		DatasetName: datasetName,
		DatasetHash: datasetHash,
		ChartPlan:   append([]string(nil), chartPlan...),
		CodeVersion: codeVersion,
		Fingerprint: computeRunFingerprint(datasetName, datasetHash, chartPlan, codeVersion),
	}
}

func computeRunFingerprint(datasetName string, datasetHash core.Hash, chartPlan []string, codeVersion string) core.Hash {
	data := fmt.Sprintf("dataset:%s|data:%s|charts:%s|code:%s",
		datasetName, datasetHash, strings.Join(chartPlan, ","), codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
