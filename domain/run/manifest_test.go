package run

import (
	"encoding/json"
	"testing"

	"diamondeda/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plan = []string{"price_hist", "price_by_cut_box", "carat_price_scatter", "price_by_color_violin", "corr_heatmap", "clarity_count"}

func TestRunFingerprint_Deterministic(t *testing.T) {
	hash := core.NewHash([]byte("rows"))

	fp1 := NewRunFingerprint("diamonds", hash, plan, CodeVersion)
	fp2 := NewRunFingerprint("diamonds", hash, plan, CodeVersion)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1.Fingerprint.String(), 64)
}

func TestRunFingerprint_Unique(t *testing.T) {
	base := NewRunFingerprint("diamonds", core.NewHash([]byte("a")), plan, CodeVersion)

	variants := []RunFingerprint{
		NewRunFingerprint("tips", core.NewHash([]byte("a")), plan, CodeVersion),
		NewRunFingerprint("diamonds", core.NewHash([]byte("b")), plan, CodeVersion),
		NewRunFingerprint("diamonds", core.NewHash([]byte("a")), plan[:5], CodeVersion),
		NewRunFingerprint("diamonds", core.NewHash([]byte("a")), plan, "2.0.0"),
	}
	for _, v := range variants {
		assert.NotEqual(t, base.Fingerprint, v.Fingerprint)
	}
}

func TestManifest_RecordAndEncode(t *testing.T) {
	fp := NewRunFingerprint("diamonds", core.NewHash([]byte("rows")), plan, CodeVersion)
	m := NewManifest(core.NewRunID(), fp, 100, 10)

	assert.Error(t, m.Validate())

	m.Record("price_hist", ArtifactChart, "images/price_hist.png", []byte("png"))
	m.Record("eda_report", ArtifactReport, "eda_report.md", []byte("# report\n"))
	require.NoError(t, m.Validate())
	assert.Equal(t, 1, m.Count(ArtifactChart))
	assert.Equal(t, core.NewHash([]byte("png")), m.Artifacts[0].SHA256)

	data, err := m.Encode()
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.RunID, decoded.RunID)
	assert.Equal(t, m.Artifacts, decoded.Artifacts)
	assert.Equal(t, m.CreatedAt.Time().Unix(), decoded.CreatedAt.Time().Unix())
}
