package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	return NewProvider(t.TempDir(), "status.md", "risks.md", "notes.md")
}

func TestProviderPlaceholderOnMissing(t *testing.T) {
	p := newTestProvider(t)
	assert.Equal(t, placeholderDoc, p.Table())
	assert.Equal(t, placeholderDoc, p.Risks())
	assert.Equal(t, placeholderDoc, p.Notes())
}

func TestProviderSaveRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	require.NoError(t, p.SaveRisks("### Actors\n- Insider"))
	assert.Equal(t, "### Actors\n- Insider\n", p.Risks())

	// Re-save replaces, never appends.
	require.NoError(t, p.SaveRisks("replaced\n"))
	assert.Equal(t, "replaced\n", p.Risks())
}

func TestProviderReadsFreshPerCall(t *testing.T) {
	dir := t.TempDir()
	p := NewProvider(dir, "status.md", "risks.md", "notes.md")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status.md"), []byte("| A |\n"), 0644))
	assert.Equal(t, "| A |\n", p.Table())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "status.md"), []byte("| B |\n"), 0644))
	assert.Equal(t, "| B |\n", p.Table())
}

func TestProviderFingerprintTracksContent(t *testing.T) {
	p := newTestProvider(t)
	before := p.Fingerprint()
	assert.Equal(t, before, p.Fingerprint())

	require.NoError(t, p.SaveTable("| A |\n|---|\n"))
	after := p.Fingerprint()
	assert.NotEqual(t, before, after)
	assert.Len(t, after, 64)
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFileAtomic(filepath.Join(dir, "out.md"), []byte("x\n"), 0644))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.md", entries[0].Name())
}
