// Package deck is the file-backed provider for the presentation's
// source documents. Every accessor reads the file fresh; nothing is
// held in memory between requests.
package deck

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/deckview/deckview/internal/logger"
)

// Served in place of a source document that cannot be read.
const placeholderDoc = "# Not available\n\nThis document has not been written yet.\n"

type Provider struct {
	dir       string
	tableFile string
	risksFile string
	notesFile string
}

// NewProvider locates the source documents under an explicit base
// directory. No process-global paths are consulted.
func NewProvider(dir, tableFile, risksFile, notesFile string) *Provider {
	return &Provider{dir: dir, tableFile: tableFile, risksFile: risksFile, notesFile: notesFile}
}

// Ensure creates the content directory if needed.
func (p *Provider) Ensure() error {
	return os.MkdirAll(p.dir, 0755)
}

func (p *Provider) Table() string { return p.read(p.tableFile) }
func (p *Provider) Risks() string { return p.read(p.risksFile) }
func (p *Provider) Notes() string { return p.read(p.notesFile) }

func (p *Provider) SaveTable(text string) error { return p.save(p.tableFile, text) }
func (p *Provider) SaveRisks(text string) error { return p.save(p.risksFile, text) }
func (p *Provider) SaveNotes(text string) error { return p.save(p.notesFile, text) }

// Fingerprint hashes raw source documents into a stable hex value,
// used as the deck page ETag. Only source bytes are hashed; rendered
// output is never stored.
func Fingerprint(docs ...string) string {
	h := blake3.New()
	for i, d := range docs {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte(d))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint covers the table and risks sources as currently on disk.
func (p *Provider) Fingerprint() string {
	return Fingerprint(p.Table(), p.Risks())
}

func (p *Provider) read(name string) string {
	b, err := readFile(filepath.Join(p.dir, name))
	if err != nil {
		logger.Warn("deck: %s unreadable (%v); serving placeholder", name, err)
		return placeholderDoc
	}
	return string(b)
}

func (p *Provider) save(name, text string) error {
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return writeFileAtomic(filepath.Join(p.dir, name), []byte(text), 0644)
}
