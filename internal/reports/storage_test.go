package reports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore_SaveAndURL(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, "/files/reports/")

	url, err := fs.Save("patient-1/object.pdf", "application/pdf", strings.NewReader("content"))
	assert.NoError(t, err)
	assert.Equal(t, "/files/reports/patient-1/object.pdf", url)

	written, err := os.ReadFile(filepath.Join(dir, "patient-1", "object.pdf"))
	assert.NoError(t, err)
	assert.Equal(t, "content", string(written))
}

func TestFileStore_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir, "/files/reports")

	_, err := fs.Save("patient-1/object.pdf", "application/pdf", strings.NewReader("first"))
	assert.NoError(t, err)

	_, err = fs.Save("patient-1/object.pdf", "application/pdf", strings.NewReader("second"))
	assert.Error(t, err)

	written, err := os.ReadFile(filepath.Join(dir, "patient-1", "object.pdf"))
	assert.NoError(t, err)
	assert.Equal(t, "first", string(written))
}
