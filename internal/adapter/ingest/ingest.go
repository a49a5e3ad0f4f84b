// Package ingest implements the source-adapter boundary for candidate
// CV and job-description documents: it sniffs the uploaded content's
// real MIME type so the caller can pass an accepted payload on to an
// external document-extraction collaborator. Text extraction itself is
// out of scope; this package only decides whether a payload is acceptable.
package ingest

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DocumentKind distinguishes the two document roles the matching
// engine ingests inline payloads for.
type DocumentKind string

const (
	KindCV              DocumentKind = "cv"
	KindJobDescription  DocumentKind = "job_description"
)

// Sniffed is the result of inspecting one uploaded document. DocumentID
// is minted fresh per call so a caller can correlate this sniff result
// with whatever the external text-extraction collaborator returns.
type Sniffed struct {
	DocumentID string
	Kind       DocumentKind
	Filename   string
	MIME       string
	Size       int
}

// Sniffer detects and validates the MIME type of uploaded documents
// before they are forwarded to an external text-extraction service.
type Sniffer struct {
	// AllowedMIMEs is the accepted content-type allowlist. A nil or
	// empty value falls back to defaultAllowedMIMEs.
	AllowedMIMEs []string
}

func defaultAllowedMIMEs() []string {
	return []string{
		"text/plain",
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// NewSniffer builds a Sniffer with the default allowlist.
func NewSniffer() *Sniffer {
	return &Sniffer{AllowedMIMEs: defaultAllowedMIMEs()}
}

// Sniff detects the real MIME type of data (ignoring any caller-supplied
// Content-Type header, which is untrustworthy) and rejects it if it
// falls outside the allowlist.
func (s *Sniffer) Sniff(kind DocumentKind, filename string, data []byte) (Sniffed, error) {
	detected := mimetype.Detect(data)
	mime := strings.ToLower(detected.String())

	if !s.allowed(mime, filename) {
		return Sniffed{}, fmt.Errorf("ingest: unsupported media type %q for %s %q", mime, kind, filename)
	}

	return Sniffed{DocumentID: uuid.New().String(), Kind: kind, Filename: filename, MIME: mime, Size: len(data)}, nil
}

func (s *Sniffer) allowed(mime, filename string) bool {
	// .txt extensions are accepted for any text/* MIME, since some
	// detectors misclassify plain prose as text/html.
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(mime, "text/") {
		return true
	}
	if strings.HasPrefix(mime, "text/plain") { // tolerate a charset parameter
		return true
	}
	allowed := s.AllowedMIMEs
	if len(allowed) == 0 {
		allowed = defaultAllowedMIMEs()
	}
	for _, m := range allowed {
		if mime == m {
			return true
		}
	}
	return false
}
