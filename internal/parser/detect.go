package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/nikolastas/logistis-sub000/internal/extractor"
)

const sampleSize = 4096

var (
	magicPDF  = []byte("%PDF-")
	magicZip  = []byte("PK\x03\x04")
	magicOLE2 = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect picks the adapter for data. A hint naming a registered adapter wins
// outright; otherwise the container kind comes from magic bytes (a declared
// content type only helps find a PDF header that does not start the file),
// and adapters of that kind are tried in registration order. Detect never
// fails: unknown text falls back to the default adapter.
func (r *Registry) Detect(data []byte, hint string) Adapter {
	if a := r.Get(strings.TrimSpace(hint)); a != nil {
		return a
	}

	kind := sniffKind(data, hintKind(hint))

	var sample string
	switch kind {
	case KindText:
		sample = decodeText(leadingSample(data))
	case KindPDF:
		if pages, err := extractor.Pages(data); err == nil {
			if len(pages) > 2 {
				pages = pages[:2]
			}
			sample = strings.Join(pages, "\n")
		}
	}

	for _, a := range r.adapters {
		if a.Kind() != kind || a == r.fallback {
			continue
		}
		d, ok := a.(Detector)
		if !ok || d.Detect(sample) {
			return a
		}
	}
	return r.fallback
}

func sniffKind(data []byte, declared Kind) Kind {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return KindPDF
	case bytes.HasPrefix(data, magicZip):
		return KindZip
	case bytes.HasPrefix(data, magicOLE2):
		return KindOLE2
	}
	// Some generators emit junk before the PDF header; readers accept it
	// within the first KB.
	if declared == KindPDF {
		head := data
		if len(head) > 1024 {
			head = head[:1024]
		}
		if bytes.Contains(head, magicPDF) {
			return KindPDF
		}
	}
	return KindText
}

func hintKind(hint string) Kind {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case h == "pdf" || h == ".pdf" || h == "application/pdf":
		return KindPDF
	case strings.Contains(h, "spreadsheetml") || h == "xlsx" || h == ".xlsx":
		return KindZip
	case h == "application/vnd.ms-excel" || h == "xls" || h == ".xls":
		return KindOLE2
	default:
		return KindText
	}
}

// leadingSample cuts data at a rune boundary so valid UTF-8 stays valid.
func leadingSample(data []byte) []byte {
	if len(data) <= sampleSize {
		return data
	}
	cut := sampleSize
	for cut > sampleSize-utf8.UTFMax && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut]
}
