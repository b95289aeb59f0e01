package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagesRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("Date,Description,Amount\n")},
		{"truncated header", []byte("%PDF-1.4\ngarbage")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Pages(tt.data)
			assert.Error(t, err)
			assert.Nil(t, pages)
		})
	}
}

func TestIsReadable(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"greek text", []string{"10/03/2024 ΑΓΟΡΑ ΣΚΛΑΒΕΝΙΤΗΣ 45,90"}, true},
		{"split across pages", []string{"SALARY", "MARCH 1.500,00"}, true},
		{"too short", []string{"abc"}, false},
		{"no pages", nil, false},
		{"replacement characters", []string{strings.Repeat("�", 20) + "ok"}, false},
		{"control characters", []string{strings.Repeat("\x01\x02", 10) + "0123"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isReadable(tt.pages))
		})
	}
}
