package export

import (
	"bytes"
	"testing"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

func TestWritePDFProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	pixels := []state.Pixel{
		state.NewPixel(0, 0, state.RGB{R: 255}),
		state.NewPixel(5, 3, state.RGB{G: 128}),
	}
	if err := WritePDF(&buf, pixels, 16, 16); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header, got %q", buf.Bytes()[:8])
	}
}

func TestWritePDFEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, nil, 32, 32); err != nil {
		t.Fatalf("WritePDF with no pixels: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty board produced an empty file")
	}
}

func TestWritePDFRejectsBadBoardSize(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, nil, 0, 16); err == nil {
		t.Error("zero width accepted")
	}
}
