package mdpages

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPageSettings_Validate
// ---------------------------------------------------------------------------

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil", nil, nil},
		{"defaults", DefaultPageSettings(), nil},
		{"case insensitive", &PageSettings{Size: "A4", Orientation: "LANDSCAPE", Margin: 1}, nil},
		{"margin bounds", &PageSettings{Size: "legal", Orientation: "portrait", Margin: MaxMargin}, nil},
		{"unknown size", &PageSettings{Size: "a3", Orientation: "portrait", Margin: 1}, ErrInvalidPageSize},
		{"empty size", &PageSettings{Orientation: "portrait", Margin: 1}, ErrInvalidPageSize},
		{"unknown orientation", &PageSettings{Size: "a4", Orientation: "upside", Margin: 1}, ErrInvalidOrientation},
		{"margin too small", &PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.1}, ErrInvalidMargin},
		{"margin too large", &PageSettings{Size: "a4", Orientation: "portrait", Margin: 3.5}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.page.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTOC
// ---------------------------------------------------------------------------

func TestTOC_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		toc     *TOC
		wantErr error
	}{
		{"nil", nil, nil},
		{"zero value", &TOC{}, nil},
		{"range", &TOC{MinDepth: 2, MaxDepth: 5}, nil},
		{"equal", &TOC{MinDepth: 3, MaxDepth: 3}, nil},
		{"min too large", &TOC{MinDepth: 7}, ErrInvalidTOCDepth},
		{"max negative", &TOC{MaxDepth: -1}, ErrInvalidTOCDepth},
		{"inverted", &TOC{MinDepth: 4, MaxDepth: 2}, ErrInvalidTOCDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.toc.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTOC_Depths(t *testing.T) {
	t.Parallel()

	if lo, hi := (&TOC{}).depths(); lo != DefaultTOCMinDepth || hi != DefaultTOCMaxDepth {
		t.Errorf("depths() = %d, %d, want defaults", lo, hi)
	}
	if lo, hi := (&TOC{MinDepth: 2, MaxDepth: 6}).depths(); lo != 2 || hi != 6 {
		t.Errorf("depths() = %d, %d, want 2, 6", lo, hi)
	}
}
