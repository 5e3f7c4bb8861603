package ogdch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToValidFormat(t *testing.T) {
	formats := DefaultFormatMapping()

	tests := []struct {
		spelling string
		want     string
		ok       bool
	}{
		{spelling: "csv", want: "CSV", ok: true},
		{spelling: "CSV", want: "CSV", ok: true},
		{spelling: " text/csv ", want: "CSV", ok: true},
		{spelling: "turtle", want: "TTL", ok: true},
		{spelling: "vnd.ms-excel", want: "XLS", ok: true},
		{spelling: "jpg", want: "JPEG", ok: true},
		{spelling: "unknown", ok: false},
		{spelling: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			got, ok := formats.MapToValidFormat(tt.spelling)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResourceFormat(t *testing.T) {
	formats := DefaultFormatMapping()

	tests := []struct {
		name     string
		resource map[string]any
		want     string
		ok       bool
	}{
		{
			name:     "download url extension wins",
			resource: map[string]any{"download_url": "https://example.org/data/file.JSON?x=1", "media_type": "text/csv", "format": "XML"},
			want:     "JSON",
			ok:       true,
		},
		{
			name:     "media type",
			resource: map[string]any{"download_url": "https://example.org/download", "media_type": "application/vnd.ms-excel"},
			want:     "XLS",
			ok:       true,
		},
		{
			name:     "format field",
			resource: map[string]any{"format": "text/turtle"},
			want:     "TTL",
			ok:       true,
		},
		{
			name:     "unmapped",
			resource: map[string]any{"format": "exotic"},
			ok:       false,
		},
		{
			name:     "empty",
			resource: map[string]any{},
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := formats.ResourceFormat(tt.resource)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepareResourceFormat(t *testing.T) {
	formats := DefaultFormatMapping()

	resource := formats.PrepareResourceFormat(map[string]any{"format": "csv"})
	assert.Equal(t, "CSV", resource["format"])

	resource = formats.PrepareResourceFormat(map[string]any{"format": "exotic"})
	assert.Nil(t, resource["format"])

	resource = formats.PrepareResourceFormatWithMediaType(map[string]any{"media_type": "application/x-exotic"})
	assert.Equal(t, "x-exotic", resource["format"])

	assert.Nil(t, formats.PrepareResourceFormat(nil))
}

func TestFormatsForIndex(t *testing.T) {
	formats := DefaultFormatMapping()

	got := formats.FormatsForIndex([]map[string]any{
		{"download_url": "https://example.org/a.csv"},
		{"media_type": "text/csv"},
		{"format": "pdf"},
		{"format": "exotic"},
	})
	assert.Equal(t, []string{"CSV", FormatNotAvailable, "PDF"}, got)

	assert.Empty(t, formats.FormatsForIndex(nil))
}

func TestNewFormatMappingFirstKeyWins(t *testing.T) {
	formats := NewFormatMapping(map[string][]string{
		"B": {"shared", "b"},
		"A": {"shared", "a"},
	})

	got, ok := formats.MapToValidFormat("shared")
	require.True(t, ok)
	assert.Equal(t, "A", got)
	assert.Equal(t, []string{"A", "B"}, formats.Formats())
}

func TestLoadFormatMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Parquet: [parquet, vnd.apache.parquet]\n"), 0o600))

	formats, err := LoadFormatMapping(path)
	require.NoError(t, err)

	got, ok := formats.MapToValidFormat("vnd.apache.parquet")
	require.True(t, ok)
	assert.Equal(t, "Parquet", got)

	_, err = LoadFormatMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseFormatMapping([]byte("- not\n- a map\n"))
	assert.Error(t, err)
}
