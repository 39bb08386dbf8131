package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sample-pipeline/file-detection/internal/model"
)

func upxTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := Compile([]Rule{
		{Pattern: `\bUPX\b`, Key: model.TagKeyPackerType, Value: "UPX"},
		{Pattern: `\bUPX\b`, Key: model.TagKeyPackerName, Value: "UPX"},
		{Pattern: `ASPack`, Key: model.TagKeyPackerName, Value: "ASPack"},
	})
	require.NoError(t, err)
	return tbl
}

func TestDerive(t *testing.T) {
	t.Run("packer match emits both tags", func(t *testing.T) {
		attr := &model.DieAttribute{
			Filetype: "PE32",
			Values:   []model.DieValue{{String: "UPX packer"}},
		}
		got := upxTable(t).Derive(attr)
		assert.Equal(t, []model.Tag{
			{Key: model.TagKeyPackerType, Value: "UPX"},
			{Key: model.TagKeyPackerName, Value: "UPX"},
		}, got)
	})

	t.Run("first match wins per key", func(t *testing.T) {
		attr := &model.DieAttribute{
			Filetype: "PE32",
			Values: []model.DieValue{
				{String: "UPX(3.96)"},
				{String: "ASPack(2.12)"},
			},
		}
		got := upxTable(t).Derive(attr)
		require.Len(t, got, 2)
		assert.Equal(t, "UPX", got[1].Value, "later ASPack candidate must not override")
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		attr := &model.DieAttribute{Filetype: "PE32", Values: []model.DieValue{{String: "upx 3.96"}}}
		got := upxTable(t).Derive(attr)
		require.Len(t, got, 2)
	})

	t.Run("filetype is scanned before values", func(t *testing.T) {
		tbl, err := Compile([]Rule{
			{Pattern: `PE32`, Key: model.TagKeyPackerName, Value: "from-filetype"},
			{Pattern: `UPX`, Key: model.TagKeyPackerName, Value: "from-values"},
		})
		require.NoError(t, err)
		attr := &model.DieAttribute{Filetype: "PE32", Values: []model.DieValue{{String: "UPX"}}}
		got := tbl.Derive(attr)
		require.Len(t, got, 1)
		assert.Equal(t, "from-filetype", got[0].Value)
	})

	t.Run("absent attribute yields empty not nil", func(t *testing.T) {
		got := upxTable(t).Derive(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("no markers yields empty", func(t *testing.T) {
		attr := &model.DieAttribute{Filetype: "ELF64", Values: []model.DieValue{{String: "gcc"}}}
		assert.Empty(t, upxTable(t).Derive(attr))
	})

	t.Run("pure: same input, same tags", func(t *testing.T) {
		tbl := upxTable(t)
		attr := &model.DieAttribute{Filetype: "PE32", Values: []model.DieValue{{String: "UPX packer"}}}
		assert.Equal(t, tbl.Derive(attr), tbl.Derive(attr))
	})
}

func TestCompile(t *testing.T) {
	for name, rules := range map[string][]Rule{
		"unknown key":     {{Pattern: "x", Key: "packer_family", Value: "y"}},
		"empty pattern":   {{Key: model.TagKeyPackerName, Value: "y"}},
		"empty value":     {{Pattern: "x", Key: model.TagKeyPackerName}},
		"invalid pattern": {{Pattern: "(", Key: model.TagKeyPackerName, Value: "y"}},
	} {
		_, err := Compile(rules)
		assert.Error(t, err, name)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	doc := `rules:
  - pattern: '\bUPX\b'
    key: packer_type
    value: UPX
  - pattern: '\bUPX\b'
    key: packer_name
    value: UPX
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
