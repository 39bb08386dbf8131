package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sample-pipeline/file-detection/internal/model"
)

func TestDie(t *testing.T) {
	t.Run("values flattened in source order, nested detail dropped", func(t *testing.T) {
		raw := model.RawDieResult{
			Filetype: "PE32",
			Values: []model.RawDieValue{
				{String: "UPX(3.96)[NRV,brute]", Type: "Packer", Name: "UPX", Version: "3.96"},
				{String: "Microsoft Linker(14.0)", Type: "Linker", Name: "Microsoft Linker"},
				{String: "MSVC(19.0)", Type: "Compiler", Name: "MSVC"},
			},
			Detects: []model.RawDieResult{{Filetype: "Overlay"}},
		}

		attr, ok := Die(raw)
		require.True(t, ok)
		assert.Equal(t, "PE32", attr.Filetype)
		require.Len(t, attr.Values, len(raw.Values))
		for i, v := range raw.Values {
			assert.Equal(t, v.String, attr.Values[i].String)
		}
	})

	t.Run("missing filetype is malformed", func(t *testing.T) {
		_, ok := Die(model.RawDieResult{Values: []model.RawDieValue{{String: "x"}}})
		assert.False(t, ok)
	})

	t.Run("no values yields a present attribute with an empty list", func(t *testing.T) {
		attr, ok := Die(model.RawDieResult{Filetype: "ELF64"})
		require.True(t, ok)
		assert.NotNil(t, attr.Values)
		assert.Empty(t, attr.Values)
	})
}

func TestTrid(t *testing.T) {
	t.Run("order preserved, incomplete candidates dropped individually", func(t *testing.T) {
		raw := model.RawTridResult{
			{Extension: "exe", Name: "Win32 EXE", Percentage: 85.5},
			{Extension: "", Name: "nameless format", Percentage: 50.0},
			{Extension: "dll", Name: "", Percentage: 40.0},
			{Extension: "dll", Name: "Win32 DLL", Percentage: 10.0},
		}

		attr := Trid(raw)
		require.Len(t, attr, 2)
		assert.Equal(t, model.TridMatch{Extension: "exe", Name: "Win32 EXE", Percentage: 85.5}, attr[0])
		assert.Equal(t, model.TridMatch{Extension: "dll", Name: "Win32 DLL", Percentage: 10.0}, attr[1])
	})

	t.Run("no re-sorting even when input order is ascending", func(t *testing.T) {
		raw := model.RawTridResult{
			{Extension: "a", Name: "A", Percentage: 10},
			{Extension: "b", Name: "B", Percentage: 90},
		}
		attr := Trid(raw)
		require.Len(t, attr, 2)
		assert.Equal(t, "a", attr[0].Extension)
		assert.Equal(t, "b", attr[1].Extension)
	})

	t.Run("empty list stays a valid empty attribute", func(t *testing.T) {
		attr := Trid(model.RawTridResult{})
		assert.NotNil(t, attr)
		assert.Empty(t, attr)
	})
}

func TestMagika(t *testing.T) {
	t.Run("fields pass through untouched", func(t *testing.T) {
		raw := model.RawMagikaResult{
			Label:       "pebin",
			Description: "PE executable",
			Extensions:  []string{"exe", "dll"},
			Group:       "executable",
			Score:       0.9937,
		}
		attr, ok := Magika(raw)
		require.True(t, ok)
		assert.Equal(t, raw.Label, attr.Label)
		assert.Equal(t, raw.Description, attr.Description)
		assert.Equal(t, raw.Extensions, attr.Extensions)
		assert.Equal(t, raw.Group, attr.Group)
		assert.Equal(t, 0.9937, attr.Score, "score must not be rounded")
	})

	t.Run("missing description stays empty and is omitted from JSON", func(t *testing.T) {
		attr, ok := Magika(model.RawMagikaResult{Label: "txt", Group: "text", Score: 0.8})
		require.True(t, ok)
		assert.Empty(t, attr.Description)
	})

	t.Run("nil extensions become an empty list", func(t *testing.T) {
		attr, ok := Magika(model.RawMagikaResult{Label: "txt", Group: "text", Score: 0.5})
		require.True(t, ok)
		assert.NotNil(t, attr.Extensions)
		assert.Empty(t, attr.Extensions)
	})

	t.Run("unusable results", func(t *testing.T) {
		for name, raw := range map[string]model.RawMagikaResult{
			"no label":       {Group: "text", Score: 0.5},
			"score above 1":  {Label: "txt", Score: 1.5},
			"negative score": {Label: "txt", Score: -0.1},
		} {
			_, ok := Magika(raw)
			assert.False(t, ok, name)
		}
	})
}
