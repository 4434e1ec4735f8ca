package packing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/packing"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

func TestParse_KeyedShape(t *testing.T) {
	raw := `{
		"pouches": [
			{"name": "Pouch A", "materials": [
				{"name": "Gear", "quantity": 2, "unit": "pcs"},
				{"name": "Screw", "quantity": 8, "unit": "pcs", "notes": "M3"}
			]}
		],
		"packets": [
			{"name": "Adhesive Packet", "materials": [
				{"name": "Glue", "quantity": 0.5, "unit": "ml"}
			]}
		]
	}`

	structure, err := packing.Parse(raw)
	require.NoError(t, err)

	require.Len(t, structure.Pouches, 1)
	require.Len(t, structure.Packets, 1)

	pouch := structure.Pouches[0]
	assert.Equal(t, "Pouch A", pouch.Name)
	require.Len(t, pouch.Materials, 2)
	assert.Equal(t, "Gear", pouch.Materials[0].Name)
	assert.True(t, pouch.Materials[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "M3", pouch.Materials[1].Notes)

	packet := structure.Packets[0]
	assert.Equal(t, "Adhesive Packet", packet.Name)
	require.Len(t, packet.Materials, 1)
	assert.True(t, packet.Materials[0].Quantity.Equal(decimal.NewFromFloat(0.5)))
}

func TestParse_KeyedShape_MissingKeys(t *testing.T) {
	structure, err := packing.Parse(`{"pouches": [{"name": "Only Pouch", "materials": []}]}`)
	require.NoError(t, err)

	assert.Len(t, structure.Pouches, 1)
	assert.NotNil(t, structure.Packets)
	assert.Empty(t, structure.Packets)
}

func TestParse_LegacyArrayShape(t *testing.T) {
	raw := `[
		{"name": "Pouch 1", "materials": [{"name": "Wire", "quantity": 3, "unit": "m"}]},
		{"name": "Pouch 2", "materials": [{"name": "Tape", "quantity": 1, "unit": "roll"}]}
	]`

	structure, err := packing.Parse(raw)
	require.NoError(t, err)

	require.Len(t, structure.Pouches, 2)
	assert.Equal(t, "Pouch 1", structure.Pouches[0].Name)
	assert.Equal(t, "Pouch 2", structure.Pouches[1].Name)
	assert.Empty(t, structure.Packets)
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		structure, err := packing.Parse(raw)
		require.NoError(t, err)
		assert.True(t, structure.IsEmpty())
	}
}

func TestParse_OtherJSONValues(t *testing.T) {
	// Well-formed but unusable values degrade to empty without error
	for _, raw := range []string{`"a string"`, `42`, `null`, `true`} {
		structure, err := packing.Parse(raw)
		require.NoError(t, err, "input: %s", raw)
		assert.True(t, structure.IsEmpty())
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	structure, err := packing.Parse(`{"pouches": [`)
	require.Error(t, err)
	assert.True(t, structure.IsEmpty())
}

func TestParseOrEmpty(t *testing.T) {
	log := logger.New("test", "test")

	t.Run("nil input", func(t *testing.T) {
		structure := packing.ParseOrEmpty(nil, "kit-1", log)
		assert.True(t, structure.IsEmpty())
	})

	t.Run("malformed input degrades to empty", func(t *testing.T) {
		raw := `not json at all`
		structure := packing.ParseOrEmpty(&raw, "kit-1", log)
		assert.True(t, structure.IsEmpty())
	})

	t.Run("valid input parses", func(t *testing.T) {
		raw := `{"pouches": [{"name": "P", "materials": [{"name": "Bolt", "quantity": 4, "unit": "pcs"}]}]}`
		structure := packing.ParseOrEmpty(&raw, "kit-1", log)
		require.Len(t, structure.Pouches, 1)
		assert.Equal(t, "Bolt", structure.Pouches[0].Materials[0].Name)
	})
}
