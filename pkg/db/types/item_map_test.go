package dbtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemMapScanAndValue(t *testing.T) {
	var m ItemMap
	require.NoError(t, m.Scan([]byte(`{"staff":5,"sword":2}`)))
	assert.Equal(t, 5, m["staff"])
	assert.Equal(t, 2, m["sword"])

	val, err := m.Value()
	require.NoError(t, err)
	var roundTrip ItemMap
	require.NoError(t, roundTrip.Scan(val))
	assert.Equal(t, m, roundTrip)
}

func TestItemMapScanNil(t *testing.T) {
	var m ItemMap
	require.NoError(t, m.Scan(nil))
	assert.Empty(t, m)
}

func TestItemMapValidate(t *testing.T) {
	assert.Error(t, ItemMap{}.Validate())
	assert.Error(t, ItemMap{"": 1}.Validate())
	assert.Error(t, ItemMap{"staff": 0}.Validate())
	assert.Error(t, ItemMap{"staff": -2}.Validate())
	assert.NoError(t, ItemMap{"staff": 1}.Validate())
}

func TestItemMapItemsStableOrder(t *testing.T) {
	m := ItemMap{"sword": 1, "axe": 2, "staff": 3}
	assert.Equal(t, []string{"axe", "staff", "sword"}, m.Items())
}
