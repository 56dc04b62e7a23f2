package catalogs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RepoConfigs(t *testing.T) {
	c, err := Load("../../../configs")
	require.NoError(t, err)

	gh, ok := c.Building("GREENHOUSE")
	require.True(t, ok)
	require.Equal(t, 3, gh.Width)
	require.Equal(t, 1, gh.Height)
	require.True(t, gh.Placeable)
	require.NotNil(t, gh.Production)
	require.Equal(t, 2000.0, gh.Production.TimeMs)
	require.Equal(t, "TOMATO", gh.Production.Resource)

	st, ok := c.Building("STORAGE")
	require.True(t, ok)
	require.Positive(t, st.StorageCapacity)
	require.False(t, st.Placeable)

	require.Len(t, c.Buildings.Digest, 64)
	require.IsNonDecreasing(t, c.Buildings.Types)
}

func TestParse_RejectsUnknownResource(t *testing.T) {
	_, err := Parse([]byte(`{"resources":["TOMATO"],"buildings":[
		{"type":"FARM","width":1,"height":1,"production":{"time_ms":10,"resource":"WHEAT"}}]}`))
	require.ErrorContains(t, err, "unknown resource WHEAT")
}

func TestParse_RejectsEmptyFootprint(t *testing.T) {
	_, err := Parse([]byte(`{"buildings":[{"type":"HUT","width":0,"height":1}]}`))
	require.Error(t, err)
}
