package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowOrdering(t *testing.T) {
	t.Parallel()

	r := NewRow("b", "2", "a", "1", "dangling")
	r.Set("c", "3")
	r.Set("b", "20")

	assert.Equal(t, []string{"b", "a", "c"}, r.Keys())
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "20", r.Value("b"))
	assert.Equal(t, "", r.Value("missing"))

	_, ok := r.Get("dangling")
	assert.False(t, ok)

	keys := r.Keys()
	keys[0] = "mutated"
	assert.Equal(t, "b", r.Keys()[0])
}

func TestRowZeroValueSet(t *testing.T) {
	t.Parallel()

	var r Row
	r.Set("q", "x")
	v, ok := r.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestRowMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewRow("z", "1", "a", `say "hi"`))
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"say \"hi\""}`, string(data))

	data, err = json.Marshal(Row{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
