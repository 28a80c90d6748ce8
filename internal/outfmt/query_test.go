package outfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type park struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestApply(t *testing.T) {
	data := map[string]any{
		"items": []any{
			map[string]any{"id": float64(1), "name": "Северный"},
			map[string]any{"id": float64(2), "name": "Южный"},
		},
	}

	tests := []struct {
		name  string
		query string
		want  any
	}{
		{name: "empty query", query: "", want: data},
		{name: "single value", query: ".items[0].name", want: "Северный"},
		{name: "many values", query: ".items[].id", want: []any{float64(1), float64(2)}},
		{name: "no values", query: ".items[] | select(.id > 5)", want: []any{}},
		{name: "shell escaped operator", query: `.items[] | select(.id \!= 1) | .name`, want: "Южный"},
		{name: "root index falls back to items", query: ".[1].name", want: "Южный"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(data, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply(map[string]any{}, "invalid[[[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query expression")

	_, err = Apply(map[string]any{"a": "x"}, ".a + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query error")
}

func TestApplyQueryTypedValues(t *testing.T) {
	got, err := ApplyQuery([]park{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, ".items | length")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestWriteJSONFiltered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONFiltered(&buf, park{ID: 3, Name: "C"}, ".name", false))
	assert.Equal(t, "\"C\"\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSONFiltered(&buf, []park(nil), "", true))
	assert.Equal(t, "{\"items\":[]}\n", buf.String())

	buf.Reset()
	assert.Error(t, WriteJSONFiltered(&buf, park{}, "][", false))
}

func TestNormalizeJSONOutput(t *testing.T) {
	assert.Nil(t, normalizeJSONOutput(nil))
	assert.Equal(t, map[string]any{"items": []int{1}}, normalizeJSONOutput([]int{1}))
	assert.Equal(t, []byte("raw"), normalizeJSONOutput([]byte("raw")))

	p := &park{ID: 1}
	assert.Same(t, p, normalizeJSONOutput(p))

	items := []park{{ID: 1}}
	assert.Equal(t, map[string]any{"items": items}, normalizeJSONOutput(&items))
}

func TestListItems(t *testing.T) {
	items, ok := listItems([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	_, ok = listItems(map[string]int{})
	assert.False(t, ok)
	_, ok = listItems([]byte("x"))
	assert.False(t, ok)
	_, ok = listItems((*[]int)(nil))
	assert.False(t, ok)
}
