package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   string
	note string
}

func (r *row) Key() string { return r.id }

func cloneRow(r *row) *row { c := *r; return &c }

func TestTableKeepsInsertionOrderAcrossRemovals(t *testing.T) {
	tbl := newTable[string, *row]()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.True(t, tbl.insert(&row{id: id}))
	}
	assert.False(t, tbl.insert(&row{id: "b", note: "dup"}))

	require.True(t, tbl.remove("b"))
	assert.False(t, tbl.remove("b"))
	require.True(t, tbl.insert(&row{id: "e"}))

	var ids []string
	tbl.each(func(r *row) bool { ids = append(ids, r.id); return true })
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids)

	got, ok := tbl.find("d")
	require.True(t, ok)
	assert.Equal(t, "d", got.id)
	assert.Equal(t, 4, tbl.len())
}

func TestTableCollectReturnsCopies(t *testing.T) {
	tbl := newTable[string, *row]()
	tbl.insert(&row{id: "a", note: "original"})

	out := tbl.collect(nil, cloneRow)
	require.Len(t, out, 1)
	out[0].note = "changed"
	out = append(out, &row{id: "z"})

	stored, _ := tbl.find("a")
	assert.Equal(t, "original", stored.note)
	assert.Equal(t, 1, tbl.len())
}

func TestTableCollectEmptyIsNotNil(t *testing.T) {
	tbl := newTable[string, *row]()
	out := tbl.collect(func(*row) bool { return false }, cloneRow)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
