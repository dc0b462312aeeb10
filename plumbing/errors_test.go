package plumbing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nozzleworks/topside/plumbing"
)

func TestErrorSetDeduplicatesByKey(t *testing.T) {
	s := plumbing.NewErrorSet()
	s.Add(plumbing.NewInvalidComponent("valve1"))
	s.Add(plumbing.NewInvalidComponent("valve1"))
	require.Equal(t, 2, s.Len())

	all := s.All()
	_, isDuplicate := all[1].(*plumbing.DuplicateError)
	require.True(t, isDuplicate)
}

func TestErrorSetResolveComponentDropsDirectAndDuplicateMatches(t *testing.T) {
	s := plumbing.NewErrorSet()
	s.Add(plumbing.NewInvalidComponent("valve1"))
	s.Add(plumbing.NewInvalidComponent("valve1")) // becomes a DuplicateError
	s.Add(plumbing.NewInvalidComponent("valve2"))

	s.ResolveComponent("valve1", map[string]struct{}{})
	require.Equal(t, 1, s.Len())
	remaining := s.All()
	name, ok := remaining[0].Component()
	require.True(t, ok)
	require.Equal(t, "valve2", name)
}

func TestErrorSetResolveComponentDropsErrorsForPrunedNodes(t *testing.T) {
	s := plumbing.NewErrorSet()
	s.Add(plumbing.NewInvalidNodePressure("gone", "bad value"))
	s.Add(plumbing.NewInvalidNodePressure("stays", "bad value"))

	s.ResolveComponent("unrelated", map[string]struct{}{"stays": {}})
	require.Equal(t, 1, s.Len())
	node, ok := s.All()[0].Node()
	require.True(t, ok)
	require.Equal(t, "stays", node)
}

func TestErrorSetClear(t *testing.T) {
	s := plumbing.NewErrorSet()
	s.Add(plumbing.NewInvalidComponent("valve1"))
	s.Clear()
	require.Equal(t, 0, s.Len())
	require.Empty(t, s.All())
}

func TestBadInputWrapsSentinel(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	err := e.SetComponentState("ghost", "open")
	require.ErrorIs(t, err, plumbing.ErrBadInput)
}
