package proclang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparisonEvaluate(t *testing.T) {
	state := State{Pressures: map[string]float64{"B": 450}}

	require.True(t, Comparison{Node: "B", Op: Greater, Value: 400}.Evaluate(state))
	require.False(t, Comparison{Node: "B", Op: Less, Value: 400}.Evaluate(state))
	require.True(t, Comparison{Node: "B", Op: Equal, Value: 450}.Evaluate(state))
	require.False(t, Comparison{Node: "missing", Op: GreaterEqual, Value: 0}.Evaluate(state))
}

func TestWaitForEvaluate(t *testing.T) {
	w := WaitFor{DurationMicros: 10_000_000}
	require.False(t, w.Evaluate(State{ElapsedMicros: 9_999_999}))
	require.True(t, w.Evaluate(State{ElapsedMicros: 10_000_000}))
	require.True(t, w.Evaluate(State{ElapsedMicros: 20_000_000}))
}

func TestImmediateAlwaysFires(t *testing.T) {
	require.True(t, Immediate{}.Evaluate(State{}))
}

func TestAndRequiresAllChildren(t *testing.T) {
	state := State{Pressures: map[string]float64{"A": 10, "B": 20}}
	and := And{Children: []Predicate{
		Comparison{Node: "A", Op: GreaterEqual, Value: 10},
		Comparison{Node: "B", Op: GreaterEqual, Value: 10},
	}}
	require.True(t, and.Evaluate(state))

	and.Children = append(and.Children, Comparison{Node: "A", Op: Greater, Value: 100})
	require.False(t, and.Evaluate(state))
}

func TestOrRequiresOneChild(t *testing.T) {
	state := State{Pressures: map[string]float64{"A": 10}}
	or := Or{Children: []Predicate{
		Comparison{Node: "A", Op: Greater, Value: 100},
		Comparison{Node: "A", Op: LessEqual, Value: 10},
	}}
	require.True(t, or.Evaluate(state))

	or.Children = or.Children[:1]
	require.False(t, or.Evaluate(state))
}
