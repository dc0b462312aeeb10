package plumbing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nozzleworks/topside/plumbing"
)

// twoValveComponents builds the two-check-valve network used throughout
// this file: valve1 sits between global nodes "1" and "2", valve2 between
// "2" and "3", with node "3" pinned to 100 via an initial pressure.
// openFwd/openBack/closedFwd/closedBack are already-resolved flow
// coefficients (the PDL layer is responsible for teq-seconds/sentinel
// translation before a component reaches this package).
func twoValveComponents(openFwd, openBack, closedFwd, closedBack float64) (map[string]*plumbing.PlumbingComponent, map[string]map[string]string) {
	build := func(name, key string) *plumbing.PlumbingComponent {
		fwd := plumbing.EdgeTuple{Src: "1", Dst: "2", Key: key + "1"}
		back := plumbing.EdgeTuple{Src: "2", Dst: "1", Key: key + "2"}
		edges := []plumbing.EdgeSpec{
			{Src: "1", Dst: "2", Key: key + "1"},
			{Src: "2", Dst: "1", Key: key + "2"},
		}
		states := map[string]plumbing.StateEdges{
			"open":   {fwd: openFwd, back: openBack},
			"closed": {fwd: closedFwd, back: closedBack},
		}
		return plumbing.NewComponent(name, edges, states, "closed")
	}

	components := map[string]*plumbing.PlumbingComponent{
		"valve1": build("valve1", "A"),
		"valve2": build("valve2", "B"),
	}
	mapping := map[string]map[string]string{
		"valve1": {"1": "1", "2": "2"},
		"valve2": {"1": "2", "2": "3"},
	}
	return components, mapping
}

func newTwoValveEngine(t *testing.T, openFwd, openBack, closedFwd, closedBack float64) *plumbing.Engine {
	t.Helper()
	components, mapping := twoValveComponents(openFwd, openBack, closedFwd, closedBack)
	pressures := map[string]plumbing.InitialPressure{"3": {Pressure: 100, Fixed: true}}
	states := map[string]string{"valve1": "closed", "valve2": "open"}
	e, err := plumbing.New(components, mapping, pressures, states)
	require.NoError(t, err)
	return e
}

func TestNewEngineEmptyStartsAtDefaultResolution(t *testing.T) {
	e, err := plumbing.New(nil, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, e.IsValid())
	require.Equal(t, []string{plumbing.ATM}, e.Nodes())
	require.Equal(t, int64(plumbing.DefaultTimeResolutionMicros), e.TimeRes())
}

func TestNewEngineWiresTwoValveNetwork(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.True(t, e.IsValid())

	nodes := e.Nodes()
	require.ElementsMatch(t, []string{plumbing.ATM, "1", "2", "3"}, nodes)

	pressures := e.CurrentPressures()
	require.Equal(t, 100.0, pressures["3"])
	require.Equal(t, 0.0, pressures["1"])

	states := e.CurrentStates()
	require.Equal(t, "closed", states["valve1"])
	require.Equal(t, "open", states["valve2"])
}

func TestTimeResShrinksToFastestEdge(t *testing.T) {
	openFwd := plumbing.TeqToFC(plumbing.SToMicros(0.5))
	openBack := plumbing.TeqToFC(plumbing.SToMicros(0.2))
	closedFwd := plumbing.TeqToFC(plumbing.SToMicros(10))

	e := newTwoValveEngine(t, openFwd, openBack, closedFwd, 0)
	want := plumbing.FCToTeq(plumbing.TeqToFC(plumbing.SToMicros(0.2))) / plumbing.DefaultResolutionScale
	require.Equal(t, want, e.TimeRes())
}

func TestSetComponentStateUpdatesGraph(t *testing.T) {
	e := newTwoValveEngine(t, 1, 2, 3, 4)
	require.NoError(t, e.SetComponentState("valve1", "open"))

	fc, err := e.CurrentFC("valve1.A1")
	require.NoError(t, err)
	require.Equal(t, 1.0, fc)

	state, err := e.CurrentState("valve1")
	require.NoError(t, err)
	require.Equal(t, "open", state)
}

func TestSetComponentStateUnknownNameOrState(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.ErrorIs(t, e.SetComponentState("potato", "open"), plumbing.ErrBadInput)
	require.ErrorIs(t, e.SetComponentState("valve1", "potato"), plumbing.ErrBadInput)
}

func TestMissingComponentMappingIsRecoverable(t *testing.T) {
	components, mapping := twoValveComponents(0, 0, 0, 0)
	delete(mapping, "valve1")
	pressures := map[string]plumbing.InitialPressure{}
	states := map[string]string{"valve1": "closed", "valve2": "open"}

	e, err := plumbing.New(components, mapping, pressures, states)
	require.NoError(t, err)
	require.False(t, e.IsValid())
	require.NotEmpty(t, e.Errors())
}

func TestMissingInitialPressureTargetIsHardError(t *testing.T) {
	components, mapping := twoValveComponents(0, 0, 0, 0)
	pressures := map[string]plumbing.InitialPressure{"nowhere": {Pressure: 100}}
	states := map[string]string{"valve1": "closed", "valve2": "open"}

	_, err := plumbing.New(components, mapping, pressures, states)
	require.ErrorIs(t, err, plumbing.ErrBadInput)
}

func TestRemoveComponentDropsEdgesAndPrunesNodes(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.NoError(t, e.RemoveComponent("valve2"))

	_, err := e.CurrentFC("valve2.B1")
	require.Error(t, err)
	require.NotContains(t, e.Nodes(), "3")
}

func TestReverseOrientationSwapsFCs(t *testing.T) {
	e := newTwoValveEngine(t, 1, 2, 3, 4)
	before, err := e.ComponentFCs("valve1")
	require.NoError(t, err)

	require.NoError(t, e.ReverseOrientation("valve1"))
	after, err := e.ComponentFCs("valve1")
	require.NoError(t, err)

	require.Equal(t, before["valve1.A1"], after["valve1.A2"])
	require.Equal(t, before["valve1.A2"], after["valve1.A1"])
}

func TestSetPressureRejectsNonAtmZeroOnATM(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.ErrorIs(t, e.SetPressure(plumbing.ATM, 1, false), plumbing.ErrBadInput)
	require.NoError(t, e.SetPressure(plumbing.ATM, 0, false))
}

func TestSetPressureRejectsUnknownNode(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.ErrorIs(t, e.SetPressure("ghost", 1, false), plumbing.ErrUnknownNode)
}

func TestSetTeqRejectsBelowMinimum(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	fwd := plumbing.EdgeTuple{Src: "1", Dst: "2", Key: "A1"}
	err := e.SetTeq("valve1", map[string]map[plumbing.EdgeTuple]float64{
		"open": {fwd: 0},
	})
	require.ErrorIs(t, err, plumbing.ErrBadInput)
}

func TestStepOnEmptyEngineIsInvalid(t *testing.T) {
	e, err := plumbing.New(nil, nil, nil, nil)
	require.NoError(t, err)
	_, err = e.Step(nil)
	require.ErrorIs(t, err, plumbing.ErrInvalidEngine)
}

func TestStepMovesPressureTowardSource(t *testing.T) {
	openFwd := plumbing.TeqToFC(plumbing.SToMicros(0.01))
	e := newTwoValveEngine(t, openFwd, openFwd, 0, 0)
	require.NoError(t, e.SetComponentState("valve1", "open"))

	before := e.CurrentPressures()["1"]
	for i := 0; i < 50; i++ {
		_, err := e.Step(nil)
		require.NoError(t, err)
	}
	after := e.CurrentPressures()["1"]
	require.Greater(t, after, before)
}

func TestSolveConverges(t *testing.T) {
	openFwd := plumbing.TeqToFC(plumbing.SToMicros(0.01))
	e := newTwoValveEngine(t, openFwd, openFwd, 0, 0)
	require.NoError(t, e.SetComponentState("valve1", "open"))

	final, err := e.Solve(1e-6, 5)
	require.NoError(t, err)
	require.InDelta(t, 100.0, final["1"], 1.0)
	require.InDelta(t, 100.0, final["2"], 1.0)
}

func TestResetRestoresInitialNetwork(t *testing.T) {
	e := newTwoValveEngine(t, 1, 1, 1, 1)
	require.NoError(t, e.SetComponentState("valve1", "open"))
	require.NoError(t, e.RemoveComponent("valve2"))

	require.NoError(t, e.Reset(true))
	states := e.CurrentStates()
	require.Equal(t, "closed", states["valve1"])
	require.Equal(t, "open", states["valve2"])
}

func TestResetFalseKeepsAddedComponentsAndRevertsMutatedState(t *testing.T) {
	e := newTwoValveEngine(t, 1, 1, 1, 1)
	require.NoError(t, e.SetComponentState("valve1", "open"))
	require.NoError(t, e.SetPressure("3", 55, true))

	valve3 := plumbing.NewComponent("valve3",
		[]plumbing.EdgeSpec{{Src: "1", Dst: "2", Key: "C1"}},
		map[string]plumbing.StateEdges{
			"open":   {{Src: "1", Dst: "2", Key: "C1"}: 1},
			"closed": {{Src: "1", Dst: "2", Key: "C1"}: 0},
		}, "open")
	require.NoError(t, e.AddComponent(valve3, map[string]string{"1": "3", "2": "4"}, "open", nil))

	require.NoError(t, e.Reset(false))

	states := e.CurrentStates()
	require.Equal(t, "closed", states["valve1"])
	require.Equal(t, "open", states["valve2"])
	require.Equal(t, "open", states["valve3"])
	require.InDelta(t, 100.0, e.CurrentPressures()["3"], 1e-9)
}

func TestListTogglesReturnsTwoStateComponents(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)
	require.Equal(t, []string{"valve1", "valve2"}, e.ListToggles())
}

func TestListTogglesIncludesThreeStateComponent(t *testing.T) {
	e := newTwoValveEngine(t, 0, 0, 0, 0)

	threeWay := plumbing.NewComponent("valve3",
		[]plumbing.EdgeSpec{{Src: "1", Dst: "2", Key: "C1"}},
		map[string]plumbing.StateEdges{
			"open":     {{Src: "1", Dst: "2", Key: "C1"}: 1},
			"closed":   {{Src: "1", Dst: "2", Key: "C1"}: 0},
			"throttle": {{Src: "1", Dst: "2", Key: "C1"}: 0.5},
		}, "open")
	require.NoError(t, e.AddComponent(threeWay, map[string]string{"1": "3", "2": "4"}, "open", nil))

	require.Equal(t, []string{"valve1", "valve2", "valve3"}, e.ListToggles())
}
