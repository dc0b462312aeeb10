package multigraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nozzleworks/topside/multigraph"
)

type GraphSuite struct {
	suite.Suite
	g *multigraph.Graph
}

func (s *GraphSuite) SetupTest() {
	s.g = multigraph.New()
}

func (s *GraphSuite) TestAddEdgeAutoCreatesNodes() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "A1", 0.5))
	require.True(s.g.HasNode("1"))
	require.True(s.g.HasNode("2"))
	require.True(s.g.HasEdge("A1"))
	require.Equal([]string{"1", "2"}, s.g.Nodes())
}

func (s *GraphSuite) TestParallelEdgesNeedDistinctKeys() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "A.fwd", 1))
	require.NoError(s.g.AddEdge("2", "1", "A.back", 2))
	require.ErrorIs(s.g.AddEdge("1", "2", "A.fwd", 9), multigraph.ErrDuplicateKey)
	require.Equal(2, s.g.EdgeCount())
}

func (s *GraphSuite) TestEmptyKeyOrNodeRejected() {
	require := require.New(s.T())
	require.ErrorIs(s.g.AddEdge("1", "2", "", 1), multigraph.ErrEmptyKey)
	require.ErrorIs(s.g.AddEdge("", "2", "k", 1), multigraph.ErrEmptyNode)
	require.ErrorIs(s.g.AddEdge("1", "", "k", 1), multigraph.ErrEmptyNode)
}

func (s *GraphSuite) TestOutInEdgesSortedByKey() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "z", 1))
	require.NoError(s.g.AddEdge("1", "2", "a", 2))
	out := s.g.OutEdges("1")
	require.Len(out, 2)
	require.Equal("a", out[0].Key)
	require.Equal("z", out[1].Key)

	in := s.g.InEdges("2")
	require.Len(in, 2)
	require.Equal("a", in[0].Key)
}

func (s *GraphSuite) TestSetFCAndEdgeLookup() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "A1", 1))
	require.NoError(s.g.SetFC("A1", 9))
	e, err := s.g.Edge("A1")
	require.NoError(err)
	require.Equal(9.0, e.FC)

	require.ErrorIs(s.g.SetFC("missing", 1), multigraph.ErrEdgeNotFound)
	_, err = s.g.Edge("missing")
	require.ErrorIs(err, multigraph.ErrEdgeNotFound)
}

func (s *GraphSuite) TestRemoveEdgeIsNoopWhenMissing() {
	s.g.RemoveEdge("ghost")
	s.Require().Equal(0, s.g.EdgeCount())
}

func (s *GraphSuite) TestRemoveNodeDropsIncidentEdges() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "A1", 1))
	require.NoError(s.g.AddEdge("2", "3", "A2", 1))
	s.g.RemoveNode("2")
	require.False(s.g.HasNode("2"))
	require.False(s.g.HasEdge("A1"))
	require.False(s.g.HasEdge("A2"))
}

func (s *GraphSuite) TestPruneIsolatedKeepsConnectedNodes() {
	require := require.New(s.T())
	require.NoError(s.g.AddNode("lonely"))
	require.NoError(s.g.AddEdge("1", "2", "A1", 1))
	s.g.PruneIsolated()
	require.False(s.g.HasNode("lonely"))
	require.True(s.g.HasNode("1"))
	require.True(s.g.HasNode("2"))
}

func (s *GraphSuite) TestCloneIsIndependent() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "A1", 1))
	clone := s.g.Clone()
	require.NoError(clone.SetFC("A1", 5))

	original, err := s.g.Edge("A1")
	require.NoError(err)
	require.Equal(1.0, original.FC)

	cloned, err := clone.Edge("A1")
	require.NoError(err)
	require.Equal(5.0, cloned.FC)
}

func (s *GraphSuite) TestDegree() {
	require := require.New(s.T())
	require.NoError(s.g.AddEdge("1", "2", "out", 1))
	require.NoError(s.g.AddEdge("3", "1", "in", 1))
	require.Equal(2, s.g.Degree("1"))
	require.Equal(0, s.g.Degree("nonexistent"))
}

func TestGraphSuite(t *testing.T) {
	suite.Run(t, new(GraphSuite))
}
