package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellNextCycle(t *testing.T) {
	assert.Equal(t, Obstacle, Free.Next())
	assert.Equal(t, Home, Obstacle.Next())
	assert.Equal(t, Free, Home.Next())

	for _, start := range States {
		c := start
		for i := 0; i < 3; i++ {
			c = c.Next()
			assert.True(t, c.Valid(), "state %v produced invalid successor", start)
		}
		assert.Equal(t, start, c, "three steps from %v should return to it", start)
	}
}

func TestCellNextOutOfRange(t *testing.T) {
	assert.Equal(t, Free, Cell(7).Next())
	assert.Equal(t, Free, Cell(-1).Next())
}

func TestParseCell(t *testing.T) {
	for _, c := range States {
		got, err := ParseCell(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCell("FOOD")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	g := New(2, 4)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 4, g.Cols())
	assert.Equal(t, 8, g.Count(Free))
	assert.NoError(t, g.Validate())

	assert.True(t, New(0, 5).Empty())
	assert.True(t, New(-1, -1).Empty())
}

func TestSeedClipsLargerPersistedGrid(t *testing.T) {
	persisted := New(5, 5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			persisted[r][c] = Cell((r + c) % 3)
		}
	}

	g := Seed(3, 3, persisted)

	want := Grid{
		{Free, Obstacle, Home},
		{Obstacle, Home, Free},
		{Home, Free, Obstacle},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("Seed(3, 3) mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedPadsSmallerPersistedGrid(t *testing.T) {
	persisted := Grid{
		{Home, Home, Home},
		{Obstacle, Obstacle, Obstacle},
		{Home, Free, Obstacle},
	}

	g := Seed(5, 5, persisted)

	require.Equal(t, 5, g.Rows())
	require.Equal(t, 5, g.Cols())
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if r < 3 && c < 3 {
				assert.Equal(t, persisted[r][c], g[r][c], "cell (%d, %d)", r, c)
			} else {
				assert.Equal(t, Free, g[r][c], "cell (%d, %d) should default to FREE", r, c)
			}
		}
	}
}

func TestSeedRaggedRows(t *testing.T) {
	persisted := Grid{
		{Home},
		{Obstacle, Obstacle, Obstacle, Obstacle},
	}
	g := Seed(2, 3, persisted)
	want := Grid{
		{Home, Free, Free},
		{Obstacle, Obstacle, Obstacle},
	}
	assert.Empty(t, cmp.Diff(want, g))
}

func TestSeedDoesNotAliasPersisted(t *testing.T) {
	persisted := Grid{{Home, Home}}
	g := Seed(1, 2, persisted)
	g.Set(0, 0, Free)
	assert.Equal(t, Home, persisted[0][0])
}

func TestCycleAndCounts(t *testing.T) {
	g := New(3, 3)
	assert.Equal(t, Obstacle, g.Cycle(0, 0))
	assert.Equal(t, Obstacle, g.Cycle(1, 1))
	g.Cycle(2, 2)
	assert.Equal(t, Home, g.Cycle(2, 2))

	counts := g.Counts()
	assert.Equal(t, 6, counts[Free])
	assert.Equal(t, 2, counts[Obstacle])
	assert.Equal(t, 1, counts[Home])
	assert.Equal(t, 2, g.Count(Obstacle))
}

func TestInBounds(t *testing.T) {
	g := New(2, 3)
	assert.True(t, g.InBounds(0, 0))
	assert.True(t, g.InBounds(1, 2))
	assert.False(t, g.InBounds(2, 0))
	assert.False(t, g.InBounds(0, 3))
	assert.False(t, g.InBounds(-1, 0))
}

func TestValidate(t *testing.T) {
	assert.Error(t, Grid{{Free, Free}, {Free}}.Validate())
	assert.Error(t, Grid{{Free, Cell(3)}}.Validate())
	assert.NoError(t, Grid{}.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	g := Grid{{Free, Home}}
	c := g.Clone()
	c[0][0] = Obstacle
	assert.Equal(t, Free, g[0][0])
}

func TestIntsRoundTrip(t *testing.T) {
	g := Grid{{Free, Obstacle}, {Home, Free}}
	assert.Equal(t, [][]int{{0, 1}, {2, 0}}, g.Ints())
	assert.Empty(t, cmp.Diff(g, FromInts(g.Ints())))
}
