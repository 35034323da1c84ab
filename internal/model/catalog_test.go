package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_UnmarshalPreservesOrder(t *testing.T) {
	body := `{
		"Zumba": {"description": "Z", "schedule": "Mon", "max_participants": 5, "participants": []},
		"Art Club": {"description": "A", "schedule": "Tue", "max_participants": 2, "participants": ["a@x.com"]},
		"Chess Club": {"description": "C", "schedule": "Fri", "max_participants": 1, "participants": ["b@x.com", "c@x.com"]}
	}`

	var c Catalog
	require.NoError(t, json.Unmarshal([]byte(body), &c))

	assert.Equal(t, []string{"Zumba", "Art Club", "Chess Club"}, c.Names())

	chess, ok := c.Get("Chess Club")
	require.True(t, ok)
	assert.Equal(t, "Chess Club", chess.Name)
	assert.Equal(t, -1, chess.SpotsLeft())
	assert.True(t, chess.IsFull())
}

func TestCatalog_MarshalRoundTripKeepsOrder(t *testing.T) {
	c := NewCatalog(
		Activity{Name: "b", MaxParticipants: 1},
		Activity{Name: "a", MaxParticipants: 2, Participants: []string{"x@y.z"}},
	)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":{"description":"","schedule":"","max_participants":1,"participants":[]},
		"a":{"description":"","schedule":"","max_participants":2,"participants":["x@y.z"]}}`, string(data))
	assert.Less(t, strings.Index(string(data), `"b"`), strings.Index(string(data), `"a"`))
}

func TestCatalog_UnmarshalRejectsNonObject(t *testing.T) {
	var c Catalog
	assert.Error(t, json.Unmarshal([]byte(`["Chess Club"]`), &c))
}

func TestCatalog_AddReplacesInPlace(t *testing.T) {
	c := NewCatalog(Activity{Name: "a"}, Activity{Name: "b"})
	c.Add(Activity{Name: "a", Schedule: "new"})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a", "b"}, c.Names())
	a, _ := c.Get("a")
	assert.Equal(t, "new", a.Schedule)
}

func TestActivity_SpotsLeft(t *testing.T) {
	tests := []struct {
		name string
		max  int
		n    int
		want int
	}{
		{"empty", 3, 0, 3},
		{"partial", 2, 1, 1},
		{"full", 2, 2, 0},
		{"over-allocated", 1, 3, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{MaxParticipants: tt.max, Participants: make([]string, tt.n)}
			assert.Equal(t, tt.want, a.SpotsLeft())
		})
	}
}
