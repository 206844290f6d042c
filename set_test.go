package aoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := NewSet[EntityID](1, 2, 3, 3)
	assert.Equal(t, 3, s.Size())
	assert.True(t, s.Contains(2))

	s.Remove(2)
	assert.False(t, s.Contains(2))
	assert.ElementsMatch(t, []EntityID{1, 3}, s.Values())

	visited := 0
	s.ForEach(func(EntityID) bool {
		visited++
		return true
	})
	assert.Equal(t, 1, visited, "ForEach stops when f returns true")

	s.Clear()
	assert.True(t, s.Empty())
}

func TestObject(t *testing.T) {
	o := NewObject(7, KindProp, Position{X: 1, Z: 2})
	var e Entity = o
	assert.Equal(t, EntityID(7), e.GetID())
	assert.Equal(t, KindProp, e.GetKind())
	assert.Equal(t, "prop", e.GetKind().String())

	o.SetPos(Position{Y: 3})
	assert.Equal(t, Position{Y: 3}, e.GetPos())
	assert.Equal(t, "unknown", EntityKind(9).String())
}
