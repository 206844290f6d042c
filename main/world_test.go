package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/beijian128/aoe"
	"github.com/beijian128/aoe/config"
	"github.com/beijian128/aoe/shape"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShapes() *shape.Table {
	return shape.NewTable(
		shape.Descriptor{ID: 1, Kind: shape.Circle, Param0: 30},
		shape.Descriptor{ID: 10, Kind: shape.Cone, Param1: 40, Param2: 90},
		shape.Descriptor{ID: 20, Kind: shape.Quadrilateral, Param1: 30, Param2: 3},
		shape.Descriptor{ID: 30, Kind: shape.Rectangle, Param0: 5, Param1: 40, Param2: 3},
	)
}

func testConfig(idx string) *config.Config {
	cfg := config.Default()
	cfg.World.Index = idx
	cfg.World.MinX, cfg.World.MinZ, cfg.World.MaxX, cfg.World.MaxZ = -50, -50, 50, 50
	cfg.Sim.NPCCount = 80
	cfg.Sim.PropCount = 10
	cfg.Sim.CastTicks = 1
	cfg.Sim.Seed = 1234
	cfg.Sim.TickRate = time.Millisecond
	return cfg
}

func TestWorldCastsMatchBruteForce(t *testing.T) {
	for _, idx := range []string{"grid", "sweep"} {
		log, _ := logtest.NewNullLogger()
		w, err := newWorld(testConfig(idx), log, testShapes(), nil)
		require.NoError(t, err)
		require.Equal(t, 90, w.index.Count())

		for i := 0; i < 50; i++ {
			w.Tick()
			res := w.lastCast
			require.NotNil(t, res)

			caster := res.Telegraph.Caster.GetID()
			var want []aoe.EntityID
			for _, u := range w.units {
				if u.ID != caster && res.Telegraph.InsideTelegraph(u.GetPos()) {
					want = append(want, u.ID)
				}
			}
			var got []aoe.EntityID
			for _, e := range res.Targets {
				assert.Equal(t, aoe.KindUnit, e.GetKind())
				got = append(got, e.GetID())
			}
			assert.Equal(t, want, got, "%s tick %d shape %d", idx, w.tick, res.ShapeID)
		}
	}
}

func TestWorldStaysInBounds(t *testing.T) {
	cfg := testConfig("grid")
	cfg.Sim.MoveSpeed = 20
	log, _ := logtest.NewNullLogger()
	w, err := newWorld(cfg, log, testShapes(), nil)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		w.Tick()
	}
	for _, u := range w.units {
		assert.GreaterOrEqual(t, u.Pos.X, -50.0)
		assert.LessOrEqual(t, u.Pos.X, 50.0)
		assert.GreaterOrEqual(t, u.Pos.Z, -50.0)
		assert.LessOrEqual(t, u.Pos.Z, 50.0)
	}
}

func TestWorldSnapshot(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := &snapshotStore{}
	w, err := newWorld(testConfig("sweep"), log, testShapes(), store)
	require.NoError(t, err)
	w.Tick()

	var snap debugSnapshot
	require.NoError(t, json.Unmarshal(store.Get(), &snap))
	assert.Equal(t, 1, snap.Tick)
	assert.Len(t, snap.Entities, 90)
	require.NotNil(t, snap.Telegraph)
	assert.Equal(t, w.lastCast.Telegraph.ID.String(), snap.Telegraph.ID)
	assert.Len(t, snap.Telegraph.Hits, len(w.lastCast.Targets))

	hit := 0
	for _, e := range snap.Entities {
		if e.Hit {
			hit++
		}
	}
	assert.Equal(t, len(snap.Telegraph.Hits), hit)

	switch w.lastCast.Telegraph.Shape.Kind {
	case shape.Rectangle, shape.Quadrilateral:
		assert.Len(t, snap.Telegraph.Polygon, 4)
	default:
		assert.Empty(t, snap.Telegraph.Polygon)
	}
}

func TestWorldRun(t *testing.T) {
	cfg := testConfig("grid")
	cfg.Sim.MaxTicks = 5
	log, _ := logtest.NewNullLogger()
	w, err := newWorld(cfg, log, testShapes(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 5, w.tick)

	cfg.Sim.MaxTicks = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}

func TestUnknownIndex(t *testing.T) {
	cfg := testConfig("quadtree")
	log, _ := logtest.NewNullLogger()
	_, err := newWorld(cfg, log, testShapes(), nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log := newLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	assert.Equal(t, "debug", log.GetLevel().String())

	log = newLogger(config.LoggingConfig{Level: "loud", Format: "text"})
	assert.Equal(t, "info", log.GetLevel().String())
}
