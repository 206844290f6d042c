package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/beijian128/aoe"
	two_dim "github.com/beijian128/aoe/2d"
	three_dim "github.com/beijian128/aoe/3d"
	"github.com/beijian128/aoe/config"
	"github.com/beijian128/aoe/shape"
	"github.com/beijian128/aoe/telegraph"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
)

// index 演示程序需要的空间索引操作，two_dim / three_dim 都满足
type index interface {
	aoe.SpatialIndex
	AddEntity(e aoe.Entity)
	RemoveEntity(id aoe.EntityID)
	MoveEntity(id aoe.EntityID, pos aoe.Position)
	Count() int
	Entities() []aoe.Entity
}

func newIndex(cfg config.WorldConfig) (index, error) {
	switch cfg.Index {
	case "grid":
		return two_dim.NewManager(cfg.GridSize, cfg.MinX, cfg.MinZ, cfg.MaxX, cfg.MaxZ), nil
	case "sweep":
		return three_dim.NewManager(), nil
	}
	return nil, fmt.Errorf("unknown index %q", cfg.Index)
}

// castResult 最近一次施法的结算结果
type castResult struct {
	Telegraph *telegraph.Telegraph
	ShapeID   uint32
	Targets   []aoe.Entity
}

// World 演示场景，只在 Run 所在的 goroutine 中访问
type World struct {
	log      logrus.FieldLogger
	cfg      *config.Config
	index    index
	factory  *telegraph.Factory
	shapeIDs []uint32
	rng      *rand.Rand
	store    *snapshotStore

	units    []*aoe.Object
	props    []*aoe.Object
	nextID   aoe.EntityID
	tick     int
	lastCast *castResult
}

func newWorld(cfg *config.Config, log logrus.FieldLogger, shapes *shape.Table, store *snapshotStore) (*World, error) {
	idx, err := newIndex(cfg.World)
	if err != nil {
		return nil, err
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w := &World{
		log:   log,
		cfg:   cfg,
		index: idx,
		factory: &telegraph.Factory{
			Shapes: shapes,
			Eval:   shape.NewEvaluator(log),
		},
		shapeIDs: shapes.IDs(),
		rng:      rand.New(rand.NewSource(seed)),
		store:    store,
	}
	w.spawn()
	log.WithFields(logrus.Fields{
		"index":  cfg.World.Index,
		"units":  len(w.units),
		"props":  len(w.props),
		"shapes": len(w.shapeIDs),
		"seed":   seed,
	}).Info("world ready")
	return w, nil
}

func (w *World) spawn() {
	for i := 0; i < w.cfg.Sim.NPCCount; i++ {
		w.units = append(w.units, w.add(aoe.KindUnit, 0))
	}
	for i := 0; i < w.cfg.Sim.PropCount; i++ {
		w.props = append(w.props, w.add(aoe.KindProp, w.rng.Float64()*2))
	}
}

func (w *World) add(kind aoe.EntityKind, y float64) *aoe.Object {
	w.nextID++
	o := aoe.NewObject(w.nextID, kind, aoe.Position{
		X: w.randRange(float64(w.cfg.World.MinX), float64(w.cfg.World.MaxX)),
		Y: y,
		Z: w.randRange(float64(w.cfg.World.MinZ), float64(w.cfg.World.MaxZ)),
	})
	w.index.AddEntity(o)
	return o
}

func (w *World) randRange(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}

// Run 按 TickRate 推进，ctx 结束或达到 MaxTicks 时返回
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Sim.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.WithField("tick", w.tick).Info("world stopped")
			return ctx.Err()
		case <-ticker.C:
			w.Tick()
			if w.cfg.Sim.MaxTicks > 0 && w.tick >= w.cfg.Sim.MaxTicks {
				w.log.WithField("tick", w.tick).Info("max ticks reached")
				return nil
			}
		}
	}
}

func (w *World) Tick() {
	w.tick++
	w.moveUnits()
	if w.tick%w.cfg.Sim.CastTicks == 0 {
		if res := w.cast(); res != nil {
			w.lastCast = res
		}
	}
	if w.store != nil {
		w.store.Set(w.makeSnapshot())
	}
}

// moveUnits 单位随机游走，限制在地图范围内
func (w *World) moveUnits() {
	step := w.cfg.Sim.MoveSpeed
	if step <= 0 {
		return
	}
	for _, u := range w.units {
		pos := u.GetPos()
		pos.X = clamp(pos.X+w.randRange(-step, step), float64(w.cfg.World.MinX), float64(w.cfg.World.MaxX))
		pos.Z = clamp(pos.Z+w.randRange(-step, step), float64(w.cfg.World.MinZ), float64(w.cfg.World.MaxZ))
		u.SetPos(pos)
		w.index.MoveEntity(u.ID, pos)
	}
}

// cast 随机单位以随机朝向施放随机形状，目标不包括施法者
func (w *World) cast() *castResult {
	if len(w.units) == 0 || len(w.shapeIDs) == 0 {
		return nil
	}
	caster := w.units[w.rng.Intn(len(w.units))]
	shapeID := w.shapeIDs[w.rng.Intn(len(w.shapeIDs))]
	rotation := aoe.Position{X: w.randRange(-math.Pi, math.Pi)}

	tg, err := w.factory.Cast(shapeID, caster, rotation)
	if err != nil {
		w.log.WithError(err).WithField("caster", caster.ID).Warn("cast failed")
		return nil
	}
	targets := tg.GetTargets(w.index, func(e aoe.Entity) bool {
		return telegraph.UnitsOnly(e) && e.GetID() != caster.ID
	})

	w.log.WithFields(logrus.Fields{
		"tick":      w.tick,
		"telegraph": tg.ID,
		"caster":    caster.ID,
		"shape_id":  shapeID,
		"kind":      tg.Shape.Kind.String(),
		"yaw":       rotation.X,
		"targets":   len(targets),
	}).Debug("telegraph resolved")

	return &castResult{Telegraph: tg, ShapeID: shapeID, Targets: targets}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
