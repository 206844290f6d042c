// Package telegraph 技能范围指示 (Telegraph)：施法者、原点、朝向与形状的组合，
// 负责找出范围内的单位。
package telegraph

import (
	"errors"
	"fmt"

	"github.com/beijian128/aoe"
	"github.com/beijian128/aoe/shape"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

var ErrShapeNotFound = errors.New("telegraph shape not found")

// Telegraph 施法时创建，创建后不再修改，结算完成即丢弃
type Telegraph struct {
	ID       uuid.UUID
	Caster   aoe.Entity // 仅用于读取位置，不持有
	Position aoe.Position
	Rotation aoe.Position // X 为 yaw，Y/Z (pitch/roll) 不参与判定
	Shape    *shape.Descriptor

	eval *shape.Evaluator
}

func New(eval *shape.Evaluator, d *shape.Descriptor, caster aoe.Entity, position, rotation aoe.Position) *Telegraph {
	if eval == nil {
		eval = shape.NewEvaluator(nil)
	}
	return &Telegraph{
		ID:       uuid.New(),
		Caster:   caster,
		Position: position,
		Rotation: rotation,
		Shape:    d,
		eval:     eval,
	}
}

// InsideTelegraph 单点判定，例如投射物落点
func (t *Telegraph) InsideTelegraph(pos aoe.Position) bool {
	return t.eval.Contains(t.Shape, t.Position, t.Rotation, pos)
}

// SearchRadius 空间索引粗筛半径
func (t *Telegraph) SearchRadius() float64 {
	return shape.ConservativeRadius(t.Shape)
}

// GetTargets 返回范围内满足 check 的实体，check 为 nil 时只取单位。
// 结果按实体 ID 升序，调用方可以重复遍历。
func (t *Telegraph) GetTargets(index aoe.SpatialIndex, check aoe.SearchCheck) []aoe.Entity {
	if index == nil {
		return nil
	}
	if check == nil {
		check = UnitsOnly
	}
	targets := index.Search(t.Position, t.SearchRadius(), func(e aoe.Entity) bool {
		return check(e) && t.InsideTelegraph(e.GetPos())
	})
	slices.SortFunc(targets, func(a, b aoe.Entity) int {
		switch {
		case a.GetID() < b.GetID():
			return -1
		case a.GetID() > b.GetID():
			return 1
		}
		return 0
	})
	return targets
}

// UnitsOnly 只有单位参与技能目标选择
func UnitsOnly(e aoe.Entity) bool {
	return e.GetKind() == aoe.KindUnit
}

// Factory 通过形状 ID 创建 Telegraph，形状表与判定器由外部注入
type Factory struct {
	Shapes shape.Lookup
	Eval   *shape.Evaluator
}

// Cast 以施法者当前位置为原点
func (f *Factory) Cast(shapeID uint32, caster aoe.Entity, rotation aoe.Position) (*Telegraph, error) {
	if caster == nil {
		return nil, fmt.Errorf("cast shape %d: nil caster", shapeID)
	}
	return f.CastAt(shapeID, caster, caster.GetPos(), rotation)
}

func (f *Factory) CastAt(shapeID uint32, caster aoe.Entity, position, rotation aoe.Position) (*Telegraph, error) {
	d, ok := f.Shapes.Get(shapeID)
	if !ok {
		return nil, fmt.Errorf("shape %d: %w", shapeID, ErrShapeNotFound)
	}
	return New(f.Eval, d, caster, position, rotation), nil
}
