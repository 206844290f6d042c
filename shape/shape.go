package shape

import (
	"math"

	"github.com/beijian128/aoe"
	"github.com/beijian128/aoe/geom"
	"github.com/sirupsen/logrus"
)

// coneEdgeEpsilon 扇形边界容差 (角度制)，边界上的点一律判为不在范围内
const coneEdgeEpsilon = 1e-9

// Descriptor 静态技能范围配置，加载后只读。
// 参数含义随 Kind 变化：
//
//	Circle        Param0 半径
//	Cone/LongCone Param1 半径, Param2 张角 (度)
//	Quadrilateral Param1 长度, Param2 半高
//	Rectangle     Param0 半宽, Param1 长度, Param2 半高
type Descriptor struct {
	ID     uint32  `yaml:"id" validate:"required"`
	Kind   Kind    `yaml:"kind"`
	Param0 float64 `yaml:"param0" validate:"gte=0"`
	Param1 float64 `yaml:"param1" validate:"gte=0"`
	Param2 float64 `yaml:"param2" validate:"gte=0"`
	Note   string  `yaml:"note,omitempty"`
}

// Evaluator 判断点是否落在形状内。无内部状态，可并发使用。
type Evaluator struct {
	log logrus.FieldLogger
}

func NewEvaluator(log logrus.FieldLogger) *Evaluator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Evaluator{log: log}
}

// Contains 判断 candidate 是否在以 origin 为中心、朝向 rotation.X 的形状内。
// 无法判定的情况 (未知形状) 一律返回 false。
func (ev *Evaluator) Contains(d *Descriptor, origin, rotation, candidate aoe.Position) bool {
	if d == nil {
		return false
	}
	switch d.Kind {
	case Circle:
		return distance(origin, candidate) < d.Param0
	case Cone, LongCone:
		return insideCone(d, origin, rotation.X, candidate)
	case Quadrilateral, Rectangle:
		if !withinHeight(origin.Y, candidate.Y, d.Param2) {
			return false
		}
		return geom.PointInPolygon(polygon(d, flat(origin), rotation.X), flat(candidate))
	default:
		ev.log.WithFields(logrus.Fields{
			"shape_id": d.ID,
			"kind":     d.Kind.String(),
		}).Warn("unhandled telegraph shape")
		return false
	}
}

// Vertices 返回多边形形状在 X/Z 平面上的顶点，非多边形形状返回 nil
func Vertices(d *Descriptor, origin, rotation aoe.Position) []geom.Vec2 {
	if d == nil || (d.Kind != Quadrilateral && d.Kind != Rectangle) {
		return nil
	}
	return polygon(d, flat(origin), rotation.X)
}

// ConservativeRadius 形状内任意一点到原点的三维距离上界，用于空间索引粗筛。
// 参数非法时返回 0。
func ConservativeRadius(d *Descriptor) float64 {
	if d == nil {
		return 0
	}
	var r float64
	switch d.Kind {
	case Circle:
		r = d.Param0
	case Cone, LongCone:
		r = d.Param1
	case Rectangle:
		r = math.Sqrt(d.Param0*d.Param0 + d.Param1*d.Param1 + d.Param2*d.Param2)
	case Quadrilateral:
		var far float64
		for _, v := range quadrilateral(geom.Vec2{}, 0, d.Param1) {
			far = math.Max(far, v.Len())
		}
		r = math.Hypot(far, d.Param2)
	default:
		return 0
	}
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return r
}

func insideCone(d *Descriptor, origin aoe.Position, yaw float64, candidate aoe.Position) bool {
	angle := geom.NormalizeAngle(geom.Bearing(flat(origin), flat(candidate)) - yaw)
	// 写成取反形式，Param2 为 NaN 时同样拒绝
	if !(math.Abs(geom.Degrees(angle)) < d.Param2/2-coneEdgeEpsilon) {
		return false
	}
	return distance(origin, candidate) < d.Param1
}

func polygon(d *Descriptor, origin geom.Vec2, yaw float64) []geom.Vec2 {
	if d.Kind == Rectangle {
		return rectangle(origin, yaw, d.Param0, d.Param1)
	}
	return quadrilateral(origin, yaw, d.Param1)
}

// rectangle 局部坐标下的四个角 (±w, 0)、(±w, length)。
// RotatePoint2D 自带半圈翻转，这里补偿半圈使 yaw 0 朝向 +Z。
func rectangle(origin geom.Vec2, yaw, halfWidth, length float64) []geom.Vec2 {
	local := [4]geom.Vec2{
		{X: halfWidth, Z: 0},
		{X: -halfWidth, Z: 0},
		{X: -halfWidth, Z: length},
		{X: halfWidth, Z: length},
	}
	poly := make([]geom.Vec2, 0, len(local))
	for _, p := range local {
		poly = append(poly, geom.RotatePoint2D(p, yaw+math.Pi).Add(origin))
	}
	return poly
}

// quadrilateral 底边两点位于朝向 ±90° 方向 length/2 处，
// 顶边两点由底边点沿 yaw-45° 方向延伸 length 得到。
func quadrilateral(origin geom.Vec2, yaw, length float64) []geom.Vec2 {
	bottomLeft := geom.PointAt(origin, yaw-math.Pi/2, length/2)
	bottomRight := geom.PointAt(origin, yaw+math.Pi/2, length/2)
	skew := yaw - math.Pi/4
	return []geom.Vec2{
		bottomLeft,
		bottomRight,
		geom.PointAt(bottomRight, skew, length),
		geom.PointAt(bottomLeft, skew, length),
	}
}

func withinHeight(originY, y, halfHeight float64) bool {
	return math.Abs(y-originY) < halfHeight
}

func flat(p aoe.Position) geom.Vec2 {
	return geom.Vec2{X: p.X, Z: p.Z}
}

func distance(a, b aoe.Position) float64 {
	return geom.Distance3(a.X, a.Y, a.Z, b.X, b.Y, b.Z)
}
