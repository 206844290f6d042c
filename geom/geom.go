package geom

import "math"

// WindingEpsilon 总角度法判定点在多边形内的阈值
const WindingEpsilon = 1e-6

const twoPi = 2 * math.Pi

// Vec2 水平面 (X/Z) 上的二维点
type Vec2 struct {
	X, Z float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Z: v.Z + o.Z}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Z: v.Z - o.Z}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Z: v.Z * f}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Z)
}

// NormalizeAngle 把弧度映射到 (-π, π]。
// math.Remainder 是精确运算，大倍数 2π 的输入不会累积误差。
func NormalizeAngle(rad float64) float64 {
	r := math.Remainder(rad, twoPi)
	if r <= -math.Pi {
		r += twoPi
	}
	return r
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Cross 返回 BA x BC 的 z 分量
func Cross(a, b, c Vec2) float64 {
	ba := a.Sub(b)
	bc := c.Sub(b)
	return ba.X*bc.Z - ba.Z*bc.X
}

// Dot 返回 BA · BC
func Dot(a, b, c Vec2) float64 {
	ba := a.Sub(b)
	bc := c.Sub(b)
	return ba.X*bc.X + ba.Z*bc.Z
}

// AngleBetween 顶点 b 处由 a、c 张成的有符号角，范围 (-π, π]。
// 任一点与 b 重合时 atan2(0, 0) == 0，不会产生 NaN。
func AngleBetween(a, b, c Vec2) float64 {
	return math.Atan2(Cross(a, b, c), Dot(a, b, c))
}

// PointInPolygon 奇偶射线法。poly 为按顺序给出的简单多边形顶点。
// 只有两端 Z 分居测试点两侧的边才会进入插值分支，因此分母不为 0；
// 落在边上的点结果由输入唯一决定。
func PointInPolygon(poly []Vec2, p Vec2) bool {
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Z > p.Z) != (pj.Z > p.Z) {
			x := pi.X + (p.Z-pi.Z)/(pj.Z-pi.Z)*(pj.X-pi.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PointInPolygonWinding 总角度法：依次累加测试点对每条边的张角，
// 点在内部时总和约为 ±2π，在外部时约为 0。
func PointInPolygonWinding(poly []Vec2, p Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	last := len(poly) - 1
	total := AngleBetween(poly[last], p, poly[0])
	for i := 0; i < last; i++ {
		total += AngleBetween(poly[i], p, poly[i+1])
	}
	return math.Abs(total) > WindingEpsilon
}

// Rotate 绕原点旋转，使方位角 (见 Bearing) 增加 rad
func Rotate(v Vec2, rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{
		X: v.X*cos + v.Z*sin,
		Z: -v.X*sin + v.Z*cos,
	}
}

// RotatePoint2D 技能数据配套的旋转：先做 Rotate，再对两个分量取反。
// 取反等价于额外半圈，即 RotatePoint2D(v, a) == Rotate(v, a+π)。
func RotatePoint2D(v Vec2, rad float64) Vec2 {
	r := Rotate(v, rad)
	return Vec2{X: -r.X, Z: -r.Z}
}

// Bearing from 指向 to 的方位角，0 朝 +Z，增大时转向 +X
func Bearing(from, to Vec2) float64 {
	return math.Atan2(to.X-from.X, to.Z-from.Z)
}

// PointAt 沿方位角 bearing 偏移 dist
func PointAt(from Vec2, bearing, dist float64) Vec2 {
	sin, cos := math.Sincos(bearing)
	return Vec2{X: from.X + sin*dist, Z: from.Z + cos*dist}
}

// Distance3 三维欧氏距离
func Distance3(ax, ay, az, bx, by, bz float64) float64 {
	dx, dy, dz := ax-bx, ay-by, az-bz
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
