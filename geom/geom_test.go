package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNormalizeAngle(t *testing.T) {
	// 区间内的输入原样返回
	for _, a := range []float64{0, 0.5, -0.5, 3, -3, math.Pi} {
		assert.Equal(t, a, NormalizeAngle(a))
	}
	assert.Equal(t, math.Pi, NormalizeAngle(-math.Pi))
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-12)

	for _, k := range []float64{1, 10, 1000, 1e6} {
		got := NormalizeAngle(0.25 + k*twoPi)
		assert.InDelta(t, 0.25, got, 1e-6*k, "k=%v", k)
		assert.LessOrEqual(t, got, math.Pi)
		assert.Greater(t, got, -math.Pi)
	}
}

func TestAngleBetween(t *testing.T) {
	b := Vec2{}
	assert.InDelta(t, math.Pi/2, AngleBetween(Vec2{X: 1}, b, Vec2{Z: 1}), 1e-12)
	assert.InDelta(t, -math.Pi/2, AngleBetween(Vec2{Z: 1}, b, Vec2{X: 1}), 1e-12)
	assert.InDelta(t, math.Pi, AngleBetween(Vec2{X: 1}, b, Vec2{X: -1}), 1e-12)

	// 退化输入不产生 NaN
	got := AngleBetween(b, b, Vec2{X: 1})
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 0.0, got)
}

func TestCrossDot(t *testing.T) {
	a, b, c := Vec2{X: 2, Z: 0}, Vec2{X: 1, Z: 1}, Vec2{X: 1, Z: 3}
	// BA = (1,-1), BC = (0,2)
	assert.Equal(t, 2.0, Cross(a, b, c))
	assert.Equal(t, -2.0, Dot(a, b, c))
}

func square() []Vec2 {
	return []Vec2{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1}}
}

func TestPointInPolygon(t *testing.T) {
	poly := square()
	assert.True(t, PointInPolygon(poly, Vec2{}))
	assert.True(t, PointInPolygon(poly, Vec2{X: 0.99, Z: -0.99}))
	assert.False(t, PointInPolygon(poly, Vec2{X: 1.01}))
	assert.False(t, PointInPolygon(poly, Vec2{Z: -3}))

	// 边上的点：结果稳定
	edge := Vec2{X: 1, Z: 0}
	first := PointInPolygon(poly, edge)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PointInPolygon(poly, edge))
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	assert.False(t, PointInPolygon(nil, Vec2{}))
	line := []Vec2{{X: -1}, {X: 1}, {X: 1}, {X: -1}}
	assert.False(t, PointInPolygon(line, Vec2{Z: 0.5}))
	assert.False(t, PointInPolygonWinding(line, Vec2{Z: 0.5}))

	same := []Vec2{{}, {}, {}, {}}
	assert.False(t, PointInPolygon(same, Vec2{X: 1}))
	assert.False(t, PointInPolygonWinding(same, Vec2{X: 1}))
}

func TestPolygonAlgorithmsAgree(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	polys := [][]Vec2{
		square(),
		{{X: 0, Z: 0}, {X: 4, Z: 1}, {X: 3, Z: 5}, {X: -1, Z: 3}},
		{{X: -2, Z: 0}, {X: 2, Z: 0}, {X: 0.5, Z: 3}, {X: -3.5, Z: 3}},
	}
	for _, poly := range polys {
		for i := 0; i < 2000; i++ {
			p := Vec2{X: r.Float64()*10 - 5, Z: r.Float64()*10 - 5}
			if nearEdge(poly, p, 1e-6) {
				continue
			}
			require.Equal(t, PointInPolygon(poly, p), PointInPolygonWinding(poly, p), "point %+v", p)
		}
	}
}

func nearEdge(poly []Vec2, p Vec2, eps float64) bool {
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[j], poly[i]
		ab := b.Sub(a)
		l := ab.Len()
		if l == 0 {
			continue
		}
		d := math.Abs(ab.X*(p.Z-a.Z)-ab.Z*(p.X-a.X)) / l
		tt := ((p.X-a.X)*ab.X + (p.Z-a.Z)*ab.Z) / (l * l)
		if d < eps && tt >= -eps && tt <= 1+eps {
			return true
		}
	}
	return false
}

func TestRotate(t *testing.T) {
	v := Rotate(Vec2{Z: 1}, math.Pi/2)
	assert.InDelta(t, 1, v.X, 1e-12)
	assert.InDelta(t, 0, v.Z, 1e-12)
	assert.InDelta(t, math.Pi/2, Bearing(Vec2{}, v), 1e-12)

	for _, a := range []float64{0, 0.3, 1, -2.5, 4} {
		p := Vec2{X: 1.5, Z: -0.5}
		flipped := RotatePoint2D(p, a)
		plain := Rotate(p, a)
		assert.InDelta(t, -plain.X, flipped.X, 1e-12)
		assert.InDelta(t, -plain.Z, flipped.Z, 1e-12)

		half := RotatePoint2D(p, a+math.Pi)
		assert.InDelta(t, plain.X, half.X, 1e-12)
		assert.InDelta(t, plain.Z, half.Z, 1e-12)
	}
}

func TestRotatePoint2DMatrix(t *testing.T) {
	// x' = -(x cos + z sin), z' = -(-x sin + z cos)
	p := Vec2{X: 2, Z: 3}
	a := 0.7
	got := RotatePoint2D(p, a)
	assert.InDelta(t, -(2*math.Cos(a) + 3*math.Sin(a)), got.X, 1e-12)
	assert.InDelta(t, -(-2*math.Sin(a) + 3*math.Cos(a)), got.Z, 1e-12)
}

func TestBearingPointAt(t *testing.T) {
	o := Vec2{X: 1, Z: 1}
	assert.Equal(t, 0.0, Bearing(o, Vec2{X: 1, Z: 5}))
	assert.InDelta(t, math.Pi/2, Bearing(o, Vec2{X: 4, Z: 1}), 1e-12)
	assert.InDelta(t, math.Pi, Bearing(o, Vec2{X: 1, Z: -2}), 1e-12)

	p := PointAt(o, math.Pi/2, 3)
	assert.InDelta(t, 4, p.X, 1e-12)
	assert.InDelta(t, 1, p.Z, 1e-12)
}

func TestDegrees(t *testing.T) {
	assert.InDelta(t, 180, Degrees(math.Pi), 1e-12)
	assert.InDelta(t, math.Pi/4, Radians(45), 1e-12)
	assert.Equal(t, 5.0, Distance3(0, 0, 0, 3, 0, 4))
}
