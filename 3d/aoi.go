package three_dim

import (
	"math"

	"github.com/beijian128/aoe"
	"golang.org/x/exp/slices"
)

// 十字链表 (sweep and prune) 空间索引：X/Y/Z 三条按坐标排序的双向链表，
// 每个实体在每条轴上一个节点。移动时节点只和相邻节点交换，帧间位移小时接近 O(1)。
// 只在逻辑主循环中访问，不加锁 (Search 也会更新游标)。

// Marker 链表节点
type Marker struct {
	Axis  int // 0:X, 1:Y, 2:Z
	Val   float64
	Owner *Entity

	prev *Marker
	next *Marker
}

// AxisList 双向链表
type AxisList struct {
	Head *Marker // -Inf
	Tail *Marker // +Inf
}

// Entity 索引中的实体节点
type Entity struct {
	Ref     aoe.Entity
	Pos     [3]float64
	Markers [3]*Marker
}

// Manager 空间索引管理器
type Manager struct {
	axes     [3]*AxisList
	cursor   [3]*Marker // 每条轴上一次查询的起点，相邻查询从这里出发
	entities map[aoe.EntityID]*Entity
}

func NewManager() *Manager {
	m := &Manager{
		entities: make(map[aoe.EntityID]*Entity),
	}
	// 初始化三轴链表哨兵
	for i := 0; i < 3; i++ {
		head := &Marker{Axis: i, Val: math.Inf(-1)}
		tail := &Marker{Axis: i, Val: math.Inf(1)}
		head.next = tail
		tail.prev = head
		m.axes[i] = &AxisList{Head: head, Tail: tail}
	}
	return m
}

// AddEntity 以实体当前位置加入索引，重复添加视为移动
func (m *Manager) AddEntity(ref aoe.Entity) {
	if ref == nil {
		return
	}
	if _, ok := m.entities[ref.GetID()]; ok {
		m.MoveEntity(ref.GetID(), ref.GetPos())
		return
	}
	pos := ref.GetPos()
	e := &Entity{Ref: ref}
	vals := [3]float64{pos.X, pos.Y, pos.Z}
	for axis := 0; axis < 3; axis++ {
		node := &Marker{Axis: axis, Val: vals[axis], Owner: e}
		e.Markers[axis] = node

		// 先插入到尾部前，再依靠 updateMarker 排序
		list := m.axes[axis]
		prev := list.Tail.prev
		prev.next = node
		node.prev = prev
		node.next = list.Tail
		list.Tail.prev = node
	}
	m.entities[ref.GetID()] = e
	m.updateEntity(e, vals)
}

// RemoveEntity 从三条轴上摘除节点
func (m *Manager) RemoveEntity(id aoe.EntityID) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	for axis := 0; axis < 3; axis++ {
		node := e.Markers[axis]
		if m.cursor[axis] == node {
			m.cursor[axis] = node.next
		}
		node.prev.next = node.next
		node.next.prev = node.prev
		node.prev, node.next = nil, nil
	}
	delete(m.entities, id)
}

func (m *Manager) MoveEntity(id aoe.EntityID, pos aoe.Position) {
	if e, ok := m.entities[id]; ok {
		m.updateEntity(e, [3]float64{pos.X, pos.Y, pos.Z})
	}
}

func (m *Manager) Count() int {
	return len(m.entities)
}

// Entities 按 ID 升序返回全部实体
func (m *Manager) Entities() []aoe.Entity {
	res := make([]aoe.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		res = append(res, e.Ref)
	}
	slices.SortFunc(res, compareID)
	return res
}

// Search 在三条轴上分别取 [v-r, v+r] 区间内的节点并计数，
// 计数为 3 的实体落在立方体内，再按三维距离精确过滤。
func (m *Manager) Search(pos aoe.Position, radius float64, check aoe.SearchCheck) []aoe.Entity {
	if math.IsNaN(radius) || radius < 0 {
		return nil
	}
	center := [3]float64{pos.X, pos.Y, pos.Z}
	counts := make(map[*Entity]int)
	for axis := 0; axis < 3; axis++ {
		lo, hi := center[axis]-radius, center[axis]+radius
		for node := m.seek(axis, lo); node != m.axes[axis].Tail; node = node.next {
			if node.Val > hi {
				break
			}
			counts[node.Owner]++
		}
	}

	var result []aoe.Entity
	for e, c := range counts {
		if c < 3 {
			continue
		}
		if !(distance(center, e.Pos) <= radius) {
			continue
		}
		if check != nil && !check(e.Ref) {
			continue
		}
		result = append(result, e.Ref)
	}
	return result
}

// seek 从游标出发找到轴上第一个 Val >= lo 的节点，没有则返回 Tail。
// 链表有序，从任意节点出发先向左再向右即可定位。
func (m *Manager) seek(axis int, lo float64) *Marker {
	list := m.axes[axis]
	node := m.cursor[axis]
	if node == nil {
		node = list.Head.next
	}
	for node.prev != list.Head && node.prev.Val >= lo {
		node = node.prev
	}
	for node != list.Tail && node.Val < lo {
		node = node.next
	}
	m.cursor[axis] = node
	return node
}

func (m *Manager) updateEntity(e *Entity, vals [3]float64) {
	e.Pos = vals
	for axis := 0; axis < 3; axis++ {
		v := vals[axis]
		if math.IsNaN(v) { // NaN 无法参与排序，放到链表末端
			v = math.Inf(1)
		}
		m.updateMarker(e.Markers[axis], v)
	}
}

func (m *Manager) updateMarker(node *Marker, newVal float64) {
	node.Val = newVal
	list := m.axes[node.Axis]

	// 向右移动 (Val 变大)
	for node.next != list.Tail && node.Val > node.next.Val {
		m.swap(node, node.next) // node 换到 other 后面
	}
	// 向左移动 (Val 变小)
	for node.prev != list.Head && node.Val < node.prev.Val {
		m.swap(node.prev, node) // other 换到 node 后面 (即 node 换到 other 前面)
	}
}

// swap 交换相邻节点: left -> right ==> right -> left
func (m *Manager) swap(left, right *Marker) {
	left.prev.next = right
	right.prev = left.prev
	right.next.prev = left
	left.next = right.next
	right.next = left
	left.prev = right
}

func compareID(a, b aoe.Entity) int {
	switch {
	case a.GetID() < b.GetID():
		return -1
	case a.GetID() > b.GetID():
		return 1
	}
	return 0
}

func distance(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
