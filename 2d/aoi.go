package two_dim

import (
	"math"

	"github.com/beijian128/aoe"
	"golang.org/x/exp/slices"
)

// 格子空间索引：在 X/Z 平面上把地图划分为 gridSize 大小的格子。
// 地图外的实体会被夹到边界格子里，因此查询结果不会遗漏。
// 只在逻辑主循环中访问，不加锁。

type entry struct {
	entity   aoe.Entity
	pos      aoe.Position
	row, col int
}

// Grid 1个格子
type Grid struct {
	entities map[aoe.EntityID]*entry // 格子中的所有实体
}

type Manager struct {
	grids                  [][]*Grid
	minX, minZ, maxX, maxZ int
	gridSize               int
	rowNum, columnNum      int
	entities               map[aoe.EntityID]*entry
}

func NewManager(gridSize, minX, minZ, maxX, maxZ int) *Manager {
	if gridSize <= 0 {
		gridSize = 1
	}
	m := &Manager{
		minX:      minX,
		minZ:      minZ,
		maxX:      maxX,
		maxZ:      maxZ,
		gridSize:  gridSize,
		entities:  make(map[aoe.EntityID]*entry),
		rowNum:    max((maxX-minX)/gridSize+1, 1), // 边界颠倒时至少保留一个格子
		columnNum: max((maxZ-minZ)/gridSize+1, 1),
	}
	m.grids = make([][]*Grid, m.rowNum)
	for i := range m.grids {
		m.grids[i] = make([]*Grid, m.columnNum)
		for j := range m.grids[i] {
			m.grids[i][j] = &Grid{
				entities: make(map[aoe.EntityID]*entry),
			}
		}
	}
	return m
}

// AddEntity 以实体当前位置加入索引，重复添加视为移动
func (m *Manager) AddEntity(e aoe.Entity) {
	if e == nil {
		return
	}
	if _, ok := m.entities[e.GetID()]; ok {
		m.MoveEntity(e.GetID(), e.GetPos())
		return
	}
	pos := e.GetPos()
	row, col := m.getGridIndexByPos(pos)
	en := &entry{entity: e, pos: pos, row: row, col: col}
	m.grids[row][col].entities[e.GetID()] = en // 一定能找到，这里就不判空了
	m.entities[e.GetID()] = en
}

func (m *Manager) RemoveEntity(id aoe.EntityID) {
	en := m.entities[id]
	if en == nil {
		return
	}
	delete(m.grids[en.row][en.col].entities, id)
	delete(m.entities, id)
}

func (m *Manager) MoveEntity(id aoe.EntityID, pos aoe.Position) {
	en := m.entities[id]
	if en == nil {
		return
	}
	en.pos = pos
	row, col := m.getGridIndexByPos(pos)
	if row == en.row && col == en.col {
		return
	}
	delete(m.grids[en.row][en.col].entities, id)
	en.row, en.col = row, col
	m.grids[row][col].entities[id] = en
}

func (m *Manager) GetEntity(id aoe.EntityID) (aoe.Entity, bool) {
	en := m.entities[id]
	if en == nil {
		return nil, false
	}
	return en.entity, true
}

func (m *Manager) Count() int {
	return len(m.entities)
}

// Entities 返回全部实体，按 ID 升序
func (m *Manager) Entities() []aoe.Entity {
	res := make([]aoe.Entity, 0, len(m.entities))
	for _, en := range m.entities {
		res = append(res, en.entity)
	}
	slices.SortFunc(res, func(a, b aoe.Entity) int {
		if a.GetID() < b.GetID() {
			return -1
		}
		if a.GetID() > b.GetID() {
			return 1
		}
		return 0
	})
	return res
}

// Search 只扫描半径覆盖到的格子，再按三维距离过滤
func (m *Manager) Search(pos aoe.Position, radius float64, check aoe.SearchCheck) []aoe.Entity {
	if math.IsNaN(radius) || radius < 0 {
		return nil
	}
	rowMin := m.cellIndex(pos.X-radius, m.minX, m.rowNum)
	rowMax := m.cellIndex(pos.X+radius, m.minX, m.rowNum)
	colMin := m.cellIndex(pos.Z-radius, m.minZ, m.columnNum)
	colMax := m.cellIndex(pos.Z+radius, m.minZ, m.columnNum)

	var result []aoe.Entity
	for i := rowMin; i <= rowMax; i++ {
		for j := colMin; j <= colMax; j++ {
			for _, en := range m.grids[i][j].entities {
				if !(distance(pos, en.pos) <= radius) {
					continue
				}
				if check != nil && !check(en.entity) {
					continue
				}
				result = append(result, en.entity)
			}
		}
	}
	return result
}

func (m *Manager) getGridIndexByPos(pos aoe.Position) (int, int) {
	return m.cellIndex(pos.X, m.minX, m.rowNum), m.cellIndex(pos.Z, m.minZ, m.columnNum)
}

// cellIndex 坐标换算为格子下标并夹到 [0, n)，先在浮点域夹取，避免超大值转 int 溢出
func (m *Manager) cellIndex(v float64, min, n int) int {
	f := math.Floor((v - float64(min)) / float64(m.gridSize))
	if !(f >= 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}

func distance(a, b aoe.Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
