package aoe

// EntityID 实体唯一 ID
type EntityID int64

// EntityKind 实体类别，技能范围判定只关心 KindUnit
type EntityKind uint8

const (
	KindUnit   EntityKind = iota // 单位 (玩家 / NPC)
	KindProp                     // 场景物件
	KindPickup                   // 掉落物
)

func (k EntityKind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindProp:
		return "prop"
	case KindPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Position 通用位置结构
// X 横向, Y 高度, Z 纵深。用作朝向时 X 为 yaw (弧度), Y/Z 为 pitch/roll。
type Position struct {
	X, Y, Z float64
}

// Entity 可被空间索引管理的实体 (只读访问)
type Entity interface {
	GetID() EntityID
	GetPos() Position
	GetKind() EntityKind
}

// SearchCheck 空间查询时的过滤条件，返回 true 表示保留
type SearchCheck func(e Entity) bool

// SpatialIndex 空间索引：返回 pos 半径 radius 内且满足 check 的实体。
// 返回的切片归调用方所有。
type SpatialIndex interface {
	Search(pos Position, radius float64, check SearchCheck) []Entity
}
