package aoe

// Object 最简单的实体实现，供演示程序和测试使用
type Object struct {
	ID   EntityID
	Pos  Position
	Kind EntityKind
}

func NewObject(id EntityID, kind EntityKind, pos Position) *Object {
	return &Object{ID: id, Pos: pos, Kind: kind}
}

func (o *Object) GetID() EntityID     { return o.ID }
func (o *Object) GetPos() Position    { return o.Pos }
func (o *Object) GetKind() EntityKind { return o.Kind }

func (o *Object) SetPos(pos Position) {
	o.Pos = pos
}
