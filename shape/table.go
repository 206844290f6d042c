package shape

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Lookup 按 ID 查询形状配置
type Lookup interface {
	Get(id uint32) (*Descriptor, bool)
}

// Table 技能范围形状表，进程启动时加载一次，之后只读
type Table struct {
	byID       map[uint32]*Descriptor
	kindErrs   map[uint32]error // 加载时 kind 缺失或无法识别
	duplicates []uint32
}

type tableFile struct {
	Shapes []entryFile `yaml:"telegraph_shapes"`
}

// entryFile 表中一行的原始形式，kind 保留原文，
// 缺失或无法识别时条目仍然加载，由 Validate 报告。
type entryFile struct {
	ID     uint32    `yaml:"id"`
	Kind   yaml.Node `yaml:"kind"`
	Param0 float64   `yaml:"param0"`
	Param1 float64   `yaml:"param1"`
	Param2 float64   `yaml:"param2"`
	Note   string    `yaml:"note"`
}

func (e *entryFile) descriptor() (Descriptor, error) {
	d := Descriptor{
		ID:     e.ID,
		Kind:   Unknown,
		Param0: e.Param0,
		Param1: e.Param1,
		Param2: e.Param2,
		Note:   e.Note,
	}
	switch {
	case e.Kind.Kind == 0:
		return d, errors.New("missing kind")
	case e.Kind.Kind != yaml.ScalarNode:
		return d, fmt.Errorf("line %d: shape kind must be a scalar", e.Kind.Line)
	}
	k, err := ParseKind(e.Kind.Value)
	if err != nil {
		return d, fmt.Errorf("line %d: %w", e.Kind.Line, err)
	}
	d.Kind = k
	return d, nil
}

// LoadTable 从 YAML 文件加载形状表。
// 只有读取或 YAML 语法错误才返回错误，缺失或未知的 kind、非法参数等内容问题由 Validate 报告。
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read telegraph shapes: %w", err)
	}
	t, err := ParseTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse telegraph shapes %s: %w", path, err)
	}
	return t, nil
}

func ParseTable(raw []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	t := NewTable()
	for i := range f.Shapes {
		d, kindErr := f.Shapes[i].descriptor()
		t.add(d, kindErr)
	}
	return t, nil
}

// NewTable 由内存中的配置构造形状表，ID 重复时后者覆盖前者
func NewTable(shapes ...Descriptor) *Table {
	t := &Table{
		byID:     make(map[uint32]*Descriptor, len(shapes)),
		kindErrs: make(map[uint32]error),
	}
	for i := range shapes {
		t.add(shapes[i], nil)
	}
	return t
}

func (t *Table) add(d Descriptor, kindErr error) {
	if _, ok := t.byID[d.ID]; ok {
		t.duplicates = append(t.duplicates, d.ID)
	}
	t.byID[d.ID] = &d
	if kindErr != nil {
		t.kindErrs[d.ID] = kindErr
	} else {
		delete(t.kindErrs, d.ID)
	}
}

func (t *Table) Get(id uint32) (*Descriptor, bool) {
	d, ok := t.byID[id]
	return d, ok
}

func (t *Table) Count() int {
	return len(t.byID)
}

// IDs 返回升序排列的全部 ID
func (t *Table) IDs() []uint32 {
	ids := make([]uint32, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Validate 检查全部条目，合并返回所有问题
func (t *Table) Validate() error {
	v := validator.New()
	var errs error
	for _, id := range t.duplicates {
		errs = multierr.Append(errs, fmt.Errorf("shape %d: duplicate id", id))
	}
	for _, id := range t.IDs() {
		d := t.byID[id]
		if err := v.Struct(d); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shape %d: %w", id, err))
		}
		if err, ok := t.kindErrs[id]; ok {
			errs = multierr.Append(errs, fmt.Errorf("shape %d: %w", id, err))
		} else if !d.Kind.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("shape %d: unknown kind %s", id, d.Kind))
		}
	}
	return errs
}
