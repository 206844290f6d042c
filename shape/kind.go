package shape

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind 技能范围形状
type Kind int

const (
	Circle Kind = iota
	Cone
	LongCone
	Quadrilateral
	Rectangle

	// Unknown 配置中缺少 kind 或无法识别时使用，判定时按未知形状处理
	Unknown Kind = -1
)

var kindNames = map[Kind]string{
	Circle:        "circle",
	Cone:          "cone",
	LongCone:      "long_cone",
	Quadrilateral: "quadrilateral",
	Rectangle:     "rectangle",
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind 接受形状名或整数编码。未知的整数编码原样保留，交由 Evaluator 降级处理。
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown shape kind %q", s)
	}
	return Kind(n), nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: shape kind must be a scalar", value.Line)
	}
	parsed, err := ParseKind(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (interface{}, error) {
	if name, ok := kindNames[k]; ok {
		return name, nil
	}
	return int(k), nil
}
