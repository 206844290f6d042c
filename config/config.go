package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Data    DataConfig    `toml:"data"`
	Sim     SimConfig     `toml:"sim"`
	Debug   DebugConfig   `toml:"debug"`
	Logging LoggingConfig `toml:"logging"`
}

type WorldConfig struct {
	Index    string `toml:"index" validate:"oneof=grid sweep"` // "grid" (two_dim) 或 "sweep" (three_dim)
	GridSize int    `toml:"grid_size" validate:"gt=0"`         // 仅 grid 使用
	MinX     int    `toml:"min_x"`
	MinZ     int    `toml:"min_z"`
	MaxX     int    `toml:"max_x" validate:"gtfield=MinX"`
	MaxZ     int    `toml:"max_z" validate:"gtfield=MinZ"`
}

type DataConfig struct {
	ShapesPath string `toml:"shapes_path" validate:"required"` // 技能范围形状表 (YAML)
}

type SimConfig struct {
	TickRate  time.Duration `toml:"tick_rate" validate:"gt=0"`
	NPCCount  int           `toml:"npc_count" validate:"gte=0"`
	PropCount int           `toml:"prop_count" validate:"gte=0"`
	CastTicks int           `toml:"cast_ticks" validate:"gt=0"`  // 每隔多少 tick 施放一次
	MoveSpeed float64       `toml:"move_speed" validate:"gte=0"` // 每 tick 最大位移
	Seed      uint64        `toml:"seed"`                        // 0 表示使用当前时间
	MaxTicks  int           `toml:"max_ticks" validate:"gte=0"`  // 0 表示一直运行
}

type DebugConfig struct {
	Addr string `toml:"addr"` // websocket 调试视图监听地址，空表示关闭
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format" validate:"oneof=text json"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default 没有配置文件时使用的配置
func Default() *Config {
	return defaults()
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			Index:    "grid",
			GridSize: 10,
			MinX:     -200,
			MinZ:     -200,
			MaxX:     200,
			MaxZ:     200,
		},
		Data: DataConfig{
			ShapesPath: "data/telegraph_shapes.yaml",
		},
		Sim: SimConfig{
			TickRate:  100 * time.Millisecond,
			NPCCount:  200,
			PropCount: 40,
			CastTicks: 10, // 每秒一次
			MoveSpeed: 1.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
