// components/logging/config.go
package logging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/consts"
)

// ErrInvalidConfig 日志配置无效
var ErrInvalidConfig = errors.New("invalid logging config")

const (
	DefaultFormat     = "%(asctime)s.%(msecs)03d [%(levelname)s] >%(name)s: %(message)s"
	DefaultDateFormat = "%Y-%m-%d %H:%M:%S"

	// 基础 (BASE) 模式下控制台输出格式
	baseFormat = "%(levelname)s:%(name)s:%(message)s"
)

// Config 日志配置
type Config struct {
	Enable  Flag          `yaml:"enable" json:"enable"`
	Level   string        `yaml:"level" json:"level"`
	Fmt     string        `yaml:"fmt" json:"fmt"`
	DateFmt string        `yaml:"datefmt" json:"datefmt"`
	File    FileConfig    `yaml:"file" json:"file"`
	Console ConsoleConfig `yaml:"console" json:"console"`
}

// FileConfig 文件输出配置
type FileConfig struct {
	Enable      Flag   `yaml:"enable" json:"enable"`
	Level       string `yaml:"level" json:"level"`
	Root        string `yaml:"root,omitempty" json:"root,omitempty"` // 覆盖 Manager 的根目录
	Path        string `yaml:"path" json:"path"`                     // 相对 root, 绝对路径原样使用
	Basename    string `yaml:"basename" json:"basename"`
	Suffix      string `yaml:"suffix" json:"suffix"`
	When        string `yaml:"when" json:"when"` // S/M/H/D/MIDNIGHT/W0-W6/size
	Interval    int    `yaml:"interval" json:"interval"`
	Month       Flag   `yaml:"month" json:"month"` // 按月归档 (YYYY-MM 子目录)
	BackupCount int    `yaml:"backup_count" json:"backup_count"`
	MaxSize     int    `yaml:"max_size" json:"max_size"` // MB, 仅 when=size
	Compress    Flag   `yaml:"compress" json:"compress"` // 仅 when=size
	ErrorEnable Flag   `yaml:"error_enable" json:"error_enable"`
	ErrorSuffix string `yaml:"error_suffix" json:"error_suffix"`
	ErrorLevel  string `yaml:"error_level" json:"error_level"`
}

// ConsoleConfig 控制台输出配置
type ConsoleConfig struct {
	Enable Flag   `yaml:"enable" json:"enable"`
	Level  string `yaml:"level" json:"level"`
	Stream string `yaml:"stream" json:"stream"` // stderr | stdout
}

// DefaultConfig returns the documented default table. Every field of a user mapping falls back to these values.
func DefaultConfig() *Config {
	return &Config{
		Enable:  true,
		Level:   "info",
		Fmt:     DefaultFormat,
		DateFmt: DefaultDateFormat,
		File: FileConfig{
			Enable:      true,
			Level:       "info",
			Path:        "logs",
			Basename:    "logging",
			Suffix:      ".log",
			When:        "D",
			Interval:    1,
			Month:       true,
			MaxSize:     100,
			Compress:    true,
			ErrorEnable: true,
			ErrorSuffix: ".error",
			ErrorLevel:  "error",
		},
		Console: ConsoleConfig{
			Enable: true,
			Level:  "info",
			Stream: "stderr",
		},
	}
}

// NormalizeConfig builds a Config from an arbitrary value.
//
// Mappings may wrap the settings under a "logging" key. Missing keys keep their defaults,
// except a missing top-level "enable", which means disabled. Non-mapping values count as an empty mapping.
func NormalizeConfig(v any) (*Config, error) {
	switch c := v.(type) {
	case *Config:
		if c == nil {
			break
		}
		cp := *c
		return &cp, nil
	case Config:
		return &c, nil
	}

	m, _ := asMapping(v)
	if raw, ok := m[consts.KEY_Logging]; ok {
		m, _ = asMapping(raw)
	}

	cfg := DefaultConfig()
	if len(m) > 0 {
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("%w: re-marshal mapping: %v", ErrInvalidConfig, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if _, ok := m["enable"]; !ok {
		cfg.Enable = false
	}
	return cfg, nil
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		if m == nil {
			return map[string]any{}, false
		}
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return map[string]any{}, false
	}
}

// Validate performs explicit validation rules; it does not fill defaults.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if _, err := NewPatternEncoder(c.Fmt, c.DateFmt); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !c.File.Enable {
		return nil
	}
	f := c.File
	if strings.TrimSpace(f.Basename) == "" {
		return fmt.Errorf("%w: logging.file.basename must not be empty", ErrInvalidConfig)
	}
	if f.BackupCount < 0 {
		return fmt.Errorf("%w: logging.file.backup_count must be >= 0", ErrInvalidConfig)
	}
	if isSizeRotation(f.When) {
		if f.MaxSize <= 0 {
			return fmt.Errorf("%w: logging.file.max_size must be > 0 when when=size", ErrInvalidConfig)
		}
	} else {
		if _, err := parseRotationUnit(f.When); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if f.Interval <= 0 {
			return fmt.Errorf("%w: logging.file.interval must be > 0", ErrInvalidConfig)
		}
	}
	if f.ErrorEnable {
		// 两个文件流必须不同名
		if f.ErrorSuffix == "" {
			return fmt.Errorf("%w: logging.file.error_suffix must not be empty when error_enable=true", ErrInvalidConfig)
		}
	}
	return nil
}

// Flag is a boolean that also accepts "true"/"false"/"1"/"0" strings when decoded from YAML.
type Flag bool

func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: expected boolean", node.Line)
	}
	v, err := parseFlag(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = Flag(v)
	return nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return v, nil
}
