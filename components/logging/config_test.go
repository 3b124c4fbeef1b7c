package logging

import (
	"errors"
	"testing"
)

func TestNormalizeConfigDefaults(t *testing.T) {
	cfg, err := NormalizeConfig(map[string]any{
		"logging": map[string]any{
			"enable": true,
			"level":  "debug",
			"file":   map[string]any{"basename": "svc"},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !cfg.Enable || cfg.Level != "debug" {
		t.Fatalf("top-level values not applied: %+v", cfg)
	}
	def := DefaultConfig()
	if cfg.File.Basename != "svc" {
		t.Fatalf("basename not applied: %s", cfg.File.Basename)
	}
	if cfg.File.Path != def.File.Path || cfg.File.When != def.File.When || cfg.File.ErrorSuffix != def.File.ErrorSuffix {
		t.Fatalf("missing file keys should keep defaults: %+v", cfg.File)
	}
	if cfg.Console != def.Console {
		t.Fatalf("missing console block should keep defaults: %+v", cfg.Console)
	}
	if cfg.Fmt != DefaultFormat || cfg.DateFmt != DefaultDateFormat {
		t.Fatalf("format defaults lost")
	}
}

func TestNormalizeConfigDisabledInputs(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{},
		[]any{},
		"logging",
		map[string]any{"enable": false},
		map[string]any{"level": "debug"},
		map[string]any{"logging": map[string]any{}},
	}
	for _, in := range inputs {
		cfg, err := NormalizeConfig(in)
		if err != nil {
			t.Fatalf("normalize %#v: %v", in, err)
		}
		if cfg.Enable {
			t.Fatalf("%#v should normalize to disabled", in)
		}
	}
}

func TestNormalizeConfigStringFlags(t *testing.T) {
	cfg, err := NormalizeConfig(map[string]any{
		"enable":  "true",
		"console": map[any]any{"enable": "false"},
		"file":    map[string]any{"month": "no", "error_enable": 0},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !cfg.Enable || cfg.Console.Enable || cfg.File.Month {
		t.Fatalf("string flags not parsed: %+v", cfg)
	}
	if cfg.File.ErrorEnable {
		t.Fatalf("numeric flag not parsed")
	}
}

func TestNormalizeConfigTyped(t *testing.T) {
	in := DefaultConfig()
	in.Level = "error"
	cfg, err := NormalizeConfig(in)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == in || cfg.Level != "error" {
		t.Fatalf("typed config should be copied as is")
	}
}

func TestNormalizeConfigBadValue(t *testing.T) {
	_, err := NormalizeConfig(map[string]any{"enable": "maybe"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	cases := map[string]func(c *Config){
		"unit":         func(c *Config) { c.File.When = "fortnight" },
		"interval":     func(c *Config) { c.File.Interval = 0 },
		"basename":     func(c *Config) { c.File.Basename = " " },
		"backup_count": func(c *Config) { c.File.BackupCount = -1 },
		"error_suffix": func(c *Config) { c.File.ErrorSuffix = "" },
		"max_size":     func(c *Config) { c.File.When = "size"; c.File.MaxSize = 0 },
		"fmt":          func(c *Config) { c.Fmt = "%(unknown)s" },
	}
	for name, mutate := range cases {
		c := DefaultConfig()
		mutate(c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}

	c := DefaultConfig()
	c.File.Enable = false
	c.File.When = "fortnight"
	if err := c.Validate(); err != nil {
		t.Fatalf("disabled file block should not be validated: %v", err)
	}
}
