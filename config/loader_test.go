package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadYAMLAndJSON(t *testing.T) {
	root := t.TempDir()
	yml := "logging:\n  enable: true\n  level: debug\n  file:\n    basename: svc\n"
	if err := os.WriteFile(filepath.Join(root, "app.yaml"), []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	js := `{"logging": {"enable": false, "console": {"level": "error"}}}`
	if err := os.WriteFile(filepath.Join(root, "app.JSON"), []byte(js), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load("app.yaml", root)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	lg, ok := m["logging"].(map[string]any)
	if !ok || lg["level"] != "debug" || lg["enable"] != true {
		t.Fatalf("unexpected yaml mapping %#v", m)
	}

	m, err = Load("app.JSON", root)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	lg, ok = m["logging"].(map[string]any)
	if !ok || lg["enable"] != false {
		t.Fatalf("unexpected json mapping %#v", m)
	}
}

func TestLoadDegradesToEmpty(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"broken.yaml": "a: [1, 2\n",
		"broken.json": "{not json",
		"list.yml":    "- a\n- b\n",
		"empty.yaml":  "",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"broken.yaml", "broken.json", "list.yml", "empty.yaml", "missing.yaml"} {
		m, err := Load(name, root)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if m == nil || len(m) != 0 {
			t.Fatalf("%s: expected empty mapping, got %#v", name, m)
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	root := t.TempDir()
	if _, err := Load("app.toml", root); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if err := Dump(map[string]any{"a": 1}, "app.ini", root); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDumpThenLoad(t *testing.T) {
	root := t.TempDir()
	obj := map[string]any{"name": "日志", "nested": map[string]any{"n": 3}}
	for _, name := range []string{"out/a.yaml", "out/a.json"} {
		if err := Dump(obj, name, root); err != nil {
			t.Fatalf("dump %s: %v", name, err)
		}
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "日志") {
			t.Fatalf("%s: non-ascii text should be written as is: %s", name, data)
		}
		m, err := Load(name, root)
		if err != nil {
			t.Fatal(err)
		}
		if m["name"] != "日志" {
			t.Fatalf("%s: round trip lost name: %#v", name, m)
		}
	}
}

func TestDecodeKeepsDefaults(t *testing.T) {
	type server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}
	out := server{Host: "localhost", Port: 8080}
	if err := Decode(map[string]any{"port": 9090}, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Host != "localhost" || out.Port != 9090 {
		t.Fatalf("unexpected %+v", out)
	}
}
