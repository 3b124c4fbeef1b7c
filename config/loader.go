// config/loader.go
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/chaos/app/infra/go/kit/components/logging"
	"github.com/grand-thief-cash/chaos/app/infra/go/kit/pathutil"
)

// ErrUnsupportedFormat 文件扩展名不是 .yaml/.yml/.json
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// codec 一种配置文件格式的编解码
type codec struct {
	name      string
	unmarshal func(data []byte, out any) error
	marshal   func(v any) ([]byte, error)
}

var yamlCodec = codec{
	name:      "YAML",
	unmarshal: yaml.Unmarshal,
	marshal: func(v any) ([]byte, error) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	},
}

var jsonCodec = codec{
	name:      "JSON",
	unmarshal: json.Unmarshal,
	marshal: func(v any) ([]byte, error) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	},
}

// codecs 扩展名 -> 编解码
var codecs = map[string]codec{
	".yaml": yamlCodec,
	".yml":  yamlCodec,
	".json": jsonCodec,
}

func codecFor(filename string) (codec, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	c, ok := codecs[ext]
	if !ok {
		return codec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}

// Load 读取 root 下的配置文件并返回顶层 mapping。
// 文件不存在返回空 map; 读取或解析失败时记录错误日志并返回空 map, 不向上抛出。
// 只有扩展名不受支持时返回 ErrUnsupportedFormat。
func Load(filename, root string) (map[string]any, error) {
	c, err := codecFor(filename)
	if err != nil {
		return map[string]any{}, err
	}
	path := pathutil.Fix(root, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger().Error(context.Background(), "failed to read config file",
				zap.String("path", path), zap.Error(err))
		}
		return map[string]any{}, nil
	}

	var doc any
	if err := c.unmarshal(data, &doc); err != nil {
		logger().Error(context.Background(), fmt.Sprintf("failed to parse %s config", c.name),
			zap.String("path", path), zap.Error(err))
		return map[string]any{}, nil
	}
	return toMapping(doc), nil
}

// Dump 按扩展名把 obj 写入 root 下的文件, 必要时创建父目录
func Dump(obj map[string]any, filename, root string) error {
	c, err := codecFor(filename)
	if err != nil {
		return err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	data, err := c.marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode %s config: %w", c.name, err)
	}
	path := pathutil.Fix(root, filename)
	if err := pathutil.Ensure(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Decode 将 mapping 再序列化 + 反序列化到 out 指针, out 中已有的值作为默认值保留
func Decode(m map[string]any, out any) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("re-marshal mapping failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal mapping into target failed: %w", err)
	}
	return nil
}

// toMapping 只接受顶层为 mapping 的文档, 其它情况视为空
func toMapping(doc any) map[string]any {
	switch m := doc.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out
	default:
		return map[string]any{}
	}
}

func logger() logging.Logger {
	return logging.GetLogger("config")
}
