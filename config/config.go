package config

// 설정 파일은 YAML
//
//	gc:
//	  stack_roots: false
//	log:
//	  level: info
//	repl:
//	  prompt: ">> "
import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPrompt = ">> "

type Config struct {
	GC   GCConfig   `yaml:"gc"`
	Log  LogConfig  `yaml:"log"`
	REPL REPLConfig `yaml:"repl"`
}

type GCConfig struct {
	// 값 스택도 루트로 표시할지 여부. 기본값은 스코프 체인만 루트
	StackRoots bool `yaml:"stack_roots"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type REPLConfig struct {
	Prompt string `yaml:"prompt"`
}

func Default() *Config {
	return &Config{
		Log:  LogConfig{Level: "info"},
		REPL: REPLConfig{Prompt: DefaultPrompt},
	}
}

// 파일에 없는 항목은 기본값을 유지한다. 모르는 키는 에러
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	name := strings.TrimSpace(c.Log.Level)
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}
