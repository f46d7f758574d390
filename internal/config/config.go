package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scamalytics struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"scamalytics"`

	Query struct {
		Threads int `yaml:"threads"`
	} `yaml:"query"`

	Input struct {
		IPFile        string `yaml:"ip_file"`
		UserAgentFile string `yaml:"useragent_file"`
	} `yaml:"input"`

	Output struct {
		BaseDir string `yaml:"base_dir"`
	} `yaml:"output"`
}

// LoadConfig 读取YAML配置。配置文件不存在时会生成一份带注释的默认配置
// 然后继续用默认值运行（所有配置项都有默认值，命令行参数优先级更高）
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("配置文件 %s 不存在，正在生成默认配置文件...\n", path)
			if err := generateDefaultConfig(path); err != nil {
				return nil, fmt.Errorf("生成默认配置文件失败: %w", err)
			}
			data, err = os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("读取生成的配置文件失败: %w", err)
			}
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults 给没填的配置项补默认值
func applyDefaults(cfg *Config) {
	if cfg.Scamalytics.TimeoutSeconds <= 0 {
		cfg.Scamalytics.TimeoutSeconds = 15
	}
	if cfg.Query.Threads <= 0 {
		cfg.Query.Threads = 10
	}
	if cfg.Output.BaseDir == "" {
		cfg.Output.BaseDir = "./results"
	}
}

// generateDefaultConfig 生成默认配置文件
func generateDefaultConfig(path string) error {
	defaultConfigContent := `# config.yaml

# scamalytics 查询设置
scamalytics:
  base_url: ""         # 查询入口，留空使用 https://scamalytics.com
  timeout_seconds: 15  # 单次请求超时时间（秒）

# 并发设置
query:
  threads: 10          # 并发worker数量，对应命令行 -t

# 输入配置（命令行 -i / -u 优先级更高）
input:
  ip_file: ""          # IP列表文件，每行一个IP
  useragent_file: ""   # User-Agent列表文件，每行一个UA，留空使用内置UA

# 结果输出目录（命令行 -o 指定完整路径时忽略此项）
output:
  base_dir: "./results"
`

	if err := os.WriteFile(path, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("写入默认配置文件失败: %w", err)
	}

	return nil
}
