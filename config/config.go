package config

import (
	"bytes"
	"fmt"
	"strings"

	"ministrylog/ministry"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyProfileName       = "profile.name"
	KeyProfileDepartment = "profile.department"
	KeyProfileChurch     = "profile.church_name"
	KeyTemplatePath      = "template.path"
	KeyTemplateURL       = "template.url"
	KeyStorageDBPath     = "storage.db_path"
	KeyOutputDir         = "output.dir"
	KeyLogMode           = "log.mode"
)

// FileName is the config file looked up in the home and working directories.
const FileName = ".ministrylog.yaml"

type Config struct {
	Profile  ministry.Profile `mapstructure:"profile"`
	Template TemplateConfig   `mapstructure:"template"`
	Storage  StorageConfig    `mapstructure:"storage"`
	Output   OutputConfig     `mapstructure:"output"`
	Log      LogConfig        `mapstructure:"log"`
}

// TemplateConfig locates the HWPX report template. URL wins over Path.
type TemplateConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url" validate:"omitempty,url,startswith=http"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=dev prod"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# ministrylog configuration
profile:
  name: "홍길동"
  department: "청년부"
  church_name: "오륜교회"

template:
  path: "./template.hwpx"
  url: ""

storage:
  db_path: "./ministrylog.db"

output:
  dir: "."

log:
  mode: "prod"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Profile.Name = strings.TrimSpace(cfg.Profile.Name)
	cfg.Log.Mode = strings.ToLower(strings.TrimSpace(cfg.Log.Mode))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyProfileChurch, ministry.DefaultChurchName)
	v.SetDefault(KeyTemplatePath, "./template.hwpx")
	v.SetDefault(KeyStorageDBPath, "./ministrylog.db")
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyLogMode, "prod")
}
