// Package config loads the azvm settings file and resolves the scope of a
// command from its flags and the stored defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const (
	ConfigName = ".azvm"
	ConfigType = "yaml"
	EnvPrefix  = "AZVM"

	KeySubscriptionID     = "defaults.subscription_id"
	KeyResourceGroup      = "defaults.resource_group"
	KeyVaultResourceGroup = "defaults.vault_resource_group"
	KeyVaultName          = "defaults.vault_name"
	KeyCredential         = "azure.credential"
	KeyStateInterval      = "poll.state_interval"
	KeyBackoff            = "poll.backoff"
	KeyMaxInterval        = "poll.max_interval"
	KeyTimeout            = "poll.timeout"
	KeyConcurrency        = "backup.concurrency"
	KeyLogPath            = "general.log_path"
	KeyLogLevel           = "general.log_level"
	KeyLogFormat          = "general.log_format"

	defaultStateInterval = 2 * time.Second
	defaultMaxInterval   = 5 * time.Minute
)

var (
	ErrNoSubscription  = errors.New("no subscription given: pass --sub or store a default with --set-sub")
	ErrNoResourceGroup = errors.New("no resource group given: pass --group or store a default with --set-rg")
	ErrNoVault         = errors.New("no recovery services vault given: pass --vault-name or store a default with --set-vault")
)

// Defaults are the values used when a command is run without scope flags.
type Defaults struct {
	SubscriptionID     string `mapstructure:"subscription_id"      yaml:"subscription_id"`
	ResourceGroup      string `mapstructure:"resource_group"       yaml:"resource_group"`
	VaultResourceGroup string `mapstructure:"vault_resource_group" yaml:"vault_resource_group"`
	VaultName          string `mapstructure:"vault_name"           yaml:"vault_name"`
}

type AzureConfig struct {
	Credential string `mapstructure:"credential" yaml:"credential"`
}

type PollConfig struct {
	StateInterval time.Duration `mapstructure:"state_interval" yaml:"state_interval"`
	Backoff       bool          `mapstructure:"backoff"        yaml:"backoff"`
	MaxInterval   time.Duration `mapstructure:"max_interval"   yaml:"max_interval"`
	Timeout       time.Duration `mapstructure:"timeout"        yaml:"timeout"`
}

type BackupConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

type GeneralConfig struct {
	LogPath   string `mapstructure:"log_path"   yaml:"log_path"`
	LogLevel  string `mapstructure:"log_level"  yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

type Config struct {
	Defaults Defaults      `mapstructure:"defaults" yaml:"defaults"`
	Azure    AzureConfig   `mapstructure:"azure"    yaml:"azure"`
	Poll     PollConfig    `mapstructure:"poll"     yaml:"poll"`
	Backup   BackupConfig  `mapstructure:"backup"   yaml:"backup"`
	General  GeneralConfig `mapstructure:"general"  yaml:"general"`
}

// SetDefaults registers every key so environment variables are picked up
// by Unmarshal even when the config file does not mention them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySubscriptionID, "")
	v.SetDefault(KeyResourceGroup, "")
	v.SetDefault(KeyVaultResourceGroup, "")
	v.SetDefault(KeyVaultName, "")
	v.SetDefault(KeyCredential, "cli")
	v.SetDefault(KeyStateInterval, defaultStateInterval)
	v.SetDefault(KeyBackoff, false)
	v.SetDefault(KeyMaxInterval, defaultMaxInterval)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyLogPath, logger.DefaultLogPath)
	v.SetDefault(KeyLogLevel, logger.InfoLogLevel)
	v.SetDefault(KeyLogFormat, "text")
}

// Init points v at the config file and the AZVM_ environment. A missing
// config file is not an error; SaveDefaults creates it.
func Init(v *viper.Viper, cfgFile string) error {
	l := logger.Get()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to expand config path %s: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
		v.SetConfigType(ConfigType)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigName)
		v.SetConfigType(ConfigType)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			l.Debugf("No config file found, using defaults")
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	l.Debugf("Using config file: %s", v.ConfigFileUsed())
	return nil
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Poll.StateInterval <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyStateInterval, cfg.Poll.StateInterval)
	}
	if cfg.Backup.Concurrency < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyConcurrency, cfg.Backup.Concurrency)
	}
	return &cfg, nil
}

func (c *Config) Subscription(flag string) (string, error) {
	return resolve(flag, c.Defaults.SubscriptionID, ErrNoSubscription)
}

func (c *Config) ResourceGroup(flag string) (string, error) {
	return resolve(flag, c.Defaults.ResourceGroup, ErrNoResourceGroup)
}

func (c *Config) VaultName(flag string) (string, error) {
	return resolve(flag, c.Defaults.VaultName, ErrNoVault)
}

// VaultResourceGroup falls back to resourceGroup, the already resolved
// group of the VMs, when neither a flag nor a default is set.
func (c *Config) VaultResourceGroup(flag, resourceGroup string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return resolve(c.Defaults.VaultResourceGroup, resourceGroup, ErrNoResourceGroup)
}

// Scope resolves subscription and resource group in one go.
func (c *Config) Scope(subFlag, groupFlag string) (models.Scope, error) {
	sub, err := c.Subscription(subFlag)
	if err != nil {
		return models.Scope{}, err
	}
	rg, err := c.ResourceGroup(groupFlag)
	if err != nil {
		return models.Scope{}, err
	}
	return models.Scope{SubscriptionID: sub, ResourceGroup: rg}, nil
}

func resolve(flag, fallback string, missing error) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", missing
}

// SaveDefaults writes the non-empty fields of d to the config file in use,
// creating ~/.azvm.yaml when there is none yet. It returns the path written.
func SaveDefaults(v *viper.Viper, d Defaults) (string, error) {
	set := map[string]string{
		KeySubscriptionID:     d.SubscriptionID,
		KeyResourceGroup:      d.ResourceGroup,
		KeyVaultResourceGroup: d.VaultResourceGroup,
		KeyVaultName:          d.VaultName,
	}
	for key, value := range set {
		if value != "" {
			v.Set(key, value)
		}
	}

	path := v.ConfigFileUsed()
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		path = filepath.Join(home, ConfigName+"."+ConfigType)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return path, nil
}
