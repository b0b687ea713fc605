package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

// Config is the resolved runtime configuration
type Config struct {
	Server struct {
		Port           string
		AllowedOrigins []string
	}
	Storage   storage.Config
	Simulator struct {
		ConnectDelay time.Duration
		SuccessRate  float64
		AutoConnect  bool
	}
	Diagnostics struct {
		Interval time.Duration
		Samples  int
	}
	Log struct {
		Level       string
		Development bool
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./switchmaestro.yaml)")
	rootCmd.PersistentFlags().String("storage-driver", "", "storage backend: sqlite, postgres, memory or file")
	rootCmd.PersistentFlags().String("storage-path", "", "database or document path for the sqlite and file backends")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	viper.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage-driver"))
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("storage-path"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("SWITCHMAESTRO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8059")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("storage.driver", storage.DriverSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.quota_bytes", 5*1024*1024)
	v.SetDefault("simulator.connect_delay", 2*time.Second)
	v.SetDefault("simulator.success_rate", 0.7)
	v.SetDefault("simulator.auto_connect", false)
	v.SetDefault("diagnostics.interval", 2*time.Second)
	v.SetDefault("diagnostics.samples", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("client.server", "http://localhost:8059")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".switchmaestro"))
		}
		viper.AddConfigPath("/etc/switchmaestro/")
		viper.SetConfigName("switchmaestro")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Can't read config:", err)
		}
	}
}

// loadConfig resolves the configuration from v
func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Server.Port = v.GetString("server.port")
	cfg.Server.AllowedOrigins = splitList(v.GetStringSlice("server.allowed_origins"))

	storagePath, err := homedir.Expand(v.GetString("storage.path"))
	if err != nil {
		return nil, fmt.Errorf("failed to expand storage path: %w", err)
	}
	cfg.Storage = storage.Config{
		Driver:     v.GetString("storage.driver"),
		Path:       storagePath,
		DSN:        v.GetString("storage.dsn"),
		QuotaBytes: v.GetInt("storage.quota_bytes"),
	}

	cfg.Simulator.ConnectDelay = v.GetDuration("simulator.connect_delay")
	cfg.Simulator.SuccessRate = v.GetFloat64("simulator.success_rate")
	cfg.Simulator.AutoConnect = v.GetBool("simulator.auto_connect")

	cfg.Diagnostics.Interval = v.GetDuration("diagnostics.interval")
	cfg.Diagnostics.Samples = v.GetInt("diagnostics.samples")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Development = v.GetBool("log.development")

	if cfg.Server.Port == "" {
		return nil, fmt.Errorf("server.port must not be empty")
	}
	if cfg.Simulator.SuccessRate < 0 || cfg.Simulator.SuccessRate > 1 {
		return nil, fmt.Errorf("simulator.success_rate must be between 0 and 1, got %v", cfg.Simulator.SuccessRate)
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// newLogger builds the process logger from cfg
func newLogger(cfg *Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	zcfg.Level = level

	return zcfg.Build()
}
