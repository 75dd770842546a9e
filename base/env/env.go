package env

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AUCTIONHOUSE"

// PodName example: k8ssta-auctionhouse-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: k8ssta
func EnvName() string {
	if name := viper.GetString("env_name"); name != "" {
		return name
	}
	return os.Getenv("ENV_NAME")
}

// AppName example: api
func AppName() string {
	if name := viper.GetString("app_name"); name != "" {
		return name
	}
	return os.Getenv("APP_NAME")
}

// Flags registers the command line flags shared by every binary
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "infra/configs/config.yaml", "path of the yaml config file")
	fs.Bool("debug", false, "enable debug logging")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.dbName", "auctionhouse")
	v.SetDefault("mongo.authDBName", "admin")
	v.SetDefault("mongo.poolSizeMultiplier", 2.0)
	v.SetDefault("redis.poolMultiplier", 4.0)
	v.SetDefault("events.channel", "listing-events")
	v.SetDefault("events.queueLength", 1024)
	v.SetDefault("events.workers", 4)
	v.SetDefault("marketplace.feePercentage", 2)
	v.SetDefault("datadog_host", "")
}

// Load binds flags and environment variables to v and reads the config file named by --config.
// A missing config file is not an error; every key can come from AUCTIONHOUSE_* variables.
func Load(v *viper.Viper, fs *pflag.FlagSet) error {
	setDefaults(v)
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil
		}
		return err
	}
	return nil
}
