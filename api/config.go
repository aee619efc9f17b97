package api

import (
	"time"

	"github.com/madihg/singulars/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	LimitsConfig
}

type StorageConfig struct {
	TableNamePerformances string
	TableNamePoems        string
	TableNameVotes        string
}

type ServerConfig struct {
	Port int
}

type LimitsConfig struct {
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
}

func ReadConfig() *Config {
	return &Config{
		StorageConfig: StorageConfig{
			TableNamePerformances: viper.GetString("storage.TableNamePerformances"),
			TableNamePoems:        viper.GetString("storage.TableNamePoems"),
			TableNameVotes:        viper.GetString("storage.TableNameVotes"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		LimitsConfig: LimitsConfig{
			RateLimitWindow:      time.Duration(getIntOrDefault("limits.RateLimitWindowSeconds", 60)) * time.Second,
			RateLimitMaxRequests: getIntOrDefault("limits.RateLimitMaxRequests", 30),
		},
	}
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
