package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// FindEnvFile returns the first .env file found in the working directory,
// its parent, its grandparent, or at $PORTAL_ENV.
func FindEnvFile() string {
	candidates := []string{
		".env",
		"../.env",
		"../../.env",
		os.Getenv("PORTAL_ENV"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func mergeEnvFile(v *viper.Viper, path string) error {
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := v.MergeConfigMap(ev.AllSettings()); err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	return nil
}
