package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestOperationTimeoutDefaultsInheritGlobal(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("Failed to unmarshal defaults: %v", err)
	}
	cfg.applyFallbacks()

	if cfg.AI.Timeout != 120*time.Second {
		t.Fatalf("Expected global timeout of 120s, got %v", cfg.AI.Timeout)
	}

	operations := map[string]OperationAIConfig{
		"parse":   cfg.GetParseConfig(),
		"score":   cfg.GetScoreConfig(),
		"bullets": cfg.GetBulletsConfig(),
		"rewrite": cfg.GetRewriteConfig(),
	}

	for name, opCfg := range operations {
		if opCfg.Timeout == nil {
			t.Errorf("Expected %s timeout resolved from global, got nil", name)
			continue
		}
		if *opCfg.Timeout != 120*time.Second {
			t.Errorf("Expected %s timeout of 120s, got %v", name, *opCfg.Timeout)
		}
	}
}

func TestOperationTimeoutOverride(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ai.score.timeout", 30*time.Second)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("Failed to unmarshal defaults: %v", err)
	}
	cfg.applyFallbacks()

	scoreCfg := cfg.GetScoreConfig()
	if scoreCfg.Timeout == nil || *scoreCfg.Timeout != 30*time.Second {
		t.Errorf("Expected explicit score timeout of 30s, got %v", scoreCfg.Timeout)
	}
	parseCfg := cfg.GetParseConfig()
	if parseCfg.Timeout == nil || *parseCfg.Timeout != 120*time.Second {
		t.Errorf("Expected parse timeout to stay at global 120s, got %v", parseCfg.Timeout)
	}
}
