// =============================================================================
// 📦 MACD 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		LLM:         DefaultLLMConfig(),
		Agent:       DefaultAgentConfig(),
		Negotiation: DefaultNegotiationConfig(),
		Redis:       DefaultRedisConfig(),
		Log:         DefaultLogConfig(),
		Metrics:     DefaultMetricsConfig(),
	}
}

// DefaultLLMConfig 返回默认 LLM 配置
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: "openai-compatible",
		APIKey:   "",
		BaseURL:  "https://api.openai.com",
		Model:    "gpt-4o",
		Timeout:  2 * time.Minute,
	}
}

// DefaultAgentConfig 返回默认角色调用配置
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Temperature: 0.7,
		MaxTokens:   2048,
		Timeout:     2 * time.Minute,
	}
}

// DefaultNegotiationConfig 返回默认协商流程配置
func DefaultNegotiationConfig() NegotiationConfig {
	return NegotiationConfig{
		MaxTransitions: 150,
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:   false,
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		PoolSize:  10,
		KeyPrefix: "macd:transcript:",
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "console",
		OutputPaths:  []string{"stderr"},
		EnableCaller: false,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: false,
		Addr:    ":9091",
	}
}
