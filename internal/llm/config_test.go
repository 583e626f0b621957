package llm

import "testing"

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STUDENTSIM_LLM_PROVIDER",
		"STUDENTSIM_GEMINI_API_KEY", "GEMINI_API_KEY",
		"STUDENTSIM_OPENAI_API_KEY", "OPENAI_API_KEY",
		"STUDENTSIM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY",
		"STUDENTSIM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfigLLM(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != "gemini" {
		t.Errorf("default provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Temperature != 0 {
		t.Errorf("default temperature = %v, want 0", cfg.Temperature)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("default retry attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STUDENTSIM_LLM_PROVIDER", "openai")
	t.Setenv("STUDENTSIM_OPENAI_API_KEY", "sk-test")
	t.Setenv("STUDENTSIM_OPENAI_MODEL", "gpt-4o")

	cfg := ConfigFromEnv()

	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai config = %+v", cfg.OpenAI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigFromEnvVendorKeyFallback(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "vendor-key")

	cfg := ConfigFromEnv()

	if cfg.Gemini.APIKey != "vendor-key" {
		t.Errorf("gemini key = %q, want vendor env fallback", cfg.Gemini.APIKey)
	}
}

func TestValidateMissingKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("gemini without API key should fail validation")
	}

	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider needs no key: %v", err)
	}

	cfg.Provider = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should fail validation")
	}
}

func TestDiscoverConfigPriority(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected discovery to succeed")
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, gemini > openai > anthropic > openrouter priority broken", cfg.Provider)
	}
}

func TestDiscoverConfigNothingSet(t *testing.T) {
	clearProviderEnv(t)

	if _, ok := DiscoverConfig(); ok {
		t.Error("expected discovery to fail with no keys set")
	}
}
