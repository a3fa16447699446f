package solver

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate cleanly: %v", err)
	}
}

func TestConfigValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"h<=0", func(c *Config) { c.H = 0 }},
		{"dt<=0", func(c *Config) { c.DT = -1 }},
		{"flip_alpha<0", func(c *Config) { c.FlipAlpha = -0.1 }},
		{"flip_alpha>1", func(c *Config) { c.FlipAlpha = 1.1 }},
		{"implicit_beta<0", func(c *Config) { c.ImplicitBeta = -0.1 }},
		{"implicit_beta>1", func(c *Config) { c.ImplicitBeta = 1.1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected Validate to reject this config", tc.name)
		}
	}
}

func TestNewConfigReturnsConfigErrorValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.H = -1
	_, err := NewConfig(cfg)
	var ce *ConfigError
	if err == nil {
		t.Fatal("expected an error")
	}
	if ce, _ = err.(*ConfigError); ce == nil {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if ce.Field != "h" {
		t.Errorf("ConfigError.Field = %q, want %q", ce.Field, "h")
	}
}
