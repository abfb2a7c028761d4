package config

import "testing"

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("QUICKKART_SERVER_PORT", "9191")
	t.Setenv("QUICKKART_CHECKOUT_QR_SHOWN_SECONDS", "1")

	cfg := Load()
	if cfg.Server.Port != "9191" {
		t.Fatalf("expected env port override, got %s", cfg.Server.Port)
	}
	if cfg.Checkout.QRShownSeconds != 1 {
		t.Fatalf("expected env stage override, got %d", cfg.Checkout.QRShownSeconds)
	}
	// Untouched keys still fall back to defaults.
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver, got %s", cfg.Database.Driver)
	}
}
