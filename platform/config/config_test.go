package config

import "testing"

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadDisablesEmailWithoutSMTPHost(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vitrine")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetEmailEnabled() {
		t.Fatal("expected email to be disabled without SMTP host")
	}
	if cfg.GetCatalogCacheTTL() <= 0 {
		t.Fatal("expected a positive default catalog cache TTL")
	}
}

func TestLoadRejectsHalfConfiguredAdmin(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vitrine")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when only ADMIN_EMAIL is set")
	}
}
