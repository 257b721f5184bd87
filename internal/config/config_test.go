package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":    "postgres://localhost/colectivo",
		"JWT_SECRET":      "test-secret",
		"ADMIN_PASS_HASH": "$argon2id$fake",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "admin", cfg.AdminUser)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, "PlantillaOrden.docx", cfg.TemplatePath)
	require.Equal(t, "soffice", cfg.SofficeBin)
	require.False(t, cfg.RedisEnabled())
	require.Equal(t, 10, cfg.FormRateLimitMax)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9000"
	env["REDIS_URL"] = "redis://localhost:6379"
	env["ACCESS_TOKEN_TTL"] = "30m"
	env["SPECIAL_DESTINATIONS"] = "cantaritos, chapala ,"
	env["CORS_ALLOWED_ORIGINS"] = "https://admin.example.com,https://forms.example.com"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, []string{"cantaritos", "chapala"}, cfg.SpecialDestinations)
	require.Len(t, cfg.CORSAllowedOrigins, 2)
}

func TestLoadRequiredKeys(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)

	env = baseEnv()
	env["JWT_SECRET"] = ""
	_, err = LoadForTests(env)
	require.Error(t, err)

	env = baseEnv()
	env["ADMIN_PASS_HASH"] = ""
	_, err = LoadForTests(env)
	require.Error(t, err)
}

func TestAdminPassAcceptedInPlaceOfHash(t *testing.T) {
	env := baseEnv()
	env["ADMIN_PASS_HASH"] = ""
	env["ADMIN_PASS"] = "colectivo123"
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "colectivo123", cfg.AdminPass)
}
