package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/jira_dashboard/models"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "JIRA_DOMAIN", "JIRA_EMAIL", "JIRA_API_TOKEN", "JIRA_TIMEOUT_SEC",
		"JIRA_ORDERS_PROJECT", "JIRA_WEB_PROJECT", "JIRA_ORDERS_LIMIT", "JIRA_WEB_LIMIT",
		"FIELD_MAPPING_FILE", "EMBED_ALLOWED_ORIGINS", "MONGO_URI", "MONGO_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "CM", cfg.OrdersProject)
	assert.Equal(t, "WEB", cfg.WebProject)
	assert.Equal(t, 100, cfg.OrdersLimit)
	assert.Equal(t, 50, cfg.WebLimit)
	assert.Equal(t, time.Duration(0), cfg.JiraTimeout)
	assert.Empty(t, cfg.EmbedAllowedOrigins)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, "jira_dashboard", cfg.MongoDB)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JIRA_DOMAIN", " acme.atlassian.net ")
	t.Setenv("JIRA_TIMEOUT_SEC", "30")
	t.Setenv("JIRA_ORDERS_LIMIT", "not-a-number")
	t.Setenv("EMBED_ALLOWED_ORIGINS", "https://portal.acme.test, ,https://intranet.acme.test")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "acme.atlassian.net", cfg.JiraDomain)
	assert.Equal(t, 30*time.Second, cfg.JiraTimeout)
	assert.Equal(t, 100, cfg.OrdersLimit)
	assert.Equal(t, []string{"https://portal.acme.test", "https://intranet.acme.test"}, cfg.EmbedAllowedOrigins)
}

func TestDefaultFieldMapping(t *testing.T) {
	m := DefaultFieldMapping()
	assert.NotEmpty(t, m.Order(models.FieldCustomer))
	assert.NotEmpty(t, m.Order(models.FieldOrderTotal))
	assert.NotEmpty(t, m.Order(models.FieldDateOrdered))
	assert.NotEmpty(t, m.WebProject(models.FieldEpicName))
}

func TestLoadFieldMapping_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orders:\n  customer: customfield_20000\n"), 0o600))

	m, err := LoadFieldMapping(path)
	require.NoError(t, err)
	assert.Equal(t, "customfield_20000", m.Order(models.FieldCustomer))
	assert.Equal(t, DefaultFieldMapping().Order(models.FieldOrderTotal), m.Order(models.FieldOrderTotal))
	assert.Equal(t, DefaultFieldMapping().WebProjects, m.WebProjects)
}

func TestLoadFieldMapping_Errors(t *testing.T) {
	_, err := LoadFieldMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("orders: [unterminated"), 0o600))
	_, err = LoadFieldMapping(path)
	assert.Error(t, err)
}

func TestLoadFieldMapping_EmptyPathIsDefault(t *testing.T) {
	m, err := LoadFieldMapping("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFieldMapping(), m)
}
