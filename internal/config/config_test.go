package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 300000, cfg.Cache.TTLMillis)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "div", cfg.Encapsulation.Tag)
	assert.Equal(t, []string{"weaver-component"}, cfg.Encapsulation.Classes)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_DevelopmentEnablesHotReload(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("server.environment", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.Development.HotReload)
}

func TestLoad_ExplicitValues(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("server.port", 3000)
	viper.Set("server.host", "0.0.0.0")
	viper.Set("server.url", "https://fragments.example.com")
	viper.Set("cache.ttl_ms", 60000)
	viper.Set("components.scan_paths", []string{"./ui"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://fragments.example.com", cfg.ServerURL())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, []string{"./ui"}, cfg.Components.ScanPaths)
}

func TestLoad_InvalidPort(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("server.port", 70000)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("server.environment", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ScanPathTraversalRejected(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("components.scan_paths", []string{"../outside"})

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadComponents(t *testing.T) {
	dir := t.TempDir()
	componentDir := filepath.Join(dir, "widget")
	require.NoError(t, os.MkdirAll(componentDir, 0o755))

	definition := `component: widget
params:
  locale:
    source: header
    type: string
views:
  list:
    template: list.html
    cache_ttl_ms: 60000
    params:
      page:
        source: query
        type: int
        required: true
  page:
    template: page.html
    blueprint: true
`
	require.NoError(t, os.WriteFile(filepath.Join(componentDir, "view.yaml"), []byte(definition), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(componentDir, "list.html"), []byte("<ul>{{.items}}</ul>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(componentDir, "page.html"), []byte("<html></html>"), 0o644))

	components, err := LoadComponents([]string{dir})
	require.NoError(t, err)
	require.Len(t, components, 1)

	component := components[0]
	assert.Equal(t, "widget", component.Path)
	assert.Equal(t, "header", component.Config.Params["locale"].Source)
	require.Len(t, component.Views, 2)

	list := component.Views["list"]
	assert.Equal(t, "<ul>{{.items}}</ul>", list.Template)
	assert.NotEmpty(t, list.TemplatePath)
	assert.Equal(t, time.Minute, list.CacheTTL)
	assert.True(t, list.Params["page"].Required)
	assert.False(t, list.Blueprint)

	page := component.Views["page"]
	assert.True(t, page.Blueprint)
}

func TestLoadComponents_MissingScanPathSkipped(t *testing.T) {
	components, err := LoadComponents([]string{"./does-not-exist"})
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestLoadComponents_ComponentNameTemplate(t *testing.T) {
	dir := t.TempDir()
	definition := `component: badge
views:
  show:
    template: Badge
    technology: templ
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.yaml"), []byte(definition), 0o644))

	components, err := LoadComponents([]string{dir})
	require.NoError(t, err)
	require.Len(t, components, 1)

	show := components[0].Views["show"]
	// No file named Badge exists, so the reference is kept verbatim
	// for the templ engine.
	assert.Equal(t, "Badge", show.Template)
	assert.Empty(t, show.TemplatePath)
	assert.Equal(t, "templ", show.Technology)
}

func TestLoadComponents_InvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.yaml"), []byte("component: broken\n"), 0o644))

	_, err := LoadComponents([]string{dir})
	assert.Error(t, err)
}
