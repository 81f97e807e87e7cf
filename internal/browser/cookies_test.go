package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	content := `[
		{"name": "sid", "value": "abc", "domain": ".qq.com", "path": "/", "expires": 1900000000, "httpOnly": true, "secure": true, "sameSite": "Lax"},
		{"name": "lang", "value": "zh", "domain": "talent.alibaba.com"},
		{"name": "", "value": "orphan", "domain": "x.com"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	sid := cookies[0]
	assert.Equal(t, "sid", sid.Name)
	assert.Equal(t, ".qq.com", *sid.Domain)
	assert.Equal(t, 1900000000.0, *sid.Expires)
	assert.True(t, *sid.HttpOnly)
	assert.True(t, *sid.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, sid.SameSite)

	lang := cookies[1]
	assert.Equal(t, "/", *lang.Path)
	assert.Nil(t, lang.Expires)
	assert.Nil(t, lang.HttpOnly)
	assert.Nil(t, lang.SameSite)
}

func TestLoadCookies_Errors(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "not a list"}`), 0644))
	_, err = LoadCookies(path)
	assert.Error(t, err)
}

func TestScreenShotDebugger_NilIsNoop(t *testing.T) {
	var s *ScreenShotDebugger
	assert.NoError(t, s.CaptureAndLog(nil, "x", "y"))
	assert.Nil(t, NewScreenShotDebugger(""))
}
