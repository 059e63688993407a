package layouts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
)

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "My account - Shop", CalculateTitle("My account", "Shop"))
	assert.Equal(t, "Shop", CalculateTitle("", "Shop"))
}

func TestBase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Base("My account", "Shop", cmp.Text("hello")).Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>My account - Shop</title>")
	assert.Contains(t, html, `hx-boost="true"`)
	assert.Contains(t, html, "/static/account.css")
	assert.Contains(t, html, "hello")
}
