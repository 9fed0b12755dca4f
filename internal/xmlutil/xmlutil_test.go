package xmlutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const axeNS = "http://example.com/axe"

const sample = `<c:Config xmlns:c="http://example.com/axe" xmlns:o="http://example.com/other">
  <c:Server c:port="8080" o:port="9090" c:name="">
    <c:Host> 127.0.0.1 </c:Host>
    <c:Host>10.0.0.1</c:Host>
    <o:Host>ignored</o:Host>
    <c:Note>built <c:B>with</c:B> cmake</c:Note>
  </c:Server>
</c:Config>`

func server(t *testing.T) *etree.Element {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	root, err := LoadFile(path)
	require.NoError(t, err)
	s := Children(root, axeNS, "Server")
	require.Len(t, s, 1)
	return s[0]
}

func TestChildrenAndText(t *testing.T) {
	s := server(t)

	hosts := Children(s, axeNS, "Host")
	require.Len(t, hosts, 2, "elements of other namespaces are skipped")
	assert.Equal(t, "127.0.0.1", Text(hosts[0]))
	assert.Equal(t, "10.0.0.1", Text(hosts[1]))

	note := Children(s, axeNS, "Note")
	require.Len(t, note, 1)
	assert.Equal(t, "built with cmake", Text(note[0]))

	assert.Empty(t, Children(s, "", "Host"))
}

func TestAttrValue(t *testing.T) {
	s := server(t)

	port, err := AttrValue(s, axeNS, "port", strconv.Atoi, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	other, ok := Attr(s, "http://example.com/other", "port")
	assert.True(t, ok)
	assert.Equal(t, "9090", other)

	name, ok := Attr(s, axeNS, "name")
	assert.True(t, ok)
	assert.Empty(t, name)

	def := 30
	timeout, err := AttrValue(s, axeNS, "timeout", strconv.Atoi, &def)
	require.NoError(t, err)
	assert.Equal(t, 30, timeout)

	_, err = AttrValue(s, axeNS, "timeout", strconv.Atoi, nil)
	assert.ErrorContains(t, err, "attribute timeout is missing")

	_, err = AttrValue(s, axeNS, "name", strconv.Atoi, nil)
	assert.ErrorContains(t, err, `attribute name value "" is invalid`)
}

func TestNamespace(t *testing.T) {
	s := server(t)
	assert.Equal(t, "{http://example.com/axe}", Namespace(s))

	root, err := Load(strings.NewReader("<plain/>"))
	require.NoError(t, err)
	assert.Equal(t, "", Namespace(root))
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a><b></a>"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)

	_, err = Load(strings.NewReader(""))
	assert.Error(t, err)
}
