package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<ns:root xmlns:ns="urn:test" kind="outer">
  <first>one</first>
  <nested>
    <first>two</first>
    <deep attr="x">three</deep>
  </nested>
  <empty></empty>
</ns:root>`

func TestParseBytesNamespaceInsensitive(t *testing.T) {
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, "outer", root.Attr("kind"))
}

func TestFindFirstStopsAtFirstMatch(t *testing.T) {
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	node := root.FindFirst("FIRST")
	require.NotNil(t, node)
	assert.Equal(t, "one", node.TrimmedText())
	assert.Nil(t, root.FindFirst("absent"))
}

func TestFindAllDocumentOrder(t *testing.T) {
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	nodes := root.FindAll("first")
	require.Len(t, nodes, 2)
	assert.Equal(t, "one", nodes[0].TrimmedText())
	assert.Equal(t, "two", nodes[1].TrimmedText())
}

func TestFindTextAliasPriority(t *testing.T) {
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	// Empty elements do not satisfy an alias; probing continues.
	assert.Equal(t, "three", root.FindText("empty", "deep"))
	assert.Equal(t, "", root.FindText("empty", "absent"))
}

func TestChildTextDirectOnly(t *testing.T) {
	root, err := ParseBytes([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "one", root.ChildText("first"))
	assert.Equal(t, "", root.ChildText("deep"))
}

func TestParseBytesBOMAndErrors(t *testing.T) {
	root, err := ParseBytes(append([]byte{0xEF, 0xBB, 0xBF}, []byte("<a>bom</a>")...))
	require.NoError(t, err)
	assert.Equal(t, "bom", root.TrimmedText())

	_, err = ParseBytes([]byte("no markup here"))
	assert.Error(t, err)
}

//Personal.AI order the ending
