package resp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandShape(t *testing.T) {
	cmd := NewCommand("XADD", TextArg("mystream"), TextArg("*"), TextArg("type"), TextArg("Msg"))
	encoded := cmd.Encode(nil)

	k := len(cmd.Args())
	prefix := fmt.Sprintf("*%d\r\n$%d\r\nXADD\r\n", k, len("XADD"))
	require.True(t, len(encoded) >= len(prefix))
	assert.Equal(t, prefix, string(encoded[:len(prefix)]))
}

func TestCommandExtend(t *testing.T) {
	base := NewCommand("XREAD").AppendText("COUNT").AppendInt64(10)
	tail := NewCommand("ignored-verb").AppendText("STREAMS").AppendText("s1")
	base.Extend(tail)

	args := base.Args()
	require.Len(t, args, 5)
	assert.Equal(t, "XREAD", string(args[0]))
	assert.Equal(t, "COUNT", string(args[1]))
	assert.Equal(t, "10", string(args[2]))
	assert.Equal(t, "STREAMS", string(args[3]))
	assert.Equal(t, "s1", string(args[4]))
}

func TestDecodeTruncatedArrayElementNeedsMore(t *testing.T) {
	// "*2\r\n$3\r\nfoo\r\n" is missing its second element entirely.
	partial := []byte("*2\r\n$3\r\nfoo\r\n")
	_, n, err := Decode(partial)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
