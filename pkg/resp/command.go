package resp

import "strconv"

// Arg is one wire argument of a Command. Every Arg implementation produces
// the raw bytes of a single BulkString.
type Arg interface {
	argBytes() []byte
}

// Int64Arg renders as the decimal digits of n.
type Int64Arg int64

func (a Int64Arg) argBytes() []byte { return strconv.AppendInt(nil, int64(a), 10) }

// TextArg renders as the UTF-8 bytes of the string.
type TextArg string

func (a TextArg) argBytes() []byte { return []byte(a) }

// BytesArg renders as the bytes verbatim.
type BytesArg []byte

func (a BytesArg) argBytes() []byte { return []byte(a) }

// Command accumulates the argv of a single RESP request: the verb plus its
// arguments, always serialised as an Array of BulkStrings.
type Command struct {
	args [][]byte
}

// NewCommand starts a Command with verb as its first argument.
func NewCommand(verb string, args ...Arg) *Command {
	c := &Command{args: make([][]byte, 0, len(args)+1)}
	c.args = append(c.args, []byte(verb))
	for _, a := range args {
		c.Append(a)
	}
	return c
}

// Append adds one argument in place and returns the receiver, so calls can
// be chained fluently.
func (c *Command) Append(a Arg) *Command {
	c.args = append(c.args, a.argBytes())
	return c
}

// AppendText is a convenience wrapper around Append(TextArg(s)).
func (c *Command) AppendText(s string) *Command { return c.Append(TextArg(s)) }

// AppendInt64 is a convenience wrapper around Append(Int64Arg(n)).
func (c *Command) AppendInt64(n int64) *Command { return c.Append(Int64Arg(n)) }

// AppendBytes is a convenience wrapper around Append(BytesArg(b)).
func (c *Command) AppendBytes(b []byte) *Command { return c.Append(BytesArg(b)) }

// Extend appends another command's arguments (not its verb) to the
// receiver's argument list.
func (c *Command) Extend(other *Command) *Command {
	if len(other.args) > 1 {
		c.args = append(c.args, other.args[1:]...)
	}
	return c
}

// Verb returns the command's first argument, its name.
func (c *Command) Verb() string { return string(c.args[0]) }

// Args returns the accumulated argument list, including the verb.
func (c *Command) Args() [][]byte { return c.args }

// Encode appends the Array-of-BulkStrings wire encoding of the command to b.
func (c *Command) Encode(b []byte) []byte {
	b = append(b, '*')
	b = strconv.AppendInt(b, int64(len(c.args)), 10)
	b = append(b, '\r', '\n')
	for _, a := range c.args {
		b = appendBulk(b, a)
	}
	return b
}
