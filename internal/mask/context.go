// Package mask renames every user-defined identifier of a program to an
// opaque token, respecting function scopes.
package mask

import (
	"fmt"
	"strconv"
)

// Options controls the token format: Prefix followed by a counter padded to
// Width digits.
type Options struct {
	Prefix string
	Width  int
}

// DefaultOptions returns the configured defaults.
func DefaultOptions() Options {
	return Options{Prefix: "_0x", Width: 4}
}

// Scope identifies the global scope (Func == -1) or the function defined by
// the top-level item at index Func.
type Scope struct {
	Func int
	Name string
}

// Global is the program-wide scope.
var Global = Scope{Func: -1, Name: "<global>"}

// Entry is one row of the masking table.
type Entry struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

type key struct {
	scope int
	name  string
}

// Context owns the counter and the (scope, name) -> token table of one run.
// It is not safe for concurrent use; masking runs once over the assembled
// program.
type Context struct {
	opts    Options
	counter int
	avoid   map[string]struct{}
	table   map[key]string
	entries []Entry
}

// NewContext returns an empty table.
func NewContext(opts Options) *Context {
	if opts.Prefix == "" {
		opts.Prefix = DefaultOptions().Prefix
	}
	if opts.Width < 0 {
		opts.Width = 0
	}
	return &Context{
		opts:  opts,
		avoid: make(map[string]struct{}),
		table: make(map[key]string),
	}
}

// Avoid marks names that tokens must never spell, typically identifiers that
// stay unmasked.
func (c *Context) Avoid(names ...string) {
	for _, n := range names {
		c.avoid[n] = struct{}{}
	}
}

// Token returns the token for name in scope, creating it on first use.
func (c *Context) Token(scope Scope, name string) string {
	k := key{scope: scope.Func, name: name}
	if tok, ok := c.table[k]; ok {
		return tok
	}
	tok := c.nextToken()
	c.table[k] = tok
	c.entries = append(c.entries, Entry{Scope: scope.Name, Name: name, Token: tok})
	return tok
}

// Lookup returns an existing token without creating one.
func (c *Context) Lookup(scope Scope, name string) (string, bool) {
	tok, ok := c.table[key{scope: scope.Func, name: name}]
	return tok, ok
}

// Entries returns the table in creation order.
func (c *Context) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of tokens handed out.
func (c *Context) Len() int {
	return len(c.entries)
}

func (c *Context) nextToken() string {
	for {
		c.counter++
		tok := c.opts.Prefix + pad(c.counter, c.opts.Width)
		if _, clash := c.avoid[tok]; !clash {
			return tok
		}
	}
}

func pad(n, width int) string {
	if width == 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%0*d", width, n)
}
