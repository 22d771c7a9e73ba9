// Package wikitext models template invocations and renders them to wikitext.
//
// A Template is an ordered, named-parameter tree: parameter values may be
// plain text, numbers, or other templates, nested to arbitrary depth. The
// same tree renders to three textual forms depending on where the invocation
// is embedded (see String, Multiline and Inline).
package wikitext

import (
	"strconv"
	"strings"
)

// Value is a single template parameter value.
type Value interface {
	render(mode renderMode, level int) string
}

type renderMode int

const (
	modeDefault renderMode = iota
	modeMultiline
	modeInline
)

// Text is a plain string parameter value.
type Text string

func (t Text) render(renderMode, int) string { return string(t) }

// Number is an integer parameter value, e.g. a year.
type Number int

func (n Number) render(renderMode, int) string { return strconv.Itoa(int(n)) }

type parameter struct {
	name  string
	value Value
}

// Template is one wikitext template invocation.
//
// Parameter insertion order is significant and preserved verbatim in every
// render mode. A template with no parameters renders as {{Name}} regardless
// of mode.
type Template struct {
	name       string
	subst      bool
	parameters []parameter
	positional []Value
}

// New returns a template invocation with the given name.
func New(name string) *Template {
	return &Template{name: name}
}

// NewSubst returns a template that renders with the "subst:" prefix, causing
// the wiki to expand it once at save time.
func NewSubst(name string) *Template {
	return &Template{name: name, subst: true}
}

// NewPositional returns a template whose values are passed positionally,
// rendered pipe-joined with no parameter labels. Used for compact
// annotation-style invocations such as numbered comment templates.
func NewPositional(name string, subst bool, values ...Value) *Template {
	t := &Template{name: name, subst: subst}
	t.positional = append(t.positional, values...)
	return t
}

// AddParameter appends a plain text parameter. Adding a name that is already
// present replaces its value in place, keeping the original position.
func (t *Template) AddParameter(name, value string) *Template {
	return t.add(name, Text(value))
}

// AddNumber appends an integer parameter.
func (t *Template) AddNumber(name string, value int) *Template {
	return t.add(name, Number(value))
}

// AddTemplate appends a nested template parameter.
func (t *Template) AddTemplate(name string, value *Template) *Template {
	return t.add(name, value)
}

func (t *Template) add(name string, value Value) *Template {
	for i, p := range t.parameters {
		if p.name == name {
			t.parameters[i].value = value
			return t
		}
	}
	t.parameters = append(t.parameters, parameter{name: name, value: value})
	return t
}

// Len reports the number of parameters, positional or named.
func (t *Template) Len() int {
	if len(t.positional) > 0 {
		return len(t.positional)
	}
	return len(t.parameters)
}

// String renders the default form: one parameter per line with no
// indentation. Nested templates embedded as values render in their inline
// form. Suitable for single-level templates written directly to a page.
func (t *Template) String() string {
	return t.renderMode(modeDefault, 0)
}

// Multiline renders the block form: one parameter per line, nested templates
// rendered recursively one indentation level deeper, with the closing braces
// aligned to the node's own indentation.
func (t *Template) Multiline() string {
	return t.renderMode(modeMultiline, 0)
}

// Inline renders the whole invocation on a single line with no spaces around
// parameter separators. Used when the invocation is embedded as a value in a
// non-block context.
func (t *Template) Inline() string {
	return t.renderMode(modeInline, 0)
}

// render implements Value so a template can be a parameter of another one.
func (t *Template) render(mode renderMode, level int) string {
	switch mode {
	case modeMultiline:
		return t.renderMode(modeMultiline, level)
	default:
		return t.renderMode(modeInline, level)
	}
}

func (t *Template) renderMode(mode renderMode, level int) string {
	var b strings.Builder
	b.WriteString("{{")
	if t.subst {
		b.WriteString("subst:")
	}
	b.WriteString(t.name)

	if len(t.positional) > 0 {
		for _, v := range t.positional {
			b.WriteString("|")
			b.WriteString(v.render(modeInline, level))
		}
		b.WriteString("}}")
		return b.String()
	}

	if len(t.parameters) == 0 {
		b.WriteString("}}")
		return b.String()
	}

	switch mode {
	case modeInline:
		for _, p := range t.parameters {
			b.WriteString("|")
			b.WriteString(p.name)
			b.WriteString("=")
			b.WriteString(p.value.render(modeInline, level))
		}
		b.WriteString("}}")
	case modeMultiline:
		pad := strings.Repeat("  ", level)
		for _, p := range t.parameters {
			b.WriteString("\n")
			b.WriteString(pad)
			b.WriteString("| ")
			b.WriteString(p.name)
			b.WriteString(" = ")
			b.WriteString(p.value.render(modeMultiline, level+1))
		}
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("}}")
	default:
		for _, p := range t.parameters {
			b.WriteString("\n| ")
			b.WriteString(p.name)
			b.WriteString(" = ")
			b.WriteString(p.value.render(modeDefault, level))
		}
		b.WriteString("\n}}")
	}
	return b.String()
}
