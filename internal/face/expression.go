// Package face defines the avatar's expression set and the rendering/display
// surfaces the control loop draws on.
package face

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Expression is a facial expression code as carried on the wire.
type Expression byte

// Codes follow the avatar library's enumeration order.
const (
	Happy Expression = iota
	Angry
	Sad
	Doubt
	Sleepy
	Neutral
)

// names keeps the enumeration in code order for listings
var names = func() *orderedmap.OrderedMap[Expression, string] {
	m := orderedmap.New[Expression, string]()
	m.Set(Happy, "happy")
	m.Set(Angry, "angry")
	m.Set(Sad, "sad")
	m.Set(Doubt, "doubt")
	m.Set(Sleepy, "sleepy")
	m.Set(Neutral, "neutral")
	return m
}()

// Valid reports whether e belongs to the closed enumeration.
func (e Expression) Valid() bool {
	_, ok := names.Get(e)
	return ok
}

func (e Expression) String() string {
	if name, ok := names.Get(e); ok {
		return name
	}
	return fmt.Sprintf("expression(%d)", byte(e))
}

// Expressions returns every known expression in code order.
func Expressions() []Expression {
	out := make([]Expression, 0, names.Len())
	for pair := names.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// ParseExpression accepts a name ("happy") or a numeric code ("0").
func ParseExpression(s string) (Expression, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for pair := names.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == s {
			return pair.Key, nil
		}
	}

	code, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown expression %q", s)
	}
	e := Expression(code)
	if !e.Valid() {
		return 0, fmt.Errorf("expression code %d out of range", code)
	}
	return e, nil
}

// Renderer draws the avatar. Init runs once during bring-up.
type Renderer interface {
	Init() error
	SetExpression(e Expression)
}

// Display is the text surface used for prompts and fatal messages.
type Display interface {
	SetTextSize(size int)
	Print(text string)
	Println(text string)
}
