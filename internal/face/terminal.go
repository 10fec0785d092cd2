package face

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var glyphs = map[Expression]string{
	Happy:   "(^‿^)",
	Angry:   "(>_<)",
	Sad:     "(╥_╥)",
	Doubt:   "(¬_¬)",
	Sleepy:  "(-_-) zz",
	Neutral: "(•_•)",
}

var palette = map[Expression]color.Attribute{
	Happy:   color.FgGreen,
	Angry:   color.FgRed,
	Sad:     color.FgBlue,
	Doubt:   color.FgYellow,
	Sleepy:  color.FgMagenta,
	Neutral: color.FgWhite,
}

// Terminal renders the avatar and the text display on a terminal.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	colored  bool
	textSize int
	current  Expression
	ready    bool
}

// NewTerminal creates a terminal face writing to out.
func NewTerminal(out io.Writer, colored bool) *Terminal {
	return &Terminal{out: out, colored: colored, textSize: 1, current: Neutral}
}

// Init draws the neutral face.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ready = true
	t.current = Neutral
	t.draw()
	return nil
}

// SetExpression redraws the face; calls before Init are dropped.
func (t *Terminal) SetExpression(e Expression) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}
	t.current = e
	t.draw()
}

// Current returns the expression last drawn.
func (t *Terminal) Current() Expression {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Terminal) draw() {
	glyph, ok := glyphs[t.current]
	if !ok {
		glyph = "(?_?)"
	}
	line := fmt.Sprintf("%s  %s", glyph, t.current)

	if t.colored {
		c := color.New(palette[t.current], color.Bold)
		c.EnableColor()
		line = c.Sprint(line)
	}
	_, _ = fmt.Fprintln(t.out, line)
}

// SetTextSize sets the scale for subsequent text; sizes above one render bold.
func (t *Terminal) SetTextSize(size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size < 1 {
		size = 1
	}
	t.textSize = size
}

func (t *Terminal) Print(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, t.styled(text))
}

func (t *Terminal) Println(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, t.styled(text)+"\n")
}

func (t *Terminal) styled(text string) string {
	if t.textSize > 1 && t.colored {
		c := color.New(color.Bold)
		c.EnableColor()
		return c.Sprint(text)
	}
	return text
}
