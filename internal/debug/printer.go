// Package debug renders a read-only view of the live store.
package debug

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/effect"
)

// Printer writes actor summaries. It only reads the store.
type Printer struct {
	out   io.Writer
	num   *message.Printer
	title cases.Caser
}

func NewPrinter(out io.Writer, tag language.Tag) *Printer {
	return &Printer{
		out:   out,
		num:   message.NewPrinter(tag),
		title: cases.Title(tag),
	}
}

// Actors prints one line per entity holding a Health component, ascending.
func (p *Printer) Actors(s *ecs.Store, tick uint64) error {
	if _, err := p.num.Fprintf(p.out, "Debugging actors (tick %d):\n", tick); err != nil {
		return err
	}
	healths := ecs.Map[component.Health](s)
	if healths == nil {
		return nil
	}
	var err error
	healths.Each(func(id ecs.EntityID, h component.Health) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintln(p.out, p.Line(s, id, h))
	})
	return err
}

// Line renders one actor.
func (p *Printer) Line(s *ecs.Store, id ecs.EntityID, h component.Health) string {
	var b strings.Builder
	name := fmt.Sprintf("#%d", id)
	if n, ok := ecs.GetComponent[component.Name](s, id); ok {
		name = p.title.String(string(n))
	}
	b.WriteString(p.num.Sprintf("  %s has %d/%d health", name, h.Current, h.Max))
	if h.Temporary > 0 {
		b.WriteString(p.num.Sprintf(" (+%d temporary)", h.Temporary))
	}
	if pos, ok := ecs.GetComponent[component.Position](s, id); ok {
		b.WriteString(fmt.Sprintf(" at (%.1f, %.1f)", pos.X, pos.Y))
	}
	var scores []string
	for _, ab := range component.Abilities {
		if v, ok := component.GetAbility(s, id, ab); ok {
			abbr := strings.ToUpper(ab.String()[:3])
			scores = append(scores, fmt.Sprintf("%s %d (%+d)", abbr, v.Effective, v.Modifier()))
		}
	}
	if len(scores) > 0 {
		b.WriteString(" [" + strings.Join(scores, ", ") + "]")
	}
	if l, ok := ecs.GetComponent[effect.List](s, id); ok && l.Len() > 0 {
		names := make([]string, 0, l.Len())
		for _, e := range l.Entries {
			names = append(names, e.Effect.Name())
		}
		b.WriteString(" effects: " + strings.Join(names, ", "))
	}
	return b.String()
}
