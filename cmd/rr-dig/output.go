package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/haukened/rr-dig/internal/dns/services/lookup"
)

// printer renders a lookup result in one of three shapes: dig-style
// sections, -short value lines, or -json.
type printer struct {
	out     io.Writer
	short   bool
	jsonOut bool
	noColor bool
	elapsed time.Duration
}

// jsonRecord is the -json shape of one answer.
type jsonRecord struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Class string `json:"class"`
	TTL   uint32 `json:"ttl"`
	Data  string `json:"data"`
}

func (p printer) print(result lookup.Result) error {
	switch {
	case p.jsonOut:
		return p.printJSON(result)
	case p.short:
		return p.printShort(result)
	default:
		return p.printFull(result)
	}
}

func (p printer) printShort(result lookup.Result) error {
	for _, rr := range result.Answers {
		if _, err := fmt.Fprintln(p.out, rr.Text); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) printJSON(result lookup.Result) error {
	records := make([]jsonRecord, 0, len(result.Answers))
	for _, rr := range result.Answers {
		records = append(records, jsonRecord{
			Name:  rr.Name,
			Type:  rr.Type.String(),
			Class: rr.Class.String(),
			TTL:   rr.TTL,
			Data:  rr.Text,
		})
	}
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (p printer) printFull(result lookup.Result) error {
	faint := p.style(color.Faint)
	cyan := p.style(color.FgCyan)
	yellow := p.style(color.FgYellow)

	q := result.Question
	if _, err := fmt.Fprintf(p.out, "%s %s %s %s\n\n",
		faint.Sprint(";; QUESTION"),
		cyan.Sprint(q.Name),
		q.Class.String(),
		yellow.Sprint(q.Type.String()),
	); err != nil {
		return err
	}

	if len(result.Answers) == 0 {
		if _, err := fmt.Fprintln(p.out, faint.Sprint(";; no answers (NODATA)")); err != nil {
			return err
		}
	} else {
		for _, rr := range result.Answers {
			if _, err := fmt.Fprintf(p.out, "%s\t%d\t%s\t%s\t%s\n",
				cyan.Sprint(rr.Name),
				rr.TTL,
				rr.Class.String(),
				yellow.Sprint(rr.Type.String()),
				rr.Text,
			); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(p.out, "\n%s\n", faint.Sprintf(
		";; source: %s, time: %s", result.Source, p.elapsed.Round(time.Millisecond)))
	return err
}

// style returns a color that respects the no-color setting.
func (p printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}
	return c
}
