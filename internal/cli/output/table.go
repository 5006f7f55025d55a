package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// nullText is how null values appear in table and markdown output.
const nullText = "NULL"

// Table renders t in the effective mode.
func (r *Renderer) Table(t *core.Table) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return renderJSON(r.out, t)
	case ModeYAML:
		return renderYAML(r.out, t)
	case ModeCSV:
		renderCSV(r.out, t)
		return nil
	case ModeMarkdown:
		renderMarkdown(r.out, t)
		return nil
	default:
		renderTable(r.out, t)
		return nil
	}
}

func newWriter(w io.Writer, t *core.Table, null string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = formatValue(v, null)
		}
		tw.AppendRow(cells)
	}
	return tw
}

func renderTable(w io.Writer, t *core.Table) {
	if t.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	newWriter(w, t, nullText).Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", t.Len())
}

func renderMarkdown(w io.Writer, t *core.Table) {
	if t.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	newWriter(w, t, nullText).RenderMarkdown()
}

func renderCSV(w io.Writer, t *core.Table) {
	newWriter(w, t, "").RenderCSV()
}

func formatValue(v core.Value, null string) string {
	if v.IsNull() {
		return null
	}
	return v.String()
}

// record is one row that encodes as an object with keys in column order.
type record struct {
	names  []string
	values []core.Value
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, name := range r.names {
		var val yaml.Node
		if err := val.Encode(r.values[i]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&val)
	}
	return node, nil
}

func records(t *core.Table) []record {
	names := t.Names()
	out := make([]record, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = record{names: names, values: row}
	}
	return out
}

func renderJSON(w io.Writer, t *core.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records(t))
}

func renderYAML(w io.Writer, t *core.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(t)); err != nil {
		return err
	}
	return enc.Close()
}
