package app

import (
	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/config"
	"github.com/tturner/meshdiag/internal/errors"
	"github.com/tturner/meshdiag/internal/report"
)

type LayoutsOptions struct {
	Common  CommonOptions
	Version string // describe only the schema for this version
	Format  string
}

type layoutField struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Width  int    `json:"width"`
	Type   string `json:"type"`
}

type layoutDoc struct {
	Name     string        `json:"name"`
	Versions string        `json:"versions"`
	Size     int           `json:"size"`
	Fields   []layoutField `json:"fields"`
	Derived  []string      `json:"derived,omitempty"`
}

func newLayoutDoc(schema *apdu.Schema) layoutDoc {
	doc := layoutDoc{
		Name:     schema.Name,
		Versions: schema.Range.String(),
		Size:     schema.Layout.Size(),
		Derived:  schema.DerivedNames(),
	}
	for _, spec := range schema.Layout.Fields() {
		doc.Fields = append(doc.Fields, layoutField{
			Name:   spec.Name,
			Offset: schema.Layout.Offset(spec.Name),
			Width:  spec.Width,
			Type:   spec.TypeName(),
		})
	}
	return doc
}

func RunLayouts(opts LayoutsOptions) error {
	cfg, logger, err := setup(opts.Common)
	if err != nil {
		return err
	}
	defer logger.Close()

	// Layouts have no CSV form; a configured csv default falls back to text.
	if opts.Format != "" {
		if _, err := outputFormat(opts.Format, "", config.FormatText, config.FormatJSON); err != nil {
			return err
		}
	}

	schemas := apdu.TrafficDiagnosticsTable.Schemas()
	if opts.Version != "" {
		schema, _, err := apdu.TrafficDiagnosticsTable.ResolveString(opts.Version)
		if err != nil {
			return errors.WrapDecodeError(err, opts.Version)
		}
		schemas = []*apdu.Schema{schema}
	}

	out := opts.Common.stdout()
	if firstNonEmpty(opts.Format, cfg.Output.Format) == config.FormatJSON {
		docs := make([]layoutDoc, 0, len(schemas))
		for _, schema := range schemas {
			docs = append(docs, newLayoutDoc(schema))
		}
		return report.WriteJSON(out, docs)
	}

	style := report.NewTextStyle(cfg.ColorEnabled())
	if opts.Version != "" {
		return report.WriteSchemaText(out, schemas[0], style)
	}
	return report.WriteLayoutText(out, apdu.TrafficDiagnosticsTable, style)
}
