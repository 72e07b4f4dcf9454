package tmxmap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse streams the XML document from r and calls h once for every start
// tag, in document order. Tile data stored as CSV inside a <data> element is
// replayed as a sequence of <tile gid="..."> elements.
func Parse(r io.Reader, h Handler) error {
	d := xml.NewDecoder(r)

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		line, column := d.InputPos()
		name := se.Name.Local

		attrs := make(Attributes, len(se.Attr))
		for _, a := range se.Attr {
			attrs[a.Name.Local] = a.Value
		}

		if err := h.StartElement(name, attrs); err != nil {
			return &ElementError{Name: name, Line: line, Column: column, Err: err}
		}

		if name != "data" {
			continue
		}

		switch encoding := attrs["encoding"]; encoding {
		case "":
			// Tiles follow as child elements
		case "csv":
			if err := replayCSV(d, line, h); err != nil {
				return err
			}
		default:
			return &ElementError{Name: name, Line: line, Column: column, Err: fmt.Errorf("%w: unsupported encoding %q", ErrMalformedAttribute, encoding)}
		}
	}
}

func replayCSV(d *xml.Decoder, line int, h Handler) error {
	var b bytes.Buffer

loop:
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			break loop
		case xml.StartElement:
			l, c := d.InputPos()
			return &ElementError{Name: t.Name.Local, Line: l, Column: c, Err: fmt.Errorf("%w: element inside CSV data", ErrMalformedAttribute)}
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return nil
	}

	for _, field := range strings.Split(b.String(), ",") {
		// Leading newlines belong to this field's row
		trimmed := strings.TrimLeft(field, " \t\r\n")
		line += strings.Count(field[:len(field)-len(trimmed)], "\n")

		if err := h.StartElement("tile", Attributes{"gid": strings.TrimSpace(trimmed)}); err != nil {
			return &ElementError{Name: "tile", Line: line, Err: err}
		}

		line += strings.Count(trimmed, "\n")
	}

	return nil
}
