// Package document reads YAML or JSON documents into ordered parameter maps.
// Mapping order in the document is kept, so the query built from it follows the
// order the keys were written in.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	query "github.com/caelisco/http-query"
)

// Decode reads a single document from r. Empty input gives an empty map.
func Decode(r io.Reader) (*query.Map, error) {
	var doc any
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return query.NewMap(), nil
		}
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}

	root := convert(doc)
	switch v := root.(type) {
	case *query.Map:
		return v, nil
	case query.Scalar:
		// A document holding only "null" or comments
		if v.IsNull() {
			return query.NewMap(), nil
		}
	}
	return nil, fmt.Errorf("%w: document root is a %s", query.ErrNotMapping, query.KindOf(root))
}

func DecodeBytes(b []byte) (*query.Map, error) {
	return Decode(bytes.NewReader(b))
}

func convert(v any) query.Value {
	switch t := v.(type) {
	case yaml.MapSlice:
		m := query.NewMap()
		for _, item := range t {
			m.Set(item.Key, convert(item.Value))
		}
		return m
	case []any:
		l := make(query.List, len(t))
		for i, e := range t {
			l[i] = convert(e)
		}
		return l
	}
	return query.ValueOf(v)
}
