package graphstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
)

// ErrUnsupportedFormat is returned for document extensions that cannot be
// read or written.
var ErrUnsupportedFormat = errors.New("unsupported rdf format")

// Format names a serialization by its usual file extension.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
)

// FormatForPath picks the serialization from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	case ".owl", ".rdf", ".xml":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Writable reports whether documents in f can be saved.
func (f Format) Writable() bool {
	return f == FormatTurtle || f == FormatNTriples
}

func (f Format) rdf() rdf.Format {
	switch f {
	case FormatTurtle:
		return rdf.Turtle
	case FormatNTriples:
		return rdf.NTriples
	default:
		return rdf.RDFXML
	}
}

// Decode reads every triple from r into a new graph.
func Decode(r io.Reader, format Format) (*Graph, error) {
	g := New()
	if err := DecodeInto(g, r, format); err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeInto reads every triple from r and adds it to g.
func DecodeInto(g *Graph, r io.Reader, format Format) error {
	dec := rdf.NewTripleDecoder(r, format.rdf())
	for {
		triple, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", format, err)
		}
		converted, err := fromRDF(triple)
		if err != nil {
			return err
		}
		if _, err := g.Add(converted); err != nil {
			return err
		}
	}
}

// Encode writes g to w in format.
func Encode(w io.Writer, g *Graph, format Format) error {
	if !format.Writable() {
		return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
	enc := rdf.NewTripleEncoder(w, format.rdf())
	for _, t := range g.triples {
		converted, err := toRDF(t)
		if err != nil {
			return err
		}
		if err := enc.Encode(converted); err != nil {
			return fmt.Errorf("encode %s: %w", t, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush encoder: %w", err)
	}
	return nil
}

// Load reads the document at path, choosing the format from its extension.
func Load(path string) (*Graph, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph document: %w", err)
	}
	defer file.Close()
	g, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// LoadDocument loads the persisted document. When it does not exist yet the
// ontology seed is loaded instead, and when neither is available an empty
// graph is returned. The second return value reports whether the document
// itself existed.
func LoadDocument(document, ontology string) (*Graph, bool, error) {
	g, err := Load(document)
	if err == nil {
		return g, true, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}
	if strings.TrimSpace(ontology) == "" {
		return New(), false, nil
	}
	g, err = Load(ontology)
	if err != nil {
		return nil, false, fmt.Errorf("load ontology seed: %w", err)
	}
	return g, false, nil
}

// Save writes g to path atomically: the document is written to a temporary
// file in the same directory and renamed over the destination.
func Save(g *Graph, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if !format.Writable() {
		return fmt.Errorf("%w: cannot write %s to %s", ErrUnsupportedFormat, format, path)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := Encode(tmp, g, format); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

func fromRDF(t rdf.Triple) (Triple, error) {
	s, err := termFromRDF(t.Subj)
	if err != nil {
		return Triple{}, err
	}
	p, err := termFromRDF(t.Pred)
	if err != nil {
		return Triple{}, err
	}
	o, err := termFromRDF(t.Obj)
	if err != nil {
		return Triple{}, err
	}
	return Triple{S: s, P: p, O: o}, nil
}

func termFromRDF(term rdf.Term) (Term, error) {
	switch v := term.(type) {
	case rdf.IRI:
		return IRI(v.String()), nil
	case rdf.Blank:
		return Blank(v.Serialize(rdf.NTriples)), nil
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang), nil
		}
		return TypedLiteral(v.String(), v.DataType.String()), nil
	default:
		return Term{}, fmt.Errorf("unexpected rdf term %T", term)
	}
}

func toRDF(t Triple) (rdf.Triple, error) {
	var subj rdf.Subject
	switch t.S.Kind {
	case KindIRI:
		iri, err := rdf.NewIRI(t.S.Value)
		if err != nil {
			return rdf.Triple{}, fmt.Errorf("subject %s: %w", t.S, err)
		}
		subj = iri
	case KindBlank:
		blank, err := rdf.NewBlank(t.S.Value)
		if err != nil {
			return rdf.Triple{}, fmt.Errorf("subject %s: %w", t.S, err)
		}
		subj = blank
	default:
		return rdf.Triple{}, fmt.Errorf("invalid subject %s", t.S)
	}

	pred, err := rdf.NewIRI(t.P.Value)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("predicate %s: %w", t.P, err)
	}

	obj, err := objectToRDF(t.O)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: obj}, nil
}

func objectToRDF(o Term) (rdf.Object, error) {
	switch o.Kind {
	case KindIRI:
		iri, err := rdf.NewIRI(o.Value)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", o, err)
		}
		return iri, nil
	case KindBlank:
		blank, err := rdf.NewBlank(o.Value)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", o, err)
		}
		return blank, nil
	case KindLiteral:
		switch {
		case o.Lang != "":
			lit, err := rdf.NewLangLiteral(o.Value, o.Lang)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", o, err)
			}
			return lit, nil
		case o.Datatype != "":
			dt, err := rdf.NewIRI(o.Datatype)
			if err != nil {
				return nil, fmt.Errorf("datatype %s: %w", o.Datatype, err)
			}
			return rdf.NewTypedLiteral(o.Value, dt), nil
		default:
			lit, err := rdf.NewLiteral(o.Value)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", o, err)
			}
			return lit, nil
		}
	default:
		return nil, fmt.Errorf("invalid object %s", o)
	}
}
