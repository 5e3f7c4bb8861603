// Package shacl reads SHACL validation reports produced while harvesting
// DCAT catalogs and turns their results into messages for the harvest log.
package shacl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/knakk/rdf"
)

const (
	nsSHACL = "http://www.w3.org/ns/shacl#"
	rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

const (
	validationResult = nsSHACL + "ValidationResult"
	focusNode        = nsSHACL + "focusNode"
	resultPath       = nsSHACL + "resultPath"
	resultValue      = nsSHACL + "value"
	resultSeverity   = nsSHACL + "resultSeverity"
	resultMessage    = nsSHACL + "resultMessage"
	sourceConstraint = nsSHACL + "sourceConstraintComponent"
	sourceShape      = nsSHACL + "sourceShape"
)

// ErrNotParsed is returned when results are requested before Parse.
var ErrNotParsed = errors.New("shacl: report not parsed")

// Message describes one sh:ValidationResult of a report.
type Message struct {
	HarvestSourceID string `json:"harvest_source_id"`
	Page            int    `json:"page"`
	FocusNode       string `json:"focus_node"`
	Path            string `json:"path,omitempty"`
	Value           string `json:"value,omitempty"`
	Severity        string `json:"severity"`
	Constraint      string `json:"constraint,omitempty"`
	Shape           string `json:"shape,omitempty"`
	Text            string `json:"text"`
}

// String renders the message for the harvest log.
func (m Message) String() string {
	out := fmt.Sprintf("[%s page %d] %s", m.HarvestSourceID, m.Page, m.Severity)
	if m.FocusNode != "" {
		out += " " + m.FocusNode
	}
	if m.Path != "" {
		out += " " + m.Path
	}
	if m.Value != "" {
		out += " = " + m.Value
	}
	return out + ": " + m.Text
}

// Parser holds a report file and the harvest job it belongs to.
type Parser struct {
	Path            string
	HarvestSourceID string
	Page            int

	triples []rdf.Triple
	parsed  bool
}

func NewParser(path, harvestSourceID string, page int) *Parser {
	return &Parser{Path: path, HarvestSourceID: harvestSourceID, Page: page}
}

// Parse reads the Turtle report at Path.
func (p *Parser) Parse() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("shacl: open report: %w", err)
	}
	defer f.Close()
	return p.ParseReader(f)
}

// ParseReader reads a Turtle report from r, replacing any earlier graph.
func (p *Parser) ParseReader(r io.Reader) error {
	dec := rdf.NewTripleDecoder(r, rdf.Turtle)

	var triples []rdf.Triple
	for {
		triple, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("shacl: decode %s: %w", p.Path, err)
		}
		triples = append(triples, triple)
	}

	p.triples = triples
	p.parsed = true
	return nil
}

// Len returns the number of triples in the parsed graph.
func (p *Parser) Len() int {
	return len(p.triples)
}

// ErrorMessages returns one message per validation result, ordered by
// focus node and path.
func (p *Parser) ErrorMessages() ([]Message, error) {
	if !p.parsed {
		return nil, ErrNotParsed
	}

	properties := make(map[string]map[string]string)
	var results []string
	for _, triple := range p.triples {
		subject := triple.Subj.String()
		predicate := triple.Pred.String()

		if predicate == rdfType && triple.Obj.String() == validationResult {
			results = append(results, subject)
			continue
		}

		props, ok := properties[subject]
		if !ok {
			props = make(map[string]string)
			properties[subject] = props
		}
		if _, exists := props[predicate]; !exists || isEnglish(triple.Obj) {
			props[predicate] = termValue(triple.Obj)
		}
	}

	messages := make([]Message, 0, len(results))
	for _, result := range results {
		props := properties[result]
		messages = append(messages, Message{
			HarvestSourceID: p.HarvestSourceID,
			Page:            p.Page,
			FocusNode:       props[focusNode],
			Path:            props[resultPath],
			Value:           props[resultValue],
			Severity:        localName(props[resultSeverity]),
			Constraint:      localName(props[sourceConstraint]),
			Shape:           props[sourceShape],
			Text:            props[resultMessage],
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].FocusNode != messages[j].FocusNode {
			return messages[i].FocusNode < messages[j].FocusNode
		}
		return messages[i].Path < messages[j].Path
	})
	return messages, nil
}

func termValue(term rdf.Object) string {
	if literal, ok := term.(rdf.Literal); ok {
		return literal.String()
	}
	return term.String()
}

// reports often carry the message in several languages
func isEnglish(term rdf.Object) bool {
	literal, ok := term.(rdf.Literal)
	return ok && literal.Lang() == "en"
}

func localName(iri string) string {
	for i := len(iri) - 1; i >= 0; i-- {
		if iri[i] == '#' || iri[i] == '/' {
			return iri[i+1:]
		}
	}
	return iri
}
