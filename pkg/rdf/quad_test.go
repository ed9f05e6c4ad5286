package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadFormat_IRIObject(t *testing.T) {
	q := Quad{
		Subject:   NewIRI("http://example.org/a"),
		Predicate: NewIRI("http://example.org/p"),
		Object:    NewIRI("http://example.org/b"),
	}
	assert.Equal(t, "<http://example.org/a> <http://example.org/p> <http://example.org/b> .", q.Format())
}

func TestQuadFormat_LiteralObjectWithGraph(t *testing.T) {
	q := Quad{
		Subject:   NewIRI("http://example.org/a"),
		Predicate: NewIRI("http://example.org/p"),
		Object:    NewString("hello"),
		Graph:     NewIRI("http://example.org/g"),
	}
	assert.Equal(t, `<http://example.org/a> <http://example.org/p> "hello" <http://example.org/g> .`, q.Format())
}

func TestQuadFormat_TypedLiteral(t *testing.T) {
	q := Quad{
		Subject:   NewIRI("http://example.org/a"),
		Predicate: NewIRI("http://example.org/p"),
		Object:    NewBool(false),
	}
	assert.Equal(t, `<http://example.org/a> <http://example.org/p> "false"^^<http://www.w3.org/2001/XMLSchema#boolean> .`, q.Format())
}

func TestNTriplesEscape(t *testing.T) {
	assert.Equal(t, `line1\nline2`, NTriplesEscape("line1\nline2"))
	assert.Equal(t, `say \"hi\"`, NTriplesEscape(`say "hi"`))
}

func TestEntityIRI(t *testing.T) {
	assert.Equal(t, BaseIRI+"RS1_RS2_R1", EntityIRI("RS1_RS2_R1"))
}

func TestEntityIRI_PercentEncodesSpecialChars(t *testing.T) {
	iri := EntityIRI("weird id")
	assert.Contains(t, iri, "%20")
}

func TestDateIRI(t *testing.T) {
	assert.Equal(t, BaseIRI+"date_20250115", DateIRI("2025-01-15"))
}

func TestSoftwareIRI_ZeroPadded(t *testing.T) {
	assert.Equal(t, BaseIRI+"software_0007", SoftwareIRI(7))
	assert.Equal(t, BaseIRI+"software_1234", SoftwareIRI(1234))
}

func TestMetadataGraphIRI(t *testing.T) {
	assert.Equal(t, BaseIRI+"FS_TechMeta_hd1", MetadataGraphIRI("FS", "hd1"))
}

func TestStructureGraphIRI(t *testing.T) {
	assert.Equal(t, BaseIRI+"structure/RS1_RS1", StructureGraphIRI("RS1_RS1"))
}
