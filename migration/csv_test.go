package migration

import (
	"reflect"
	"testing"
)

func TestParseDelimited_QuotedFields(t *testing.T) {
	rows := ParseDelimited(`nome,unidade,quantidade
"Farinha, tipo ""especial""",kg,10`)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := []string{`Farinha, tipo "especial"`, "kg", "10"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("expected %v, got %v", want, rows[1])
	}
}

func TestParseDelimited_LineEndingsAndBlankLines(t *testing.T) {
	rows := ParseDelimited("a,b\r\n\r\nc,d\r e,f\n\n")
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected %v, got %v", want, rows)
	}
}

func TestParseDelimited_TrimsWhitespace(t *testing.T) {
	rows := ParseDelimited("  Arroz , kg ,  5  ")
	want := [][]string{{"Arroz", "kg", "5"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected %v, got %v", want, rows)
	}
}

func TestParseDelimited_UnterminatedQuote(t *testing.T) {
	rows := ParseDelimited(`"Feijao,kg`)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// The open quote swallows the comma; the row still parses.
	if rows[0][0] != "Feijao,kg" {
		t.Fatalf("expected open quote to absorb the rest of the line, got %v", rows[0])
	}
}

func TestField_OutOfRange(t *testing.T) {
	row := []string{"a"}
	if got := field(row, 0); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := field(row, 3); got != "" {
		t.Fatalf("expected empty string for missing column, got %q", got)
	}
}
