package extract

import (
	"strings"
	"testing"
)

func TestScanSpansCoverDocThroughClosingBrace(t *testing.T) {
	decls := Scan(erc20Binding)
	if len(decls) != 5 {
		t.Fatalf("expected 5 decls, got %d", len(decls))
	}

	for _, decl := range decls {
		text := erc20Binding[decl.Start:decl.End]
		if !strings.HasPrefix(text, "//") {
			t.Fatalf("span does not start at doc: %q", text[:20])
		}
		if !strings.HasSuffix(text, "\n}") {
			t.Fatalf("span does not end at closing brace: %q", text[len(text)-20:])
		}
	}
}

func TestScanSkipsUndocumentedFuncs(t *testing.T) {
	src := "func helper() {\n\treturn\n}\n\n// Documented does things.\nfunc Documented() {\n}\n"
	decls := Scan(src)
	if len(decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(decls))
	}
	if decls[0].Header != "func Documented() {" {
		t.Fatalf("header mismatch: %q", decls[0].Header)
	}
}

func TestScanOneLineDecl(t *testing.T) {
	src := "// Short returns one.\nfunc Short() int { return 1 }\n\n// Next is next.\nfunc Next() {\n}\n"
	decls := Scan(src)
	if len(decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(decls))
	}
	if got := src[decls[0].Start:decls[0].End]; got != "// Short returns one.\nfunc Short() int { return 1 }" {
		t.Fatalf("one-line span mismatch: %q", got)
	}
}

func TestScanHandlesCRLF(t *testing.T) {
	src := "// A does a.\r\nfunc A() {\r\n\tx := 1\r\n}\r\n"
	decls := Scan(src)
	if len(decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(decls))
	}
	if decls[0].FirstStatement() != "x := 1" {
		t.Fatalf("first statement: %q", decls[0].FirstStatement())
	}
}
