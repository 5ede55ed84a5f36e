package parser

import (
	"fmt"
	"strings"
	"testing"
)

func nestedProgram(depth int) string {
	var b strings.Builder
	b.WriteString("tam x = 0 ;\n")
	for i := 0; i < depth; i++ {
		b.WriteString("çarkıFelek ( x < 10 ) basla\n")
	}
	b.WriteString("x = x + 1 ;\n")
	for i := 0; i < depth; i++ {
		b.WriteString("bitir\n")
	}
	return b.String()
}

func flatProgram(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "tam v%d = %d * ( v%d + 1 ) ;\n", i, i, i)
		fmt.Fprintf(&b, "olurMu ( v%d == 3 ) basla v%d = 0 ; bitir budaMıDegil basla v%d = v%d - 1 ; bitir\n", i, i, i, i)
	}
	return b.String()
}

func BenchmarkCheck_Flat(b *testing.B) {
	source := flatProgram(2000)
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Check(strings.NewReader(source), "bench.tk"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCheck_Nested(b *testing.B) {
	source := nestedProgram(200)
	for i := 0; i < b.N; i++ {
		if _, err := Check(strings.NewReader(source), "bench.tk"); err != nil {
			b.Fatal(err)
		}
	}
}

func TestDeepNesting(t *testing.T) {
	res, err := Check(strings.NewReader(nestedProgram(500)), "deep.tk")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Declared) != 1 || res.Declared[0] != "x" {
		t.Errorf("declared = %v", res.Declared)
	}
}

func TestFlatProgramRegistry(t *testing.T) {
	res, err := Check(strings.NewReader(flatProgram(50)), "flat.tk")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Declared) != 50 || res.Declared[49] != "v49" {
		t.Errorf("declared %d names, last %q", len(res.Declared), res.Declared[len(res.Declared)-1])
	}
}
