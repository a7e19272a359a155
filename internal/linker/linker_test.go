package linker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"apk-recon/internal/gql"
	"apk-recon/internal/javaparser"
	"apk-recon/internal/program"
)

const testDataDir = "../../testdata/jadx_sample/sources"

func mustParse(t *testing.T, src string) []*javaparser.JavaClass {
	t.Helper()
	classes, err := javaparser.ParseJavaFile(src)
	if err != nil {
		t.Fatalf("ParseJavaFile: %v", err)
	}
	return classes
}

func poolOf(t *testing.T, sources ...string) *ComponentPool {
	t.Helper()
	pool := NewComponentPool()
	for _, src := range sources {
		for _, jc := range mustParse(t, src) {
			pool.AddJavaClass(jc)
		}
	}
	return pool
}

func TestResolveType(t *testing.T) {
	pool := poolOf(t,
		`package a.b;
import x.y.Imported;
import z.*;
public class Host {
    public static class Inner {}
}`,
		`package a.b; public class Sibling {}`,
		`package z; public class Wild {}`,
	)
	host := pool.GetClass("a.b.Host")
	if host == nil {
		t.Fatal("a.b.Host not in pool")
	}

	tests := []struct {
		name string
		want string
	}{
		{"Inner", "a.b.Host.Inner"},
		{"Imported", "x.y.Imported"},
		{"Sibling", "a.b.Sibling"},
		{"Wild", "z.Wild"},
		{"String", program.StringType},
		{"int", "int"},
		{"String[]", "java.lang.String[]"},
		{"Host.Inner", "a.b.Host.Inner"},
		{"Unknown", "a.b.Unknown"},
		{"a.b.Sibling", "a.b.Sibling"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := pool.ResolveType(host, tt.name); got != tt.want {
			t.Errorf("ResolveType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAddJavaClassRejectsDuplicates(t *testing.T) {
	pool := NewComponentPool()
	src := `package p; public class A {}`
	if !pool.AddJavaClass(mustParse(t, src)[0]) {
		t.Fatal("first AddJavaClass returned false")
	}
	if pool.AddJavaClass(mustParse(t, src)[0]) {
		t.Error("duplicate AddJavaClass returned true")
	}
	if len(pool.Classes()) != 1 {
		t.Errorf("pool has %d classes, want 1", len(pool.Classes()))
	}
}

const descriptorSrc = `package p;
public final class Op {
    private final String a;
    private final String b;
    private final String c;
    public Op(String a, String b, String c) { this.a = a; this.b = b; this.c = c; }
}`

const holderSrc = `package p;
public final class Ops {
    public static final Op FIRST = new Op("aaaaaaaaaaaa", "First", "query First {\n  x\n}");
    public static final Op SECOND;
    public final Op instance = new Op("bbbbbbbbbbbb", "Inst", "query Inst { y }");
    static {
        SECOND = new Op("cccccccccccc", "Second", "mutation Second { z }");
    }
}`

func TestBuildModelLinksStaticInitializers(t *testing.T) {
	mem := NewLinker(poolOf(t, descriptorSrc, holderSrc)).BuildModel()

	op, ok := mem.Class("p.Op")
	if !ok {
		t.Fatal("p.Op missing from model")
	}
	ctors := op.Constructors()
	if len(ctors) != 1 {
		t.Fatalf("p.Op has %d constructors, want 1", len(ctors))
	}
	want := []string{program.StringType, program.StringType, program.StringType}
	if got := ctors[0].Parameters(); len(got) != 3 || got[0] != want[0] || got[2] != want[2] {
		t.Errorf("constructor parameters = %v, want %v", got, want)
	}

	uses := ctors[0].UsedAt()
	var static, instance int
	for _, u := range uses {
		if u.Owner().Name() != "p.Ops" {
			t.Errorf("unexpected owner %s", u.Owner().Name())
		}
		if u.IsStaticInit() {
			static++
		} else if u.Method() == program.ConstructorName {
			instance++
		}
	}
	if static != 1 || instance != 1 {
		t.Errorf("uses: %d static, %d instance; want 1 and 1", static, instance)
	}

	ops, _ := mem.Class("p.Ops")
	first, _ := ops.Field("FIRST")
	args, ok := first.InitArgs()
	if !ok || len(args) != 3 {
		t.Fatalf("FIRST init = %v, %v", args, ok)
	}
	if args[0].String() != `("aaaaaaaaaaaa")` {
		t.Errorf("arg0 = %s", args[0])
	}
	if args[2].String() != `("query First {\n  x\n}")` {
		t.Errorf("arg2 keeps escapes: got %s", args[2])
	}
	if first.Type() != "p.Op" {
		t.Errorf("FIRST type = %s, want p.Op", first.Type())
	}

	second, _ := ops.Field("SECOND")
	if args, ok := second.InitArgs(); !ok || len(args) != 3 || args[1].String() != `("Second")` {
		t.Errorf("SECOND init from static block = %v, %v", args, ok)
	}
}

func TestBuildModelRecordsConstantLoads(t *testing.T) {
	mem := NewLinker(poolOf(t, `package p;
public class Q {
    private final String a;
    private final String b;
    private final String c;
    public Q() {
        this.a = "dddddddddddd";
        this.b = "Q";
        this.c = "query Q { q }";
    }
}`)).BuildModel()

	q, _ := mem.Class("p.Q")
	insns := q.Constructors()[0].Instructions()
	var consts []string
	for _, insn := range insns {
		if s, ok := insn.ConstString(); ok {
			consts = append(consts, s)
		}
	}
	if len(consts) != 3 || consts[0] != "dddddddddddd" || consts[2] != "query Q { q }" {
		t.Errorf("const-strings = %q", consts)
	}
}

func TestPickConstructor(t *testing.T) {
	mem := program.NewMemory()
	cls := mem.AddClass("p.T")
	str := cls.AddConstructor(program.StringType, "int")
	num := cls.AddConstructor("int", program.StringType)
	cls.AddConstructor()

	tests := []struct {
		name string
		args []javaparser.Argument
		want *program.MethodNode
	}{
		{"string first", []javaparser.Argument{{Kind: javaparser.KindString}, {Kind: javaparser.KindInt}}, str},
		{"int first", []javaparser.Argument{{Kind: javaparser.KindInt}, {Kind: javaparser.KindString}}, num},
		{"untyped falls back to first", []javaparser.Argument{{Kind: javaparser.KindOther}, {Kind: javaparser.KindOther}}, str},
		{"no arity match", []javaparser.Argument{{Kind: javaparser.KindInt}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickConstructor(cls, tt.args); got != tt.want {
				t.Errorf("pickConstructor picked %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadSourcesSample(t *testing.T) {
	mem, stats, err := LoadSources(testDataDir, SourceOptions{Workers: 4})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if stats.Files != 5 || stats.Failed != 0 || stats.Partial != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if mem.Len() != stats.Classes {
		t.Errorf("model has %d classes, stats report %d", mem.Len(), stats.Classes)
	}

	ops, _ := gql.NewExtractor().Extract(mem)
	want := []struct{ id, name string }{
		{"a1b2c3d4e5f6", "SubredditInfo"},
		{"0123456789ab", "UpdatePostVoteState"},
		{"b7c8d9e0f1a2", "HomeFeed"},
		{"c3d4e5f6a7b8", "UserProfile"},
	}
	if len(ops) != len(want) {
		t.Fatalf("got %d operations, want %d: %+v", len(ops), len(want), ops)
	}
	for i, w := range want {
		if ops[i].ID != w.id || ops[i].Name != w.name {
			t.Errorf("operation %d = %s/%s, want %s/%s", i, ops[i].ID, ops[i].Name, w.id, w.name)
		}
	}
	if ops[0].Definition != "query SubredditInfo($name: String!) {  subredditInfoByName(name: $name) {    id  }}" {
		t.Errorf("definition keeps escaped newlines: %q", ops[0].Definition)
	}
}

func TestLoadSourcesKeepsPartialFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Good.java"), []byte(`package p; public class Good {}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Bad.java"), []byte(`package p; public class Bad { int x = ; }`), 0644); err != nil {
		t.Fatal(err)
	}

	mem, stats, err := LoadSources(dir, SourceOptions{Workers: 2})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if stats.Partial != 1 {
		t.Errorf("Partial = %d, want 1", stats.Partial)
	}
	if _, ok := mem.Class("p.Good"); !ok {
		t.Error("p.Good missing")
	}
}

func TestLoadSourcesEmptyDir(t *testing.T) {
	_, _, err := LoadSources(t.TempDir(), SourceOptions{})
	if !errors.Is(err, program.ErrIncompatibleModel) {
		t.Errorf("err = %v, want ErrIncompatibleModel", err)
	}
}
