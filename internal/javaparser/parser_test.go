package javaparser

import (
	"errors"
	"reflect"
	"testing"
)

const operationSource = `package com.reddit.graphql;

import com.reddit.graphql.model.Operation;
import java.util.List;

/* compiled from: Operations.kt */
public final class Operations {
    public static final Operation SUBREDDIT_INFO = new Operation("a1b2c3d4e5f6", "SubredditInfo", "query SubredditInfo {\n  id\n}");
    public static final Operation VOTE;
    private static final List<String> NAMES = null;
    private final int count;

    static {
        VOTE = new Operation("0123456789ab", "Vote", "mutation Vote");
    }

    public Operations(int count) {
        this.count = count;
    }

    public static final class Inner {
        private final String a;
        private final String b;
        private final String c;

        public Inner() {
            this.a = "ffffffffffff";
            this.b = "Inner";
            this.c = "query Inner";
        }

        public Inner(String a, String b, String c) {
            this.a = a;
            this.b = b;
            this.c = c;
        }
    }
}
`

func TestParseJavaFile(t *testing.T) {
	classes, err := ParseJavaFile(operationSource)
	if err != nil {
		t.Fatalf("ParseJavaFile failed: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("Expected outer and inner class, got %d", len(classes))
	}

	outer := classes[0]
	if outer.FullName() != "com.reddit.graphql.Operations" {
		t.Errorf("FullName = %s", outer.FullName())
	}
	wantImports := []string{"com.reddit.graphql.model.Operation", "java.util.List"}
	if !reflect.DeepEqual(outer.Imports, wantImports) {
		t.Errorf("Imports = %v", outer.Imports)
	}

	if len(outer.Fields) != 4 {
		t.Fatalf("Expected 4 fields, got %d", len(outer.Fields))
	}
	info := outer.Fields[0]
	if info.Name != "SUBREDDIT_INFO" || info.Type != "Operation" || !info.Static || !info.Final {
		t.Errorf("Unexpected field %+v", info)
	}
	if info.Init == nil || info.Init.Type != "Operation" || len(info.Init.Args) != 3 {
		t.Fatalf("Initializer not captured: %+v", info.Init)
	}
	def := info.Init.Args[2]
	if def.Kind != KindString || def.Text != `query SubredditInfo {\n  id\n}` {
		t.Errorf("String argument should keep escapes in Text: %+v", def)
	}
	if def.Value != "query SubredditInfo {\n  id\n}" {
		t.Errorf("String argument Value should be unescaped: %q", def.Value)
	}
	if outer.Fields[2].Type != "List" {
		t.Errorf("Generic arguments should be dropped, got %s", outer.Fields[2].Type)
	}
	if outer.Fields[3].Static || !outer.Fields[3].Final {
		t.Errorf("Instance field flags wrong: %+v", outer.Fields[3])
	}

	if len(outer.StaticAssignments) != 1 {
		t.Fatalf("Expected one static assignment, got %d", len(outer.StaticAssignments))
	}
	assign := outer.StaticAssignments[0]
	if assign.Target != "VOTE" || assign.Creation.Type != "Operation" || assign.Creation.Args[1].Value != "Vote" {
		t.Errorf("Unexpected assignment %+v", assign)
	}

	inner := classes[1]
	if inner.FullName() != "com.reddit.graphql.Operations.Inner" {
		t.Errorf("Inner FullName = %s", inner.FullName())
	}
	if len(inner.Methods) != 2 || !inner.Methods[0].Constructor || len(inner.Methods[0].Params) != 0 {
		t.Fatalf("Unexpected inner methods %+v", inner.Methods)
	}

	var consts []string
	for _, op := range inner.Methods[0].Body {
		if op.Kind == OpConstString {
			consts = append(consts, op.Value)
		}
	}
	if !reflect.DeepEqual(consts, []string{"ffffffffffff", "Inner", "query Inner"}) {
		t.Errorf("Constants = %v", consts)
	}

	params := inner.Methods[1].Params
	if len(params) != 3 || params[0].Type != "String" || params[2].Name != "c" {
		t.Errorf("Params = %+v", params)
	}
}

func TestParseMethodBodies(t *testing.T) {
	src := `package a;
class Holder {
    static final Op X;
    static {
        X = new Op(1, "abcdefabcdef", true, 'c', null, 2L, "Name", "query Q");
        register(new Op("x"));
    }
    void run() {
        Runnable r = new Runnable() {
            public void run() { log("inside"); }
        };
        return;
    }
    Holder() {
    }
}`

	classes, err := ParseJavaFile(src)
	if err != nil {
		t.Fatalf("ParseJavaFile failed: %v", err)
	}
	holder := classes[0]

	clinit := holder.Methods[0]
	if clinit.Name != "<clinit>" || !clinit.Static {
		t.Fatalf("Static initializer missing: %+v", clinit)
	}
	if len(clinit.Creations) != 2 {
		t.Fatalf("Expected 2 creations, got %d", len(clinit.Creations))
	}

	var kinds []string
	for _, a := range clinit.Creations[0].Args {
		kinds = append(kinds, a.Kind)
	}
	want := []string{KindInt, KindString, KindBoolean, KindChar, KindNull, KindLong, KindString, KindString}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Argument kinds = %v, expected %v", kinds, want)
	}

	run := holder.Methods[1]
	for _, op := range run.Body {
		if op.Kind == OpConstString {
			t.Errorf("Anonymous class body leaked into run(): %+v", op)
		}
	}
	if len(run.Creations) != 1 || run.Creations[0].Type != "Runnable" {
		t.Errorf("Creations = %+v", run.Creations)
	}

	ctor := holder.Methods[2]
	if !ctor.Constructor || len(ctor.Body) != 0 {
		t.Errorf("Empty constructor should have no ops: %+v", ctor)
	}
}

func TestParseInterfaceConstants(t *testing.T) {
	src := `package a;
public interface Ops {
    Op GET = new Op("abcdefabcdef", "Get", "query Get");
}`
	classes, err := ParseJavaFile(src)
	if err != nil {
		t.Fatal(err)
	}
	f := classes[0].Fields[0]
	if !f.Static || !f.Final || f.Init == nil {
		t.Errorf("Interface constant should be static final with init: %+v", f)
	}
}

func TestParseSyntaxError(t *testing.T) {
	src := `package a;
class Broken {
    private final String a;
    void m( {
}`
	if _, err := ParseJavaFile(src); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Expected ErrSyntax, got %v", err)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"String", "String"},
		{"java.lang.String", "java.lang.String"},
		{"Map<String, List<Integer>>", "Map"},
		{"String[]", "String[]"},
		{"Outer.Inner<T>", "Outer.Inner"},
	}
	for _, tt := range tests {
		if got := normalizeType(tt.in); got != tt.want {
			t.Errorf("normalizeType(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
