package analyzer

import (
	"errors"
	"reflect"
	"testing"

	"apk-recon/internal/model"
	"apk-recon/internal/oauth"
	"apk-recon/internal/program"
	"apk-recon/internal/xmlparser"
)

const str = program.StringType

func sampleModel() *program.Memory {
	m := program.NewMemory()

	op := m.AddClass("com.reddit.graphql.Operation")
	op.AddField("id", str, true)
	op.AddField("name", str, true)
	op.AddField("document", str, true)
	ctor := op.AddConstructor(str, str, str)

	holder := m.AddClass("com.reddit.graphql.Operations")
	holder.AddField("SUBREDDIT", "com.reddit.graphql.Operation", true).SetInit(
		program.StringOperand("a1b2c3d4e5f6"),
		program.StringOperand("SubredditInfo"),
		program.StringOperand(`query SubredditInfo {\n  id\n}`),
	)
	ctor.AddUse(holder, program.StaticInitName)

	noArg := m.AddClass("com.reddit.graphql.Vote")
	noArg.AddField("a", str, true)
	noArg.AddField("b", str, true)
	noArg.AddField("c", str, true)
	noArg.AddConstructor(str, str, str)
	noArg.AddConstructor().SetInstructions(
		program.Instruction{Op: program.OpConstString, Value: "0123456789ab"},
		program.Instruction{Op: program.OpStore},
		program.Instruction{Op: program.OpConstString, Value: "Vote"},
		program.Instruction{Op: program.OpStore},
		program.Instruction{Op: program.OpConstString, Value: "mutation Vote"},
		program.Instruction{Op: program.OpStore},
	)

	return m
}

func sampleDocs(t *testing.T) []*xmlparser.Document {
	t.Helper()
	var docs []*xmlparser.Document
	for _, content := range []string{
		`<LinearLayout android:id="@+id/root"/>`,
		`<resources><string name="oauth_client_id">ohXpoqrZYub1kg</string></resources>`,
	} {
		doc, err := xmlparser.ParseXMLFile(content)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		docs = append(docs, doc)
	}
	return docs
}

func TestAnalyze(t *testing.T) {
	in := &Input{Model: sampleModel(), Documents: sampleDocs(t)}

	out, err := New(Config{OAuthKey: "oauth_client_id"}).Analyze(in)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	want := []model.GQLOperation{
		{ID: "a1b2c3d4e5f6", Name: "SubredditInfo", Definition: "query SubredditInfo {  id}"},
		{ID: "0123456789ab", Name: "Vote", Definition: "mutation Vote"},
	}
	if !reflect.DeepEqual(out.Result.GQLOperations, want) {
		t.Errorf("Operations = %+v, expected %+v", out.Result.GQLOperations, want)
	}
	if out.Result.RawOAuthClientID != "ohXpoqrZYub1kg" {
		t.Errorf("Client id = %s", out.Result.RawOAuthClientID)
	}
	if out.Stats.DocumentsScanned != 2 || out.Stats.ClientIDValues != 1 || out.Stats.CandidateClasses != 2 {
		t.Errorf("Unexpected stats %+v", out.Stats)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := New(Config{OAuthKey: "oauth_client_id"})
	in := &Input{Model: sampleModel(), Documents: sampleDocs(t)}

	first, err := a.Analyze(in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(in)
	if err != nil {
		t.Fatal(err)
	}

	b1, _ := first.Result.MarshalIndent()
	b2, _ := second.Result.MarshalIndent()
	if string(b1) != string(b2) {
		t.Errorf("Results differ between runs:\n%s\n%s", b1, b2)
	}
}

func TestAnalyzeFailsWithoutClientID(t *testing.T) {
	in := &Input{Model: sampleModel()}

	out, err := New(Config{OAuthKey: "oauth_client_id"}).Analyze(in)
	if !errors.Is(err, oauth.ErrClientIDNotFound) {
		t.Fatalf("Expected ErrClientIDNotFound, got %v", err)
	}
	if out != nil {
		t.Error("No partial result expected on failure")
	}
}

func TestAnalyzeWithoutModel(t *testing.T) {
	_, err := New(Config{OAuthKey: "oauth_client_id"}).Analyze(&Input{Documents: sampleDocs(t)})
	if !errors.Is(err, program.ErrIncompatibleModel) {
		t.Errorf("Expected ErrIncompatibleModel, got %v", err)
	}
}

func TestAnalyzeEmptyModel(t *testing.T) {
	out, err := New(Config{OAuthKey: "oauth_client_id"}).Analyze(&Input{
		Model:     program.NewMemory(),
		Documents: sampleDocs(t),
	})
	if err != nil {
		t.Fatalf("An empty model is not an error: %v", err)
	}
	if len(out.Result.GQLOperations) != 0 {
		t.Errorf("Expected no operations, got %d", len(out.Result.GQLOperations))
	}
}

func TestAnalyzeReportsSteps(t *testing.T) {
	var steps []string
	a := New(Config{OAuthKey: "oauth_client_id", OnStep: func(s string) { steps = append(steps, s) }})
	if _, err := a.Analyze(&Input{Model: sampleModel(), Documents: sampleDocs(t)}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(steps, []string{StepOperations, StepClientID}) {
		t.Errorf("steps = %v", steps)
	}
}
