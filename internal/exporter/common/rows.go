package common

import (
	"strings"

	"apk-recon/internal/gql"
	"apk-recon/internal/model"
)

// Operation kinds, taken from the leading keyword of the definition.
const (
	KindQuery        = "query"
	KindMutation     = "mutation"
	KindSubscription = "subscription"
	KindFragment     = "fragment"
	KindUnknown      = "unknown"
)

// Row is one operation as every tabular report renders it.
type Row struct {
	No         int
	ID         string
	Name       string
	Kind       string
	Definition string

	// Notes lists what looks off about the row: an id that is not twelve
	// lowercase alphanumerics, or a name that is not a type name.
	Notes []string
}

// Rows flattens the operations of a report in result order.
func Rows(report *model.Report) []Row {
	ops := report.Result.GQLOperations
	rows := make([]Row, len(ops))
	for i, op := range ops {
		rows[i] = Row{
			No:         i + 1,
			ID:         op.ID,
			Name:       op.Name,
			Kind:       OperationKind(op.Definition),
			Definition: op.Definition,
		}
		if !gql.IsOperationID(op.ID) {
			rows[i].Notes = append(rows[i].Notes, "unusual id")
		}
		if !gql.IsOperationName(op.Name) {
			rows[i].Notes = append(rows[i].Notes, "unusual name")
		}
	}
	return rows
}

// OperationKind returns the GraphQL keyword a definition starts with.
func OperationKind(definition string) string {
	fields := strings.Fields(definition)
	if len(fields) == 0 {
		return KindUnknown
	}
	word := strings.ToLower(fields[0])
	if i := strings.IndexAny(word, "({"); i >= 0 {
		word = word[:i]
	}
	switch word {
	case KindQuery, KindMutation, KindSubscription, KindFragment:
		return word
	case "":
		// anonymous "{ ... }" shorthand
		return KindQuery
	}
	return KindUnknown
}

// KindCounts tallies rows per kind.
func KindCounts(rows []Row) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.Kind]++
	}
	return out
}

// Summary is the label/value list shown at the top of every report.
func Summary(report *model.Report) [][2]string {
	out := [][2]string{
		{"Analysis Date", report.AnalysisDate},
		{"OAuth Client ID", report.Result.RawOAuthClientID},
		{"Result Digest (xxh3)", report.Digest},
	}
	if report.App.PackageName != "" {
		out = append(out,
			[2]string{"Package", report.App.PackageName},
			[2]string{"Version", report.App.VersionName},
		)
	}
	return out
}
