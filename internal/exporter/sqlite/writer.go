// Package sqlite writes a report into a SQLite database so operation
// catalogues from several builds can be queried side by side.
package sqlite

import (
	"fmt"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

const schema = `
CREATE TABLE metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE operations (
    seq INTEGER PRIMARY KEY,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    definition TEXT NOT NULL,
    notes TEXT
);

CREATE INDEX idx_operations_id ON operations(id);
CREATE INDEX idx_operations_name ON operations(name);
`

type SQLiteExporter struct{}

func NewSQLiteExporter() *SQLiteExporter {
	return &SQLiteExporter{}
}

func (e *SQLiteExporter) Name() string { return "sqlite" }

func (e *SQLiteExporter) Export(report *model.Report, cfg *config.Config) error {
	return common.Replace(cfg.GetOutputPath(".db"), func(tmp string) error {
		return WriteDB(tmp, report)
	})
}

// WriteDB creates a database at path holding report.
func WriteDB(path string, report *model.Report) (err error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate, sqlite.OpenReadWrite)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close sqlite: %w", cerr)
		}
	}()

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer endFn(&err)

	if err := insertMetadata(conn, report); err != nil {
		return err
	}
	return insertOperations(conn, common.Rows(report))
}

func insertMetadata(conn *sqlite.Conn, report *model.Report) error {
	st := report.Stats
	pairs := [][2]string{
		{"analysis_date", report.AnalysisDate},
		{"raw_oauth_client_id", report.Result.RawOAuthClientID},
		{"digest", report.Digest},
		{"package_name", report.App.PackageName},
		{"version_name", report.App.VersionName},
		{"version_code", strconv.Itoa(int(report.App.VersionCode))},
		{"candidate_classes", strconv.Itoa(st.CandidateClasses)},
		{"retained_classes", strconv.Itoa(st.RetainedClasses)},
		{"documents_scanned", strconv.Itoa(st.DocumentsScanned)},
		{"documents_failed", strconv.Itoa(st.DocumentsFailed)},
		{"client_id_values", strconv.Itoa(st.ClientIDValues)},
	}

	// cached by the connection, finalized on Close
	stmt, err := conn.Prepare(`INSERT INTO metadata (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare metadata insert: %w", err)
	}
	for _, kv := range pairs {
		stmt.BindText(1, kv[0])
		stmt.BindText(2, kv[1])
		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("insert metadata %s: %w", kv[0], err)
		}
		if err := stmt.Reset(); err != nil {
			return err
		}
	}
	return nil
}

func insertOperations(conn *sqlite.Conn, rows []common.Row) error {
	stmt, err := conn.Prepare(`INSERT INTO operations (seq, id, name, kind, definition, notes) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare operation insert: %w", err)
	}
	for _, r := range rows {
		stmt.BindInt64(1, int64(r.No))
		stmt.BindText(2, r.ID)
		stmt.BindText(3, r.Name)
		stmt.BindText(4, r.Kind)
		stmt.BindText(5, r.Definition)
		if len(r.Notes) > 0 {
			stmt.BindText(6, strings.Join(r.Notes, ", "))
		} else {
			stmt.BindNull(6)
		}
		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("insert operation %d: %w", r.No, err)
		}
		if err := stmt.Reset(); err != nil {
			return err
		}
	}
	return nil
}
