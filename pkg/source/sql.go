package source

import (
	"context"
	"database/sql"
)

// ScanFunc maps the current row of a result set to a struct record.
type ScanFunc func(rows *sql.Rows) (interface{}, error)

// SQLSource streams the rows of a query as records. The query is executed
// lazily on the first call to Next.
type SQLSource struct {
	db    *sql.DB
	ctx   context.Context
	query string
	args  []interface{}
	scan  ScanFunc
	rows  *sql.Rows
}

// NewSQLSource builds a source over db for the given query. scan converts
// each row into a struct record of a registered layout.
func NewSQLSource(ctx context.Context, db *sql.DB, query string, scan ScanFunc, args ...interface{}) *SQLSource {
	return &SQLSource{db: db, ctx: ctx, query: query, args: args, scan: scan}
}

func (s *SQLSource) Next() (interface{}, bool, error) {
	if s.rows == nil {
		rows, err := s.db.QueryContext(s.ctx, s.query, s.args...)
		if err != nil {
			return nil, false, err
		}
		s.rows = rows
	}
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	record, err := s.scan(s.rows)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

func (s *SQLSource) Close() error {
	if s.rows == nil {
		return nil
	}
	return s.rows.Close()
}
