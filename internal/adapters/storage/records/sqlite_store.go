package records

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"courtside/internal/adapters/storage"
	"courtside/internal/domain/importing"
)

// tableNames maps an import registry table key onto its backing SQL table.
var tableNames = map[string]string{
	importing.TableTrainees: "trainee",
	importing.TableTrainers: "trainer",
	importing.TableClasses:  "class",
	importing.TablePayments: "payment",
}

// SQLiteStore writes registry-described records to SQLite. Table and column
// names are validated against the import registry before any SQL is built, so
// caller-supplied keys can never reach the query text unchecked.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new record store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// resolveTable returns the SQL table plus the set of writable columns for a
// registry table key.
func resolveTable(tableKey string) (string, map[string]bool, error) {
	name, ok := tableNames[tableKey]
	if !ok {
		return "", nil, fmt.Errorf("unknown record table %q", tableKey)
	}
	schema, ok := importing.GetSchema(tableKey)
	if !ok {
		return "", nil, fmt.Errorf("unknown record table %q", tableKey)
	}
	columns := map[string]bool{"id": true}
	for _, f := range schema.Fields {
		columns[f.Key] = true
	}
	return name, columns, nil
}

// orderedColumns returns the record's keys filtered to known columns, sorted
// for deterministic SQL.
func orderedColumns(record map[string]any, allowed map[string]bool) ([]string, error) {
	var cols []string
	for k := range record {
		if !allowed[k] {
			return nil, fmt.Errorf("unknown column %q", k)
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}

// Insert writes a new record.
// PRE: record["id"] is set by the caller
// POST: Returns the inserted row's id
func (s *SQLiteStore) Insert(ctx context.Context, table string, record map[string]any) (string, error) {
	name, allowed, err := resolveTable(table)
	if err != nil {
		return "", err
	}
	id, _ := record["id"].(string)
	if id == "" {
		return "", fmt.Errorf("insert into %s: missing id", name)
	}
	cols, err := orderedColumns(record, allowed)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", name, err)
	}

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "?"
		args[i] = record[c]
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		name,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert into %s: %w", name, err)
	}
	return id, nil
}

// Update overwrites the given columns of an existing record.
// PRE: id is non-empty
// POST: Row with the given id carries the record's values
func (s *SQLiteStore) Update(ctx context.Context, table string, id string, record map[string]any) error {
	name, allowed, err := resolveTable(table)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("update %s: missing id", name)
	}
	cols, err := orderedColumns(record, allowed)
	if err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}

	var sets []string
	var args []any
	for _, c := range cols {
		if c == "id" {
			continue
		}
		sets = append(sets, c+" = ?")
		args = append(args, record[c])
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", name, strings.Join(sets, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update %s: no row with id %s", name, id)
	}
	return nil
}

// FindBy returns the first record whose field equals value, if any.
// PRE: field is a registry column of the table
// POST: found is false when no row matches
func (s *SQLiteStore) FindBy(ctx context.Context, table string, field string, value any) (map[string]any, bool, error) {
	name, allowed, err := resolveTable(table)
	if err != nil {
		return nil, false, err
	}
	if !allowed[field] {
		return nil, false, fmt.Errorf("find in %s: unknown column %q", name, field)
	}

	var cols []string
	for c := range allowed {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ? LIMIT 1",
		strings.Join(cols, ", "), name, field,
	)
	row := s.db.QueryRowContext(ctx, query, value)

	values := make([]sql.NullString, len(cols))
	dests := make([]any, len(cols))
	for i := range values {
		dests[i] = &values[i]
	}
	if err := row.Scan(dests...); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find in %s: %w", name, err)
	}

	record := make(map[string]any, len(cols))
	for i, c := range cols {
		if values[i].Valid {
			record[c] = values[i].String
		}
	}
	return record, true, nil
}
