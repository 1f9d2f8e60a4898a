package projections

import (
	"context"

	"courtside/internal/domain/importing"
	importlogDomain "courtside/internal/domain/importlog"
)

// ImportHistoryStore defines the import log store interface for the history view.
type ImportHistoryStore interface {
	List(ctx context.Context, limit int) ([]importlogDomain.Entry, error)
}

// ImportHistoryDeps holds dependencies for the import history projection.
type ImportHistoryDeps struct {
	ImportLogStore ImportHistoryStore
}

// ImportHistoryRow is one past import with the destination table's label.
type ImportHistoryRow struct {
	Entry      importlogDomain.Entry
	TableLabel string
}

// QueryImportHistory lists past imports, newest first, with table labels
// resolved from the registry.
// PRE: limit > 0
// POST: Returns at most limit rows
func QueryImportHistory(ctx context.Context, limit int, deps ImportHistoryDeps) ([]ImportHistoryRow, error) {
	entries, err := deps.ImportLogStore.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	var rows []ImportHistoryRow
	for _, e := range entries {
		label := e.TableKey
		if schema, ok := importing.GetSchema(e.TableKey); ok {
			label = schema.Label
		}
		rows = append(rows, ImportHistoryRow{Entry: e, TableLabel: label})
	}
	return rows, nil
}
