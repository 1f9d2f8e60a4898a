package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"courtside/internal/adapters/email"
	"courtside/internal/domain/importing"
)

// SendImportSummaryInput carries the finished import to report.
type SendImportSummaryInput struct {
	TableKey  string
	FileName  string
	Summary   importing.ImportSummary
	Recipient string
}

// SendImportSummaryDeps holds dependencies for the summary mail.
type SendImportSummaryDeps struct {
	Sender email.Sender
}

// ExecuteSendImportSummary emails the admin a digest of a finished import.
// Failures are logged, never propagated — the import itself already succeeded.
// PRE: input.Summary came from ExecuteCommitImport
// POST: one email queued, or a warning logged
func ExecuteSendImportSummary(ctx context.Context, input SendImportSummaryInput, deps SendImportSummaryDeps) {
	if deps.Sender == nil || input.Recipient == "" {
		return
	}

	label := input.TableKey
	if schema, ok := importing.GetSchema(input.TableKey); ok {
		label = schema.Label
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Import finished: %s</h2>", html.EscapeString(input.FileName))
	fmt.Fprintf(&b, "<p>Destination: %s</p>", html.EscapeString(label))
	fmt.Fprintf(&b, "<ul><li>Created: %d</li><li>Updated: %d</li><li>Failed: %d</li></ul>",
		input.Summary.CreatedCount, input.Summary.UpdatedCount, input.Summary.FailedCount)

	if len(input.Summary.Failures) > 0 {
		b.WriteString("<h3>Failed rows</h3><ul>")
		for _, f := range input.Summary.Failures {
			fmt.Fprintf(&b, "<li>Row %d: %s</li>", f.Index+1, html.EscapeString(f.Error))
		}
		b.WriteString("</ul>")
	}

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.Recipient},
		Subject: fmt.Sprintf("Import finished: %s (%d created, %d failed)",
			input.FileName, input.Summary.CreatedCount, input.Summary.FailedCount),
		HTML: b.String(),
	})
	if err != nil {
		slog.Warn("import_summary_mail_failed", "file", input.FileName, "err", err)
	}
}
