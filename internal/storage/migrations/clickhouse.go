package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	chstore "solana-wallet-scout/internal/storage/clickhouse"
)

// RunClickhouseMigrations applies all embedded SQL files in lexical order on
// the given connection. The ClickHouse driver does not support multi-statement
// Exec, so each file is split into statements by semicolon; migrations must
// not put semicolons inside string literals.
func RunClickhouseMigrations(ctx context.Context, conn *chstore.Conn) error {
	files, err := listSQL(ClickhouseFS, "clickhouse")
	if err != nil {
		return fmt.Errorf("read embedded clickhouse migrations: %w", err)
	}

	for _, file := range files {
		data, err := fs.ReadFile(ClickhouseFS, "clickhouse/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", file, err)
			}
		}
	}

	return nil
}

// splitStatements strips -- comments and blank lines, then splits on
// semicolons.
func splitStatements(input string) []string {
	var filtered []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		filtered = append(filtered, line)
	}
	joined := strings.Join(filtered, "\n")

	var stmts []string
	for _, part := range strings.Split(joined, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
