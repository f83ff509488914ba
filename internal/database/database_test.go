package database

import (
	"strings"
	"testing"
)

func TestSchemaClientEmailIsUnique(t *testing.T) {
	normalized := strings.Join(strings.Fields(schema), " ")
	if !strings.Contains(normalized, "CREATE UNIQUE INDEX IF NOT EXISTS clients_email_key ON clients (LOWER(email));") {
		t.Fatal("schema must enforce case-insensitive unique client emails")
	}
	if strings.Contains(normalized, "CREATE INDEX IF NOT EXISTS clients_email_idx") {
		t.Error("non-unique email index should be replaced by clients_email_key")
	}
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		upper := strings.ToUpper(stmt)
		if strings.HasPrefix(upper, "CREATE") && !strings.Contains(upper, "IF NOT EXISTS") && !strings.Contains(upper, "OR REPLACE") {
			t.Errorf("statement is not idempotent: %.60s", stmt)
		}
	}
}
