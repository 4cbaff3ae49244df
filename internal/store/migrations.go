package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// requestTableDDL is the shared shape of every per-category request table.
// Request tables are enumerated statically; user input never selects a table.
// operator_message_id is unique per table, and unique across tables by
// construction since every notification is a distinct message in the one
// operator chat.
const requestTableDDL = `(
	id                  TEXT PRIMARY KEY,
	user_id             INTEGER NOT NULL,
	full_name           TEXT NOT NULL,
	phone               TEXT NOT NULL DEFAULT '',
	body                TEXT NOT NULL DEFAULT '',
	submitted_at        TEXT NOT NULL DEFAULT (datetime('now')),
	answered_at         TEXT,
	operator_message_id INTEGER
)`

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create identities",
		SQL: `
			CREATE TABLE identities (
				full_name     TEXT PRIMARY KEY,
				bound_user_id INTEGER,
				phone         TEXT NOT NULL DEFAULT ''
			);

			CREATE UNIQUE INDEX idx_identities_user ON identities (bound_user_id)
				WHERE bound_user_id IS NOT NULL;
		`,
	},
	{
		Version: 2,
		Name:    "create request tables",
		SQL: `
			CREATE TABLE requests_documents ` + requestTableDDL + `;
			CREATE TABLE requests_deadlines ` + requestTableDDL + `;
			CREATE TABLE requests_payment ` + requestTableDDL + `;

			CREATE UNIQUE INDEX idx_requests_documents_opmsg
				ON requests_documents (operator_message_id)
				WHERE operator_message_id IS NOT NULL;
			CREATE UNIQUE INDEX idx_requests_deadlines_opmsg
				ON requests_deadlines (operator_message_id)
				WHERE operator_message_id IS NOT NULL;
			CREATE UNIQUE INDEX idx_requests_payment_opmsg
				ON requests_payment (operator_message_id)
				WHERE operator_message_id IS NOT NULL;
		`,
	},
}
