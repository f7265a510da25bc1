package relay

import (
	"context"
	"database/sql"
)

// PostgresStore persists ledgers when DATABASE_URL is set.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS relay_messages (
			id              BIGSERIAL PRIMARY KEY,
			customer_id     TEXT        NOT NULL,
			sender          TEXT        NOT NULL,
			original_text   TEXT        NOT NULL,
			translated_text TEXT        NOT NULL,
			lang            TEXT        NOT NULL,
			sent_at         TIMESTAMPTZ NOT NULL,
			raw_time        TEXT        NOT NULL DEFAULT '',
			read_by_agent   BOOLEAN     NOT NULL DEFAULT FALSE
		)
	`)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (st *PostgresStore) Append(ctx context.Context, customerID string, m Message) error {
	_, err := st.db.ExecContext(ctx, `
		INSERT INTO relay_messages
			(customer_id, sender, original_text, translated_text, lang, sent_at, raw_time, read_by_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		customerID,
		string(m.Role),
		m.OriginalText,
		m.TranslatedText,
		m.Lang,
		m.SentAt,
		m.RawTime,
		m.ReadByAgent,
	)
	return err
}

func (st *PostgresStore) Messages(ctx context.Context, customerID string) ([]Message, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT sender, original_text, translated_text, lang, sent_at, raw_time, read_by_agent
		FROM relay_messages
		WHERE customer_id = $1
		ORDER BY id ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var sender string
		if err := rows.Scan(
			&sender,
			&m.OriginalText,
			&m.TranslatedText,
			&m.Lang,
			&m.SentAt,
			&m.RawTime,
			&m.ReadByAgent,
		); err != nil {
			return nil, err
		}
		m.Role = Role(sender)
		out = append(out, m)
	}

	return out, rows.Err()
}

func (st *PostgresStore) MarkCustomerRead(ctx context.Context, customerID string) error {
	_, err := st.db.ExecContext(ctx, `
		UPDATE relay_messages
		SET read_by_agent = TRUE
		WHERE customer_id = $1 AND sender = $2
	`, customerID, string(RoleCustomer))
	return err
}

func (st *PostgresStore) CustomerIDs(ctx context.Context) ([]string, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT customer_id
		FROM relay_messages
		GROUP BY customer_id
		ORDER BY MIN(id) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	return out, rows.Err()
}
