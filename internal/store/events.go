package store

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"strings"
	"time"

	"taskcal/internal/model"
)

// AppendEvent records one append-only store-log entry. The log is
// observability, not a source of truth; read it with ReadEvents.
func (s Store) AppendEvent(ctx context.Context, username, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id, err := newEventID()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO events(event_id, ts_unixms, username, type, entity_id, payload_json)
		VALUES(?, ?, ?, ?, ?, ?)
	`, id, time.Now().UTC().UnixMilli(), strings.TrimSpace(username), typ, strings.TrimSpace(entityID), string(pb))
	return err
}

// ReadEvents returns the newest events first, up to limit (all when
// limit <= 0).
func (s Store) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts_unixms, username, type, entity_id, payload_json
		FROM events ORDER BY ts_unixms DESC, event_id DESC`
	var rowsArgs []any
	if limit > 0 {
		q += ` LIMIT ?`
		rowsArgs = append(rowsArgs, limit)
	}
	rows, err := db.QueryContext(ctx, q, rowsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev        model.Event
			tsMs      int64
			payloadJS string
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Username, &ev.Type, &ev.EntityID, &payloadJS); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		if payloadJS != "" && payloadJS != "null" {
			var p any
			if err := json.Unmarshal([]byte(payloadJS), &p); err == nil {
				ev.Payload = p
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func newEventID() (string, error) {
	var b [10]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "ev-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}
