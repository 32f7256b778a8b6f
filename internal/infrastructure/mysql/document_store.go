package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/dboots/bg-broadcast/internal/domain"
)

const duplicateEntry = 1062

const schema = `
    CREATE TABLE IF NOT EXISTS documents (
        seq BIGINT NOT NULL AUTO_INCREMENT,
        collection VARCHAR(64) NOT NULL,
        id VARCHAR(128) NOT NULL,
        body JSON NOT NULL,
        created_at DATETIME(6) NOT NULL,
        updated_at DATETIME(6) NOT NULL,
        PRIMARY KEY (collection, id),
        UNIQUE KEY documents_seq (seq)
    )
`

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MySQLDocumentStore keeps every collection in one table, one JSON body per
// row. Field filters run against the body with JSON_EXTRACT.
type MySQLDocumentStore struct {
	db *sql.DB
}

func NewMySQLDocumentStore(db *sql.DB) *MySQLDocumentStore {
	return &MySQLDocumentStore{db: db}
}

func (r *MySQLDocumentStore) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *MySQLDocumentStore) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	query := `SELECT body FROM documents WHERE collection = ? AND id = ?`

	var body []byte
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return decode(body)
}

func (r *MySQLDocumentStore) List(ctx context.Context, collection string, filters ...domain.Filter) ([]domain.Document, error) {
	query, args, err := buildListQuery(collection, filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		doc, err := decode(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (r *MySQLDocumentStore) Insert(ctx context.Context, collection string, doc domain.Document) (string, error) {
	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	body, err := encode(doc, id)
	if err != nil {
		return "", err
	}

	query := `
        INSERT INTO documents (collection, id, body, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `
	now := time.Now()
	_, err = r.db.ExecContext(ctx, query, collection, id, body, now, now)

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntry {
		return "", fmt.Errorf("insert %s/%s: %w", collection, id, domain.ErrAlreadyExists)
	}
	if err != nil {
		return "", err
	}

	return id, nil
}

func (r *MySQLDocumentStore) Update(ctx context.Context, collection, id string, doc domain.Document) error {
	body, err := encode(doc, id)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, body, time.Now(), collection, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows also means "matched but unchanged", so confirm the row is gone.
	if _, err := r.Get(ctx, collection, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

func (r *MySQLDocumentStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query, collection, id)
	return err
}

func buildListQuery(collection string, filters []domain.Filter) (string, []interface{}, error) {
	var b strings.Builder
	b.WriteString(`SELECT body FROM documents WHERE collection = ?`)
	args := []interface{}{collection}

	for _, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return "", nil, fmt.Errorf("filter field %q: %w", f.Field, domain.ErrInvalidInput)
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return "", nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}
		path := fmt.Sprintf(`$."%s"`, f.Field)

		switch f.Op {
		case domain.OpEqual:
			b.WriteString(` AND JSON_EXTRACT(body, ?) = CAST(? AS JSON)`)
			args = append(args, path, string(value))
		case domain.OpIn:
			if !strings.HasPrefix(string(value), "[") {
				return "", nil, fmt.Errorf("filter %s: in needs a list: %w", f.Field, domain.ErrInvalidInput)
			}
			b.WriteString(` AND JSON_CONTAINS(CAST(? AS JSON), JSON_EXTRACT(body, ?))`)
			args = append(args, string(value), path)
		default:
			return "", nil, fmt.Errorf("filter %s: unsupported op %q: %w", f.Field, f.Op, domain.ErrInvalidInput)
		}
	}

	b.WriteString(` ORDER BY seq`)
	return b.String(), args, nil
}

func encode(doc domain.Document, id string) ([]byte, error) {
	withID := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		withID[k] = v
	}
	withID["id"] = id

	body, err := json.Marshal(withID)
	if err != nil {
		return nil, fmt.Errorf("encode document %s: %w", id, err)
	}
	return body, nil
}

func decode(body []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
