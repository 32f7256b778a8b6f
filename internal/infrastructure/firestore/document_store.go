package firestore

import (
	"context"
	"fmt"
	"reflect"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dboots/bg-broadcast/internal/config"
	"github.com/dboots/bg-broadcast/internal/domain"
)

// Firestore rejects "in" queries with more values than this.
const maxInValues = 30

// NewClient opens a Firestore client. Without a credentials file the
// application default credentials are used.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*fs.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := fs.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

type firestoreDocumentStore struct {
	client *fs.Client
}

func NewFirestoreDocumentStore(client *fs.Client) domain.DocumentStore {
	return &firestoreDocumentStore{
		client: client,
	}
}

func (r *firestoreDocumentStore) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	snap, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("get %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	return toDocument(snap), nil
}

func (r *firestoreDocumentStore) List(ctx context.Context, collection string, filters ...domain.Filter) ([]domain.Document, error) {
	query := r.client.Collection(collection).Query

	// At most one "in" filter is split into chunks Firestore accepts.
	var inFilter *domain.Filter
	for i := range filters {
		f := filters[i]
		switch f.Op {
		case domain.OpEqual:
			query = query.Where(f.Field, "==", f.Value)
		case domain.OpIn:
			if inFilter != nil {
				return nil, fmt.Errorf("filter %s: only one in filter per query: %w", f.Field, domain.ErrInvalidInput)
			}
			inFilter = &f
		default:
			return nil, fmt.Errorf("filter %s: unsupported op %q: %w", f.Field, f.Op, domain.ErrInvalidInput)
		}
	}

	if inFilter == nil {
		return collect(query.Documents(ctx))
	}

	values, err := toSlice(inFilter.Value)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", inFilter.Field, err)
	}

	docs := []domain.Document{}
	for start := 0; start < len(values); start += maxInValues {
		end := min(start+maxInValues, len(values))
		chunk, err := collect(query.Where(inFilter.Field, "in", values[start:end]).Documents(ctx))
		if err != nil {
			return nil, err
		}
		docs = append(docs, chunk...)
	}
	return docs, nil
}

func (r *firestoreDocumentStore) Insert(ctx context.Context, collection string, doc domain.Document) (string, error) {
	ref := r.client.Collection(collection).NewDoc()
	if id, _ := doc["id"].(string); id != "" {
		ref = r.client.Collection(collection).Doc(id)
	}

	if _, err := ref.Create(ctx, withID(doc, ref.ID)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", fmt.Errorf("insert %s/%s: %w", collection, ref.ID, domain.ErrAlreadyExists)
		}
		return "", fmt.Errorf("insert %s/%s: %w", collection, ref.ID, err)
	}
	return ref.ID, nil
}

func (r *firestoreDocumentStore) Update(ctx context.Context, collection, id string, doc domain.Document) error {
	ref := r.client.Collection(collection).Doc(id)

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	if _, err := ref.Set(ctx, withID(doc, id)); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (r *firestoreDocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func collect(iter *fs.DocumentIterator) ([]domain.Document, error) {
	defer iter.Stop()

	docs := []domain.Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, toDocument(snap))
	}
	return docs, nil
}

func toDocument(snap *fs.DocumentSnapshot) domain.Document {
	doc := domain.Document(snap.Data())
	doc["id"] = snap.Ref.ID
	return doc
}

func withID(doc domain.Document, id string) map[string]interface{} {
	data := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		data[k] = v
	}
	data["id"] = id
	return data
}

func toSlice(value any) ([]interface{}, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("in needs a list: %w", domain.ErrInvalidInput)
	}

	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}
