package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type collectionDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	MemberIDs []string  `firestore:"member_ids"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type collectionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCollectionRepository(client *firestore.Client) *collectionRepository {
	return &collectionRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *collectionRepository) collectionsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_collections"
	}
	return "collections"
}

func collectionToDocument(collection *model.Collection) *collectionDocument {
	memberIDs := make([]string, 0, collection.MemberIDs.Len())
	for _, id := range collection.MemberIDs.IDs() {
		memberIDs = append(memberIDs, string(id))
	}

	return &collectionDocument{
		ID:        string(collection.ID),
		Name:      collection.Name,
		MemberIDs: memberIDs,
		CreatedAt: collection.CreatedAt,
		UpdatedAt: collection.UpdatedAt,
	}
}

func collectionToModel(doc *collectionDocument) *model.Collection {
	members := model.NewGameSet()
	for _, id := range doc.MemberIDs {
		members.Add(types.GameID(id))
	}

	return &model.Collection{
		ID:        types.CollectionID(doc.ID),
		Name:      doc.Name,
		MemberIDs: members,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *collectionRepository) Create(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	now := time.Now().UTC()
	created := collection.Clone()
	if created.ID == "" {
		created.ID = types.NewCollectionID()
	}
	if created.MemberIDs == nil {
		created.MemberIDs = model.NewGameSet()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := collectionToDocument(created)

	docRef := r.client.Collection(r.collectionsCollection()).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create collection")
	}

	return collectionToModel(doc), nil
}

func (r *collectionRepository) Get(ctx context.Context, id types.CollectionID) (*model.Collection, error) {
	docRef := r.client.Collection(r.collectionsCollection()).Doc(string(id))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get collection", goerr.V("id", id))
	}

	var colDoc collectionDocument
	if err := doc.DataTo(&colDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal collection", goerr.V("id", id))
	}

	return collectionToModel(&colDoc), nil
}

func (r *collectionRepository) List(ctx context.Context) ([]*model.Collection, error) {
	iter := r.client.Collection(r.collectionsCollection()).Documents(ctx)
	defer iter.Stop()

	var collections []*model.Collection
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate collections")
		}

		var colDoc collectionDocument
		if err := doc.DataTo(&colDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal collection")
		}

		collections = append(collections, collectionToModel(&colDoc))
	}

	return collections, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *model.Collection) (*model.Collection, error) {
	docRef := r.client.Collection(r.collectionsCollection()).Doc(string(collection.ID))

	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", collection.ID))
		}
		return nil, goerr.Wrap(err, "failed to get collection", goerr.V("id", collection.ID))
	}

	var existing collectionDocument
	if err := doc.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal collection", goerr.V("id", collection.ID))
	}

	next := collection.Clone()
	if next.MemberIDs == nil {
		next.MemberIDs = model.NewGameSet()
	}
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = time.Now().UTC()

	updated := collectionToDocument(next)

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update collection", goerr.V("id", collection.ID))
	}

	return collectionToModel(updated), nil
}

func (r *collectionRepository) Delete(ctx context.Context, id types.CollectionID) error {
	docRef := r.client.Collection(r.collectionsCollection()).Doc(string(id))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "collection not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get collection", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete collection", goerr.V("id", id))
	}

	return nil
}
