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

type bindingDocument struct {
	CollectionID string            `firestore:"collection_id"`
	SourceType   string            `firestore:"source_type"`
	SourceParams map[string]string `firestore:"source_params"`
	DisplayName  string            `firestore:"display_name"`
	UpdateMode   string            `firestore:"update_mode"`
	UpdatedAt    time.Time         `firestore:"updated_at"`
}

type bindingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBindingRepository(client *firestore.Client) *bindingRepository {
	return &bindingRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *bindingRepository) accountsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_accounts"
	}
	return "accounts"
}

// bindings returns the per-account binding collection, one document per
// collection ID.
func (r *bindingRepository) bindings(account types.AccountID) *firestore.CollectionRef {
	return r.client.Collection(r.accountsCollection()).Doc(string(account)).Collection("bindings")
}

func bindingToDocument(binding *model.SourceBinding) *bindingDocument {
	params := make(map[string]string, len(binding.SourceParams))
	for k, v := range binding.SourceParams {
		params[k] = v
	}

	return &bindingDocument{
		CollectionID: string(binding.CollectionID),
		SourceType:   string(binding.SourceType),
		SourceParams: params,
		DisplayName:  binding.DisplayName,
		UpdateMode:   string(binding.UpdateMode),
		UpdatedAt:    binding.UpdatedAt,
	}
}

func bindingToModel(doc *bindingDocument) *model.SourceBinding {
	params := make(map[string]string, len(doc.SourceParams))
	for k, v := range doc.SourceParams {
		params[k] = v
	}

	return &model.SourceBinding{
		CollectionID: types.CollectionID(doc.CollectionID),
		SourceType:   types.SourceType(doc.SourceType),
		SourceParams: params,
		DisplayName:  doc.DisplayName,
		UpdateMode:   types.UpdateMode(doc.UpdateMode),
		UpdatedAt:    doc.UpdatedAt,
	}
}

func (r *bindingRepository) Put(ctx context.Context, account types.AccountID, binding *model.SourceBinding) error {
	if err := binding.Validate(); err != nil {
		return goerr.Wrap(err, "invalid binding")
	}

	stored := binding.Clone()
	stored.UpdatedAt = time.Now().UTC()

	doc := bindingToDocument(stored)
	docRef := r.bindings(account).Doc(string(stored.CollectionID))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put binding",
			goerr.V("account", account), goerr.V("collection_id", stored.CollectionID))
	}

	return nil
}

func (r *bindingRepository) Get(ctx context.Context, account types.AccountID, collectionID types.CollectionID) (*model.SourceBinding, error) {
	docRef := r.bindings(account).Doc(string(collectionID))
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "binding not found",
				goerr.V("account", account), goerr.V("collection_id", collectionID))
		}
		return nil, goerr.Wrap(err, "failed to get binding",
			goerr.V("account", account), goerr.V("collection_id", collectionID))
	}

	var bindDoc bindingDocument
	if err := doc.DataTo(&bindDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal binding",
			goerr.V("collection_id", collectionID))
	}

	return bindingToModel(&bindDoc), nil
}

func (r *bindingRepository) List(ctx context.Context, account types.AccountID) (map[types.CollectionID]*model.SourceBinding, error) {
	iter := r.bindings(account).Documents(ctx)
	defer iter.Stop()

	bindings := make(map[types.CollectionID]*model.SourceBinding)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate bindings", goerr.V("account", account))
		}

		var bindDoc bindingDocument
		if err := doc.DataTo(&bindDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal binding", goerr.V("account", account))
		}

		binding := bindingToModel(&bindDoc)
		bindings[binding.CollectionID] = binding
	}

	return bindings, nil
}

func (r *bindingRepository) Delete(ctx context.Context, account types.AccountID, collectionID types.CollectionID) error {
	docRef := r.bindings(account).Doc(string(collectionID))

	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "binding not found",
				goerr.V("account", account), goerr.V("collection_id", collectionID))
		}
		return goerr.Wrap(err, "failed to get binding",
			goerr.V("account", account), goerr.V("collection_id", collectionID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete binding",
			goerr.V("account", account), goerr.V("collection_id", collectionID))
	}

	return nil
}

func (r *bindingRepository) CleanupOrphans(ctx context.Context, account types.AccountID, existing []types.CollectionID) (int, error) {
	keep := make(map[types.CollectionID]struct{}, len(existing))
	for _, id := range existing {
		keep[id] = struct{}{}
	}

	bindings, err := r.List(ctx, account)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list bindings for cleanup", goerr.V("account", account))
	}

	removed := 0
	for id := range bindings {
		if _, ok := keep[id]; ok {
			continue
		}
		if _, err := r.bindings(account).Doc(string(id)).Delete(ctx); err != nil {
			return removed, goerr.Wrap(err, "failed to delete orphan binding",
				goerr.V("account", account), goerr.V("collection_id", id))
		}
		removed++
	}

	return removed, nil
}
