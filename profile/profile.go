// Package profile writes the denormalized copy of an identity to the
// document store.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayomtuase/julieth/docstore"
	"github.com/ayomtuase/julieth/identity"
)

// Collection receives one document per write.
const Collection = "users"

// Document fields as stored.
const (
	FieldDisplayName = "displayName"
	FieldAccessToken = "accessToken"
	FieldEmail       = "email"
	FieldProviderID  = "providerId"
	FieldUID         = "uid"
	FieldPhoneNumber = "phoneNumber"
)

// Fields returns the six profile fields of id. Optional values the provider
// did not supply are nil.
func Fields(id *identity.Identity) map[string]any {
	return map[string]any{
		FieldDisplayName: optional(id.DisplayName),
		FieldAccessToken: id.AccessToken,
		FieldEmail:       id.Email,
		FieldProviderID:  id.ProviderID,
		FieldUID:         id.UID,
		FieldPhoneNumber: optional(id.PhoneNumber),
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Writer struct {
	store  docstore.Store
	logger *slog.Logger
}

func NewWriter(store docstore.Store, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Upsert appends a profile document for id. Despite the name it never
// updates: a second call for the same uid adds a second document. When the
// store can count, an existing document for the uid is logged as a duplicate.
// No retry.
func (w *Writer) Upsert(ctx context.Context, id *identity.Identity) error {
	if counter, ok := w.store.(docstore.Counter); ok {
		n, err := counter.Count(ctx, Collection, FieldUID, id.UID)
		if err != nil {
			w.logger.Debug("profile: duplicate check failed", "uid", id.UID, "error", err)
		} else if n > 0 {
			w.logger.Warn("profile: inserting duplicate profile document",
				"uid", id.UID, "provider", id.ProviderID, "existing", n)
		}
	}

	docID, err := w.store.Insert(ctx, Collection, Fields(id))
	if err != nil {
		w.logger.Error("profile: insert failed", "uid", id.UID, "error", err)
		return fmt.Errorf("failed to write profile: %w", err)
	}

	w.logger.Info("profile: document inserted", "uid", id.UID, "id", docID, "provider", id.ProviderID)
	return nil
}
