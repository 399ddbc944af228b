// internal/adapters/out/firestore/user_document_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UserDocumentStoreFS implements syncstore.RemoteStore on Firestore.
//
// Collection design:
// - collection: users
// - docId: Firebase uid
// - fields: cartItems(array), wishlist(array) and any profile fields owned elsewhere
//
// Every write is a field-level merge so the cart and wishlist collections
// never clobber each other or the profile.
type UserDocumentStoreFS struct {
	Client *firestore.Client
}

func NewUserDocumentStoreFS(client *firestore.Client) *UserDocumentStoreFS {
	return &UserDocumentStoreFS{Client: client}
}

func (r *UserDocumentStoreFS) doc(path string) (*firestore.DocumentRef, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_document_fs: firestore client is nil")
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil, errors.New("user_document_fs: path is empty")
	}
	ref := r.Client.Doc(path)
	if ref == nil {
		return nil, errors.New("user_document_fs: invalid document path " + path)
	}
	return ref, nil
}

// GetOnce returns (nil, false, nil) when the document does not exist.
func (r *UserDocumentStoreFS) GetOnce(ctx context.Context, path string) (map[string]any, bool, error) {
	ref, err := r.doc(path)
	if err != nil {
		return nil, false, err
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return snap.Data(), true, nil
}

// SetMerge creates the document when missing and only touches the given fields.
func (r *UserDocumentStoreFS) SetMerge(ctx context.Context, path string, fields map[string]any) error {
	ref, err := r.doc(path)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	_, err = ref.Set(ctx, fields, firestore.MergeAll)
	return err
}

// Subscribe listens to the document until cancel is called or ctx is done.
// Callbacks run on the listener goroutine, never on the caller's.
func (r *UserDocumentStoreFS) Subscribe(
	ctx context.Context,
	path string,
	onChange func(doc map[string]any, exists bool),
) (func(), error) {
	ref, err := r.doc(path)
	if err != nil {
		return nil, err
	}

	lctx, cancel := context.WithCancel(ctx)
	it := ref.Snapshots(lctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if lctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				log.Printf("[user_document_fs] WARN: listener stopped path=%s err=%v", path, err)
				return
			}
			if snap == nil || !snap.Exists() {
				onChange(nil, false)
				continue
			}
			onChange(snap.Data(), true)
		}
	}()

	return cancel, nil
}

// GetProfile reads the display fields of a user document for /store/me.
func (r *UserDocumentStoreFS) GetProfile(ctx context.Context, uid string) (map[string]any, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("user_document_fs: uid is empty")
	}
	doc, ok, err := r.GetOnce(ctx, "users/"+uid)
	if err != nil || !ok {
		return nil, err
	}
	out := map[string]any{}
	for _, k := range []string{"displayName", "email", "phone", "photoURL"} {
		if v, ok := doc[k]; ok {
			out[k] = asString(v)
		}
	}
	return out, nil
}
