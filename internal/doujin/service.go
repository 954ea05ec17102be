package doujin

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Service provides catalog business logic. Mutations that touch both the
// database row and the blob store follow a fixed order: a new blob is always
// uploaded before the row write, and a replaced blob is deleted only after
// the row write committed. A failed upload leaves the row untouched; a failed
// row write may orphan the fresh blob, which is tolerated. A dangling
// thumbnail reference is not.
type Service struct {
	repo       Repository
	blobs      BlobStore
	thumbs     Thumbnailer
	invalidate Invalidator
}

func NewService(repo Repository, blobs BlobStore, thumbs Thumbnailer, invalidate Invalidator) *Service {
	return &Service{repo: repo, blobs: blobs, thumbs: thumbs, invalidate: invalidate}
}

// List returns entries matching the query, newest first.
func (s *Service) List(ctx context.Context, q Query) ([]Doujinshi, error) {
	return s.repo.List(ctx, q)
}

// Get returns a single entry by id.
func (s *Service) Get(ctx context.Context, id string) (Doujinshi, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListCircles(ctx context.Context) ([]CircleCount, error) {
	return s.repo.ListCircles(ctx)
}

func (s *Service) ListAuthors(ctx context.Context) ([]AuthorCount, error) {
	return s.repo.ListAuthors(ctx)
}

// Create validates and stores a new entry. When thumbnail bytes are present
// they are normalized and uploaded before the insert; an upload failure
// aborts the create so no row ever references a blob that was not stored.
func (s *Service) Create(ctx context.Context, in EntryInput, thumbnail []byte) (Doujinshi, error) {
	// Trim before validating so a whitespace-only title fails `required`
	// instead of slipping through and persisting as empty.
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return Doujinshi{}, err
	}

	d := Doujinshi{
		ID:      uuid.New().String(),
		Title:   in.Title,
		Circle:  optionalText(in.Circle),
		Authors: SplitList(in.AuthorsText),
		Genres:  SplitList(in.GenresText),
	}

	date, err := ParseDate(in.PublishedDate)
	if err != nil {
		return Doujinshi{}, &ValidationError{Fields: []FieldError{
			{Field: "publishedDate", Message: "publishedDate must be a date in YYYY-MM-DD format"},
		}}
	}
	d.PublishedDate = date

	if len(thumbnail) > 0 {
		url, err := s.storeThumbnail(ctx, thumbnail)
		if err != nil {
			return Doujinshi{}, err
		}
		d.ThumbnailURL = &url
	}

	if err := s.repo.Insert(ctx, &d); err != nil {
		// The uploaded blob becomes an orphan here; an orphan is harmless,
		// a dangling reference is not, so no blob rollback is attempted.
		return Doujinshi{}, fmt.Errorf("insert doujinshi: %w", err)
	}

	s.notifyChanged()
	return d, nil
}

// Update rewrites an existing entry. The previous thumbnail URL is read
// before any write. A replacement blob is uploaded first, the row is updated
// carrying the new URL, and only then is the old blob deleted, best-effort.
func (s *Service) Update(ctx context.Context, id string, in EntryInput, thumbnail []byte) (Doujinshi, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return Doujinshi{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Doujinshi{}, err
	}

	d := Doujinshi{
		ID:           id,
		Title:        in.Title,
		Circle:       optionalText(in.Circle),
		Authors:      SplitList(in.AuthorsText),
		Genres:       SplitList(in.GenresText),
		ThumbnailURL: current.ThumbnailURL,
	}

	date, err := ParseDate(in.PublishedDate)
	if err != nil {
		return Doujinshi{}, &ValidationError{Fields: []FieldError{
			{Field: "publishedDate", Message: "publishedDate must be a date in YYYY-MM-DD format"},
		}}
	}
	d.PublishedDate = date

	var replacedURL *string
	if len(thumbnail) > 0 {
		url, err := s.storeThumbnail(ctx, thumbnail)
		if err != nil {
			return Doujinshi{}, err
		}
		replacedURL = current.ThumbnailURL
		d.ThumbnailURL = &url
	}

	if err := s.repo.Update(ctx, &d); err != nil {
		// The new blob may be orphaned; the row still points at the old
		// blob, which must therefore stay put.
		return Doujinshi{}, err
	}

	if replacedURL != nil {
		s.cleanupBlob(ctx, *replacedURL)
	}

	s.notifyChanged()
	return d, nil
}

// Delete removes the given entries in one statement. Ids that do not exist
// are ignored. Thumbnail blobs of deleted entries are left behind on purpose:
// cleaning them up here could race a concurrent update that just made one of
// them current again.
func (s *Service) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return ErrEmptyIDs
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return fmt.Errorf("delete doujinshi: %w", err)
	}
	s.notifyChanged()
	return nil
}

func (s *Service) storeThumbnail(ctx context.Context, raw []byte) (string, error) {
	normalized, err := s.thumbs.Normalize(raw)
	if err != nil {
		return "", err
	}
	key := uuid.New().String() + s.thumbs.Ext()
	if err := s.blobs.Put(ctx, key, normalized, s.thumbs.ContentType()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.blobs.PublicURL(key), nil
}

// cleanupBlob deletes a replaced thumbnail. Failures are logged and
// swallowed: the primary write already succeeded and an orphan blob is the
// accepted outcome. A timeout here means "not confirmed deleted", nothing
// stronger.
func (s *Service) cleanupBlob(ctx context.Context, url string) {
	key := blobKeyFromURL(url)
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("thumbnail cleanup failed: key=%s err=%v", key, err)
	}
}

// blobKeyFromURL recovers the object key from a public URL. Keys are flat
// unique filenames, so the last path segment is the key.
func blobKeyFromURL(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	key := path.Base(trimmed)
	if key == "." || key == "/" {
		return ""
	}
	return key
}

func (s *Service) notifyChanged() {
	if s.invalidate != nil {
		s.invalidate.Invalidate()
	}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
