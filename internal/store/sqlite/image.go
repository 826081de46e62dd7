package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Images deduplicates image records by content hash: the same file enrolled
// twice yields the same row id instead of duplicate storage.
type Images struct {
	store   *Store
	records *Records
}

// NewImages creates the image helper on top of the record engine.
func NewImages(store *Store, records *Records) *Images {
	return &Images{store: store, records: records}
}

// EnsureFromFile hashes the file at path and returns the id of the image row
// with that content hash, creating the row if none exists. The mimetype is
// detected from the file extension.
func (m *Images) EnsureFromFile(ctx context.Context, path, description string) (int64, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve image path %s: %w", path, err)
	}
	hash, err := hashFile(abs)
	if err != nil {
		return 0, err
	}

	if id, ok, err := m.findByHash(ctx, hash); err != nil {
		return 0, err
	} else if ok {
		return id, nil
	}

	fields := domain.Record{
		"image_file": abs,
		"hash":       hash,
		"timestamp":  domain.Now(),
	}
	if mimetype := mime.TypeByExtension(filepath.Ext(abs)); mimetype != "" {
		fields["mimetype"] = mimetype
	}
	if description != "" {
		fields["description"] = description
	}
	return m.records.Create(ctx, schema.Image, fields)
}

// findByHash looks up an image row by content hash.
func (m *Images) findByHash(ctx context.Context, hash string) (int64, bool, error) {
	id, err := m.records.Resolver().Resolve(ctx, schema.Image, hash)
	if err != nil {
		var unknown *domain.UnknownReferenceError
		if errors.As(err, &unknown) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// hashFile returns the SHA-256 content hash of a file as lowercase hex.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image file %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash image file %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// CountByHash reports how many image rows carry the hash; used by tests to
// assert dedupe.
func (m *Images) CountByHash(ctx context.Context, hash string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(schema.Image.Name).Where(sq.Eq{"hash": hash}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build image count: %w", err)
	}
	var count int
	if err := m.store.querier(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, &domain.StorageError{Op: "count image", Cause: err}
	}
	return count, nil
}
