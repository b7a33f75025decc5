package sqlitestore

import (
	"context"

	"github.com/google/uuid"

	"github.com/northpoint/website/content"
)

// ListImages implements content.Backend.
func (s *Store) ListImages(ctx context.Context) ([]content.UploadedImage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, url, upload_date, created_at FROM uploaded_images ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var images []content.UploadedImage
	for rows.Next() {
		var img content.UploadedImage
		var created string
		if err := rows.Scan(&img.ID, &img.Name, &img.URL, &img.UploadDate, &created); err != nil {
			return nil, translate(err)
		}
		img.CreatedAt = parseTime(created)
		images = append(images, img)
	}
	return images, translate(rows.Err())
}

// InsertImage implements content.Backend.
func (s *Store) InsertImage(ctx context.Context, img content.UploadedImage) (content.UploadedImage, error) {
	img.ID = uuid.NewString()
	var created string
	created, img.CreatedAt = s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploaded_images (id, name, url, upload_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		img.ID, img.Name, img.URL, img.UploadDate, created)
	if err != nil {
		return content.UploadedImage{}, translate(err)
	}
	return img, nil
}

// DeleteImage implements content.Backend.
func (s *Store) DeleteImage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM uploaded_images WHERE id = ?`, id)
	return translate(err)
}
