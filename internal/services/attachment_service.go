package services

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olfat123/profile-creator/internal/models"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/storage"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	thumbnailSize         = 150
)

type AttachmentService interface {
	Store(ctx context.Context, accountID, field string, blob models.FileBlob) (*models.Attachment, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Attachment, error)
}

type attachmentService struct {
	repo     pgrepo.AttachmentRepository
	uploader storage.Uploader
	maxBytes int64
	log      *logrus.Logger
}

func NewAttachmentService(repo pgrepo.AttachmentRepository, uploader storage.Uploader, maxBytes int64, log *logrus.Logger) AttachmentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &attachmentService{repo: repo, uploader: uploader, maxBytes: maxBytes, log: log}
}

func (s *attachmentService) Store(ctx context.Context, accountID, field string, blob models.FileBlob) (*models.Attachment, error) {
	const op = "AttachmentService.Store"

	if accountID == "" || field == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account_id and field are required", nil)
	}
	if blob.Empty() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is empty", nil)
	}
	if int64(len(blob.Data)) > s.maxBytes {
		return nil, utils.E(utils.CodeTooLarge, op, "file exceeds the upload limit", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	mimeType := http.DetectContentType(blob.Data)
	if mimeType == "application/octet-stream" && blob.ContentType != "" {
		mimeType = blob.ContentType
	}

	id := uuid.NewString()
	objectName := path.Join("uploads", accountID, id+strings.ToLower(path.Ext(blob.FileName)))

	url, err := s.uploader.Upload(ctx, objectName, mimeType, bytes.NewReader(blob.Data))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.Attachment{
		ID:         id,
		AccountID:  accountID,
		Field:      field,
		FileName:   path.Base(blob.FileName),
		ObjectName: objectName,
		URL:        url,
		FileSize:   int64(len(blob.Data)),
		MimeType:   mimeType,
		CreatedAt:  time.Now().UTC(),
	}

	if strings.HasPrefix(mimeType, "image/") {
		thumbURL, err := s.thumbnail(ctx, objectName, blob.Data)
		if err != nil {
			s.log.WithError(err).WithField("object", objectName).Warn("thumbnail generation failed")
		} else {
			row.ThumbnailURL = thumbURL
		}
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist attachment", err)
	}
	return row, nil
}

func (s *attachmentService) ListByAccount(ctx context.Context, accountID string) ([]models.Attachment, error) {
	const op = "AttachmentService.ListByAccount"

	if accountID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account_id is required", nil)
	}
	out, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list attachments", err)
	}
	return out, nil
}

func (s *attachmentService) thumbnail(ctx context.Context, objectName string, data []byte) (string, error) {
	thumb, err := Thumbnail(data, thumbnailSize)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(objectName, path.Ext(objectName)) + "-150x150.jpg"
	return s.uploader.Upload(ctx, name, "image/jpeg", bytes.NewReader(thumb))
}

// Thumbnail center-crops the image to a square and scales it to size×size JPEG.
func Thumbnail(data []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
