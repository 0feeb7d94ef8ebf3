package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olfat123/profile-creator/internal/models"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/utils"
	"gorm.io/datatypes"
)

type RecordInput struct {
	AccountID  string
	FormType   string
	RecordType string
	IndexKey   string
	Title      string
	// nil leaves an existing body untouched
	Body *string
}

type RecordService interface {
	// Upsert updates the account's current record for the form type in place,
	// or inserts one and appends it to the account's record index.
	Upsert(ctx context.Context, in RecordInput) (rec *models.ProfileRecord, created bool, err error)
	WriteFields(ctx context.Context, recordID string, fields map[string]any) error
	SetThumbnail(ctx context.Context, recordID, attachmentID string) error
	Current(ctx context.Context, accountID, formType string) (*models.ProfileRecord, error)
	GetBySlug(ctx context.Context, recordType, slug string) (*models.ProfileRecord, error)
	PublicURL(rec *models.ProfileRecord) string
}

type recordService struct {
	records  pgrepo.RecordRepository
	accounts pgrepo.AccountRepository
	baseURL  string
}

func NewRecordService(records pgrepo.RecordRepository, accounts pgrepo.AccountRepository, publicBaseURL string) RecordService {
	return &recordService{
		records:  records,
		accounts: accounts,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *recordService) Current(ctx context.Context, accountID, formType string) (*models.ProfileRecord, error) {
	const op = "RecordService.Current"

	if accountID == "" || formType == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account_id and form_type are required", nil)
	}

	id, ok, err := s.accounts.LatestRecordID(ctx, accountID, formType)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read record index", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "no record for account", utils.ErrNotFound)
	}

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "record no longer exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load record", err)
	}
	return rec, nil
}

func (s *recordService) Upsert(ctx context.Context, in RecordInput) (*models.ProfileRecord, bool, error) {
	const op = "RecordService.Upsert"

	if in.AccountID == "" || in.FormType == "" || in.RecordType == "" {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "account_id, form_type and record_type are required", nil)
	}

	current, err := s.Current(ctx, in.AccountID, in.FormType)
	switch {
	case err == nil:
		if in.Title != "" {
			current.Title = in.Title
		}
		if in.Body != nil {
			current.Body = *in.Body
		}
		current.Status = models.RecordStatusPublish
		if err := s.records.UpdateContent(ctx, current); err != nil {
			return nil, false, utils.E(utils.CodeInternal, op, "failed to update record", err)
		}
		return current, false, nil
	case !utils.IsCode(err, utils.CodeNotFound):
		return nil, false, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to allocate slug", err)
	}

	now := time.Now().UTC()
	rec := &models.ProfileRecord{
		ID:         uuid.NewString(),
		Slug:       slug,
		AccountID:  in.AccountID,
		FormType:   in.FormType,
		RecordType: in.RecordType,
		Title:      in.Title,
		Status:     models.RecordStatusPublish,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Body != nil {
		rec.Body = *in.Body
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			// another submission took the slug between the check and the insert
			return nil, false, utils.E(utils.CodeConflict, op, "slug already taken", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to insert record", err)
	}
	if err := s.accounts.AppendRecord(ctx, in.AccountID, in.FormType, in.IndexKey, rec.ID); err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to index record", err)
	}
	return rec, true, nil
}

func (s *recordService) WriteFields(ctx context.Context, recordID string, fields map[string]any) error {
	const op = "RecordService.WriteFields"

	if recordID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "record_id is required", nil)
	}
	if len(fields) == 0 {
		return nil
	}

	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "record not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load record", err)
	}

	md := rec.Metadata
	if md == nil {
		md = datatypes.JSONMap{}
	}
	for k, v := range fields {
		md[k] = v
	}
	if err := s.records.UpdateMetadata(ctx, recordID, md); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to write metadata", err)
	}
	return nil
}

func (s *recordService) SetThumbnail(ctx context.Context, recordID, attachmentID string) error {
	const op = "RecordService.SetThumbnail"

	if recordID == "" || attachmentID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "record_id and attachment_id are required", nil)
	}
	if err := s.records.SetThumbnail(ctx, recordID, attachmentID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to set thumbnail", err)
	}
	return nil
}

func (s *recordService) GetBySlug(ctx context.Context, recordType, slug string) (*models.ProfileRecord, error) {
	const op = "RecordService.GetBySlug"

	if recordType == "" || slug == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "record_type and slug are required", nil)
	}
	rec, err := s.records.GetBySlug(ctx, recordType, slug)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return rec, nil
}

func (s *recordService) PublicURL(rec *models.ProfileRecord) string {
	if rec == nil {
		return ""
	}
	return s.baseURL + "/profiles/" + rec.RecordType + "/" + rec.Slug
}

func (s *recordService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "profile"
	}

	slug := base
	for n := 2; ; n++ {
		taken, err := s.records.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}

// Slugify turns a title into a lower-case, dash separated ASCII permalink.
func Slugify(title string) string {
	plain := foldMarks(title)

	var b strings.Builder
	dash := false
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 180 {
		out = strings.TrimRight(out[:180], "-")
	}
	return out
}
