package forms

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/notify"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/sirupsen/logrus"
)

// Session is the visitor's login state as seen by the pipeline.
type Session interface {
	// CurrentAccount returns the logged-in account id or "".
	CurrentAccount() string
	// Establish logs the visitor in as accountID.
	Establish(ctx context.Context, accountID string) error
}

type AccountResolver interface {
	ResolveOrCreate(ctx context.Context, currentID string, in services.AccountInput) (*models.Account, bool, error)
}

type RecordStore interface {
	Upsert(ctx context.Context, in services.RecordInput) (*models.ProfileRecord, bool, error)
	WriteFields(ctx context.Context, recordID string, fields map[string]any) error
	SetThumbnail(ctx context.Context, recordID, attachmentID string) error
	Current(ctx context.Context, accountID, formType string) (*models.ProfileRecord, error)
	PublicURL(rec *models.ProfileRecord) string
}

type AttachmentStore interface {
	Store(ctx context.Context, accountID, field string, blob models.FileBlob) (*models.Attachment, error)
}

type TokenIssuer interface {
	Issue(action, subject string) (string, error)
	Verify(raw, action, subject string) error
}

type Engine struct {
	forms       *Registry
	accounts    AccountResolver
	records     RecordStore
	attachments AttachmentStore
	tokens      TokenIssuer
	notifier    notify.Notifier
	log         *logrus.Logger
	now         func() time.Time
}

type EngineDeps struct {
	Forms       *Registry
	Accounts    AccountResolver
	Records     RecordStore
	Attachments AttachmentStore
	Tokens      TokenIssuer
	Notifier    notify.Notifier
	Log         *logrus.Logger
}

func NewEngine(d EngineDeps) *Engine {
	n := d.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	l := d.Log
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Engine{
		forms:       d.Forms,
		accounts:    d.Accounts,
		records:     d.Records,
		attachments: d.Attachments,
		tokens:      d.Tokens,
		notifier:    n,
		log:         l,
		now:         time.Now,
	}
}

func (e *Engine) Forms() *Registry { return e.forms }

// Process runs one submission for formType. It never fails: every result,
// including the ones the visitor has to fix, is described by the Outcome.
func (e *Engine) Process(ctx context.Context, formType string, sub Submission, sess Session) Outcome {
	cfg, ok := e.forms.Lookup(formType)
	if !ok || sub.Type != formType {
		return ignored()
	}
	if err := e.tokens.Verify(sub.Token, cfg.Action(), sess.CurrentAccount()); err != nil {
		e.log.WithField("form_type", formType).Debug("submission rejected by anti-forgery check")
		return ignored()
	}

	log := e.log.WithField("form_type", formType)

	// validating
	if errs := Validate(cfg.Rules, sub); len(errs) > 0 {
		return e.rerender(cfg, StateValidationFailed, errs, sub, sess)
	}

	// account_resolving
	acc, created, err := e.accounts.ResolveOrCreate(ctx, sess.CurrentAccount(), services.AccountInput{
		DisplayName: SanitizePlain(sub.Value(cfg.NameField)),
		Email:       strings.TrimSpace(sub.Value(cfg.EmailField)),
		Bio:         SanitizePlain(sub.Value(cfg.BioField)),
		Password:    sub.Value(cfg.PasswordField),
	})
	if err != nil {
		log.WithError(err).Info("account resolution failed")
		return e.rerender(cfg, StateAccountFailed, accountErrors(cfg, err), sub, sess)
	}
	log = log.WithField("account_id", acc.ID)

	established := false
	if created {
		if err := sess.Establish(ctx, acc.ID); err != nil {
			log.WithError(err).Warn("failed to establish session for new account")
		} else {
			established = true
		}
	}

	// record_upserting
	in := services.RecordInput{
		AccountID:  acc.ID,
		FormType:   cfg.Type,
		RecordType: cfg.RecordType,
		IndexKey:   cfg.IndexKey,
		Title:      SanitizePlain(sub.Value(cfg.NameField)),
	}
	if cfg.BodyField != "" && sub.Has(cfg.BodyField) {
		body := SanitizeRich(sub.Value(cfg.BodyField))
		in.Body = &body
	}
	rec, _, err := e.records.Upsert(ctx, in)
	if err != nil {
		log.WithError(err).Error("record upsert failed")
		out := e.rerender(cfg, StateRecordFailed, map[string]string{"post_creation": "Failed to create post."}, sub, sess)
		out.AccountID = acc.ID
		return out
	}
	log = log.WithField("record_id", rec.ID)

	// attaching
	fields := map[string]any{}
	var failed []string
	for _, ff := range cfg.Files {
		blob, ok := sub.File(ff.Name)
		if !ok {
			continue
		}
		att, err := e.attachments.Store(ctx, acc.ID, ff.Name, blob)
		if err != nil {
			log.WithError(err).WithField("field", ff.Name).Warn("attachment store failed")
			failed = append(failed, ff.Name)
			continue
		}
		if ff.Thumbnail {
			if err := e.records.SetThumbnail(ctx, rec.ID, att.ID); err != nil {
				log.WithError(err).Warn("failed to set record thumbnail")
			}
		}
		if ff.MetaKey != "" {
			fields[cfg.MetaPrefix+ff.MetaKey] = att.URL
		}
	}

	// persisting
	for k, v := range MapFields(cfg.Mapping, cfg.MetaPrefix, sub) {
		fields[k] = v
	}
	fields["author_name"] = acc.DisplayName
	if acc.Email != "" {
		fields["author_email"] = acc.Email
	}
	if err := e.records.WriteFields(ctx, rec.ID, fields); err != nil {
		log.WithError(err).Error("failed to persist record fields")
	}

	// notifying_and_redirecting
	location := e.records.PublicURL(rec)
	ev := notify.Event{
		FormType:     cfg.Type,
		Label:        cfg.Label,
		Subject:      cfg.NotifySubject,
		Title:        rec.Title,
		AccountID:    acc.ID,
		AccountEmail: acc.Email,
		RecordID:     rec.ID,
		URL:          location,
		Created:      created,
		SubmittedAt:  e.now().UTC(),
	}
	if err := e.notifier.Notify(ctx, ev); err != nil {
		log.WithError(err).Warn("submission notification failed")
	}

	if !established && sess.CurrentAccount() != acc.ID {
		if err := sess.Establish(ctx, acc.ID); err != nil {
			log.WithError(err).Warn("failed to establish session")
		}
	}

	out := Outcome{
		State:     StateDone,
		Status:    StatusRedirect,
		Location:  location,
		AccountID: acc.ID,
		RecordID:  rec.ID,
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		out.Warnings = map[string]string{"file_upload": "Failed to upload: " + strings.Join(failed, ", ")}
	}
	log.Info("submission processed")
	return out
}

// rerender issues a token for the session's subject as of now; the run may
// already have logged the visitor in.
func (e *Engine) rerender(cfg FormConfig, state State, errs map[string]string, sub Submission, sess Session) Outcome {
	out := Outcome{State: state, Status: StatusRerender, Errors: errs, Payload: sub.Echo()}
	tok, err := e.tokens.Issue(cfg.Action(), sess.CurrentAccount())
	if err != nil {
		e.log.WithError(err).Warn("failed to issue form token")
	}
	out.Token = tok
	return out
}

// accountErrors maps every AccountError kind onto the form's fields.
func accountErrors(cfg FormConfig, err error) map[string]string {
	var ae *services.AccountError
	if !errors.As(err, &ae) {
		return map[string]string{"user_creation": utils.SafeMessage(err)}
	}
	switch ae.Kind {
	case services.AccountDuplicateEmail:
		return map[string]string{cfg.EmailField: "This email is already registered."}
	case services.AccountDuplicateHandle:
		return map[string]string{"user_creation": "A user with a similar name already exists."}
	case services.AccountInvalidHandle:
		return map[string]string{cfg.NameField: "Invalid name provided."}
	default:
		return map[string]string{"user_creation": ae.Message}
	}
}

// Prefill returns the logged-in visitor's current record for formType as
// form values, or nil when there is none.
func (e *Engine) Prefill(ctx context.Context, formType, accountID string) (map[string]any, error) {
	cfg, ok := e.forms.Lookup(formType)
	if !ok {
		return nil, utils.E(utils.CodeNotFound, "Engine.Prefill", "unknown form type", nil)
	}
	if accountID == "" {
		return nil, nil
	}
	rec, err := e.records.Current(ctx, accountID, cfg.Type)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cfg.Prefill(rec), nil
}
