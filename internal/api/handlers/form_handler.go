package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/olfat123/profile-creator/internal/api/middleware"
	"github.com/olfat123/profile-creator/internal/forms"
	"github.com/olfat123/profile-creator/internal/models"
	"github.com/olfat123/profile-creator/internal/services"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	fieldType   = "type"
	fieldToken  = "token"
	fieldSubmit = "submit"
)

type FormHandler struct {
	engine   *forms.Engine
	tokens   *forms.Tokens
	taxonomy services.TaxonomyService
	sessions services.SessionService
	accounts services.AccountService
	cookie   middleware.CookieConfig
	maxBytes int64
	log      *logrus.Logger
}

func NewFormHandler(
	engine *forms.Engine,
	tokens *forms.Tokens,
	taxonomy services.TaxonomyService,
	sessions services.SessionService,
	accounts services.AccountService,
	cookie middleware.CookieConfig,
	maxBytes int64,
	log *logrus.Logger,
) *FormHandler {
	if maxBytes <= 0 {
		maxBytes = services.DefaultMaxUploadBytes
	}
	return &FormHandler{
		engine:   engine,
		tokens:   tokens,
		taxonomy: taxonomy,
		sessions: sessions,
		accounts: accounts,
		cookie:   cookie,
		maxBytes: maxBytes,
		log:      log,
	}
}

type FormView struct {
	Type       string                `json:"type"`
	Label      string                `json:"label"`
	Template   string                `json:"template"`
	Token      string                `json:"token"`
	LoggedIn   bool                  `json:"logged_in"`
	Reference  models.ReferenceLists `json:"reference"`
	Taxonomy   *models.Taxonomy      `json:"taxonomy"`
	Prefill    map[string]any        `json:"prefill,omitempty"`
	FileFields []string              `json:"file_fields,omitempty"`
}

func (h *FormHandler) View(c *gin.Context) {
	const op = "FormHandler.View"
	ctx := c.Request.Context()

	cfg, ok := h.engine.Forms().Lookup(c.Param("type"))
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, op, "unknown form type", nil))
		return
	}

	accountID := ""
	if ss := currentSession(c); ss != nil {
		accountID = ss.AccountID
	}

	token, err := h.tokens.Issue(cfg.Action(), accountID)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to issue form token", err))
		return
	}

	tree, err := h.taxonomy.Tree(ctx)
	if err != nil {
		h.log.WithError(err).Warn("taxonomy unavailable; rendering form without it")
		tree = &models.Taxonomy{Services: []models.TaxonomyNode{}, Sectors: []models.TaxonomyNode{}}
	}

	prefill, err := h.engine.Prefill(ctx, cfg.Type, accountID)
	if err != nil {
		h.log.WithError(err).Warn("prefill unavailable")
	}

	view := FormView{
		Type:      cfg.Type,
		Label:     cfg.Label,
		Template:  cfg.Template,
		Token:     token,
		LoggedIn:  accountID != "",
		Reference: h.taxonomy.ReferenceLists(),
		Taxonomy:  tree,
		Prefill:   prefill,
	}
	for _, f := range cfg.Files {
		view.FileFields = append(view.FileFields, f.Name)
	}
	c.JSON(http.StatusOK, view)
}

func (h *FormHandler) Submit(c *gin.Context) {
	const op = "FormHandler.Submit"

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 4*h.maxBytes)

	sub, err := h.readSubmission(c)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "could not read form submission", err))
		return
	}

	sess := &httpSession{c: c, h: h, current: currentSession(c)}
	out := h.engine.Process(c.Request.Context(), c.Param("type"), sub, sess)

	switch out.Status {
	case forms.StatusIgnored:
		c.JSON(http.StatusOK, out)
	case forms.StatusRerender:
		c.JSON(http.StatusUnprocessableEntity, out)
	default:
		if wantsJSON(c) {
			c.JSON(http.StatusOK, out)
			return
		}
		c.Redirect(http.StatusSeeOther, out.Location)
	}
}

func (h *FormHandler) readSubmission(c *gin.Context) (forms.Submission, error) {
	req := c.Request
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		if err := req.ParseMultipartForm(h.maxBytes); err != nil {
			return forms.Submission{}, err
		}
	} else if err := req.ParseForm(); err != nil {
		return forms.Submission{}, err
	}

	fields := make(map[string][]string, len(req.PostForm))
	for k, v := range req.PostForm {
		switch k {
		case fieldType, fieldToken, fieldSubmit:
			continue
		}
		fields[k] = v
	}

	files := map[string]models.FileBlob{}
	if req.MultipartForm != nil {
		for name, headers := range req.MultipartForm.File {
			if len(headers) == 0 || headers[0].Filename == "" {
				continue
			}
			blob, err := h.readFile(headers[0])
			if err != nil {
				return forms.Submission{}, err
			}
			files[name] = blob
		}
	}

	return forms.NewSubmission(req.PostForm.Get(fieldType), req.PostForm.Get(fieldToken), fields, files), nil
}

// readFile reads one byte past the limit so oversize files still reach the
// attachment store, which rejects them.
func (h *FormHandler) readFile(fh *multipart.FileHeader) (models.FileBlob, error) {
	f, err := fh.Open()
	if err != nil {
		return models.FileBlob{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return models.FileBlob{}, err
	}
	return models.FileBlob{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// httpSession binds the pipeline's session capability to the visitor cookie.
type httpSession struct {
	c       *gin.Context
	h       *FormHandler
	current *models.Session
}

func (s *httpSession) CurrentAccount() string {
	if s.current == nil {
		return ""
	}
	return s.current.AccountID
}

func (s *httpSession) Establish(ctx context.Context, accountID string) error {
	role := models.RoleUser
	if acc, err := s.h.accounts.Get(ctx, accountID); err == nil {
		role = acc.Role
	}

	ss, err := s.h.sessions.Create(ctx, accountID, role)
	if err != nil {
		return err
	}
	if s.current != nil {
		if err := s.h.sessions.Destroy(ctx, s.current.SessionID); err != nil {
			s.h.log.WithError(err).Warn("failed to drop previous session")
		}
	}

	s.current = ss
	s.h.cookie.Set(s.c, ss.SessionID)
	s.c.Set(middleware.CtxSession, ss)
	s.c.Set(middleware.CtxAccountID, ss.AccountID)
	return nil
}
