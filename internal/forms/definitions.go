package forms

import (
	"sort"

	"github.com/olfat123/profile-creator/internal/models"
)

// FileField is an upload slot. MetaKey receives the stored URL when set;
// Thumbnail makes a successful upload the record's thumbnail.
type FileField struct {
	Name      string
	MetaKey   string
	Thumbnail bool
}

// FormConfig is everything that varies between form types.
type FormConfig struct {
	Type       string
	Label      string
	RecordType string
	IndexKey   string
	Template   string
	MetaPrefix string

	NameField     string
	EmailField    string
	PasswordField string
	BioField      string
	BodyField     string

	Rules   []Rule
	Mapping []FieldMapping
	Files   []FileField

	NotifySubject string
}

// Action is the anti-forgery action string tokens are bound to.
func (c FormConfig) Action() string { return "create_" + c.Type + "_profile" }

// Prefill rebuilds form values from a stored record, keyed by source field.
func (c FormConfig) Prefill(rec *models.ProfileRecord) map[string]any {
	out := map[string]any{}
	if rec == nil {
		return out
	}
	if c.NameField != "" {
		out[c.NameField] = rec.Title
	}
	if c.BodyField != "" {
		out[c.BodyField] = rec.Body
	}
	for _, m := range c.Mapping {
		if v, ok := rec.Metadata[c.MetaPrefix+m.Dest]; ok {
			out[m.Source] = v
		}
	}
	for _, f := range c.Files {
		if f.MetaKey == "" {
			continue
		}
		if v, ok := rec.Metadata[c.MetaPrefix+f.MetaKey]; ok {
			out[f.Name] = v
		}
	}
	return out
}

type Registry struct {
	forms map[string]FormConfig
}

func NewRegistry(cfgs ...FormConfig) *Registry {
	r := &Registry{forms: make(map[string]FormConfig, len(cfgs))}
	for _, c := range cfgs {
		r.forms[c.Type] = c
	}
	return r
}

func (r *Registry) Lookup(formType string) (FormConfig, bool) {
	c, ok := r.forms[formType]
	return c, ok
}

func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.forms))
	for t := range r.forms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func DefaultRegistry() *Registry {
	return NewRegistry(Consultant(), DevelopmentPartner(), Generic())
}

func Consultant() FormConfig {
	return FormConfig{
		Type:       "consultant",
		Label:      "Individual Consultant",
		RecordType: "consultant-entries",
		IndexKey:   "consultant_submitted_posts",
		Template:   "consultant-form",

		NameField:     "name",
		EmailField:    "email",
		PasswordField: "password",
		BioField:      "qualifications",
		BodyField:     "qualifications",

		Rules: []Rule{
			{Field: "name", Check: Required, Message: "Name is required"},
			{Field: "email", Check: RequiredEmail, Message: "Valid email is required"},
			{Field: "experience", Check: RequiredNonNegativeNumber, Message: "Valid years of experience is required"},
			{Field: "languages", Check: RequiredAny, Message: "Languages are required"},
			{Field: "citizenship", Check: RequiredAny, Message: "Citizenship is required"},
			{Field: "country_of_exp", Check: RequiredAny, Message: "Country of experience is required"},
			{Field: "gender", Check: Required, Message: "Gender is required"},
			{Field: "cv", Check: RequiredFile, Message: "CV upload is required"},
			{Field: "clients", Check: Required, Message: "Clients worked with is required"},
			{Field: "services", Check: RequiredAny, Message: "At least one service must be selected"},
			{Field: "sectors", Check: RequiredAny, Message: "At least one sector must be selected"},
		},

		Mapping: []FieldMapping{
			{Source: "telephone", Dest: "telephone", Sanitize: PlainText},
			{Source: "mobile", Dest: "mobile", Sanitize: PlainText},
			{Source: "email", Dest: "email", Sanitize: PlainText},
			{Source: "linkedin", Dest: "linkedin", Sanitize: PlainText},
			{Source: "experience", Dest: "experience", Sanitize: Numeric},
			{Source: "languages", Dest: "languages", Sanitize: List},
			{Source: "citizenship", Dest: "citizenship", Sanitize: List},
			{Source: "gender", Dest: "gender", Sanitize: PlainText},
			{Source: "qualifications", Dest: "overview", Sanitize: RichText},
			{Source: "clients", Dest: "partners", Sanitize: RichText},
			{Source: "education", Dest: "education", Sanitize: Structured,
				SubFields: []string{"school", "degree", "field", "start_date", "end_date"}},
			{Source: "services", Dest: "services", Sanitize: List},
			{Source: "subservices", Dest: "sub_services", Sanitize: List},
			{Source: "sectors", Dest: "sectors", Sanitize: List},
			{Source: "subsectors", Dest: "sub_sectors", Sanitize: List},
			{Source: "country_of_exp", Dest: "working_countries", Sanitize: List},
		},

		Files: []FileField{
			{Name: "photo", MetaKey: "photo", Thumbnail: true},
			{Name: "cv", MetaKey: "cv"},
		},

		NotifySubject: "New Consultant Submission",
	}
}

// DevelopmentPartner is the development implementing partner (DIP) form.
func DevelopmentPartner() FormConfig {
	return FormConfig{
		Type:       "dip",
		Label:      "Development Implementing Partner",
		RecordType: "dip-entries",
		IndexKey:   "dip_submitted_posts",
		Template:   "dip-form",
		MetaPrefix: "dip_",

		NameField:     "name",
		EmailField:    "email",
		PasswordField: "password",
		BioField:      "overview",
		BodyField:     "overview",

		Rules: []Rule{
			{Field: "name", Check: Required, Message: "Name is required"},
			{Field: "email", Check: RequiredEmail, Message: "Valid email is required"},
			{Field: "headquarters", Check: RequiredAny, Message: "Headquarters is required"},
			{Field: "photo", Check: RequiredFile, Message: "Photo upload is required"},
			{Field: "cv", Check: RequiredFile, Message: "Company profile upload is required"},
			{Field: "clients", Check: Required, Message: "Clients worked with is required"},
			{Field: "services", Check: RequiredAny, Message: "At least one service must be selected"},
			{Field: "sectors", Check: RequiredAny, Message: "At least one sector must be selected"},
		},

		Mapping: []FieldMapping{
			{Source: "websites", Dest: "websites", Sanitize: List},
			{Source: "email", Dest: "email", Sanitize: PlainText},
			{Source: "telephone", Dest: "telephone", Sanitize: PlainText},
			{Source: "specific_contact", Dest: "specific_contacts", Sanitize: Structured,
				SubFields: []string{"name", "title", "email", "phone", "country"}},
			{Source: "headquarters", Dest: "headquarters", Sanitize: List},
			{Source: "countries", Dest: "countries", Sanitize: List},
			{Source: "overview", Dest: "overview", Sanitize: RichText},
			{Source: "clients", Dest: "projects", Sanitize: RichText},
			{Source: "services", Dest: "services", Sanitize: List},
			{Source: "subservices", Dest: "sub_services", Sanitize: List},
			{Source: "sectors", Dest: "sectors", Sanitize: List},
			{Source: "subsectors", Dest: "sub_sectors", Sanitize: List},
			{Source: "categories", Dest: "categories", Sanitize: List},
		},

		Files: []FileField{
			{Name: "photo", Thumbnail: true},
			{Name: "cv", MetaKey: "company_profile"},
		},

		NotifySubject: "New DIP Submission",
	}
}

// Generic is the minimal sign-up form: an account plus a short bio.
func Generic() FormConfig {
	return FormConfig{
		Type:       "dap",
		Label:      "Profile",
		RecordType: "dap-entries",
		IndexKey:   "dap_submitted_posts",
		Template:   "generic-form",

		NameField:     "name",
		EmailField:    "email",
		PasswordField: "password",
		BioField:      "bio",
		BodyField:     "bio",

		Rules: []Rule{
			{Field: "name", Check: Required, Message: "Name is required"},
			{Field: "email", Check: RequiredEmail, Message: "Valid email is required"},
		},

		Mapping: []FieldMapping{
			{Source: "email", Dest: "email", Sanitize: PlainText},
		},

		NotifySubject: "New Profile Submission",
	}
}
