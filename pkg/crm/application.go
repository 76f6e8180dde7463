package crm

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
)

// JobApplication is the careers page form.
type JobApplication struct {
	FirstName   string `url:"First Name"`
	LastName    string `url:"Last Name"`
	Email       string `url:"Email"`
	Phone       string `url:"Phone"`
	Position    string `url:"Position Applied"`
	ResumeURL   string `url:"Resume Link"`
	LinkedIn    string `url:"LinkedIn Profile,omitempty"`
	CoverLetter string `url:"Cover Letter,omitempty"`
}

func (JobApplication) Source() string { return "Careers" }

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

// Validate checks the application and returns the flagged fields, or nil.
func (a JobApplication) Validate() FieldErrors {
	errs := FieldErrors{}
	required := map[string]string{
		"firstName": a.FirstName,
		"lastName":  a.LastName,
		"email":     a.Email,
		"phone":     a.Phone,
		"position":  a.Position,
		"resumeUrl": a.ResumeURL,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = "This field is required"
		}
	}
	if _, ok := errs["email"]; !ok {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			errs["email"] = "Enter a valid email address"
		}
	}
	if _, ok := errs["phone"]; !ok && countDigits(a.Phone) < 7 {
		errs["phone"] = "Enter a valid phone number"
	}
	if _, ok := errs["resumeUrl"]; !ok && !isHTTPURL(a.ResumeURL) {
		errs["resumeUrl"] = "Enter a valid link"
	}
	if a.LinkedIn != "" && !isHTTPURL(a.LinkedIn) {
		errs["linkedIn"] = "Enter a valid link"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
