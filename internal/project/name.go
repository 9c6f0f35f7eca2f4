package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"footage/internal/services"
)

// DateLayout is the date format used in project directory names.
const DateLayout = "2006-01-02"

var dirNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_(.+)$`)

// Name is the decoded form of a project directory name.
type Name struct {
	Date  string
	Label string
}

// ParseDirName decodes a YYYY-MM-DD_<label> directory name.
func ParseDirName(dirName string) (Name, error) {
	m := dirNamePattern.FindStringSubmatch(dirName)
	if m == nil {
		return Name{}, services.Wrap(services.ErrValidation, "project", "parse name",
			fmt.Sprintf("%q is not a YYYY-MM-DD_<label> directory name", dirName), nil)
	}
	if _, err := time.Parse(DateLayout, m[1]); err != nil {
		return Name{}, services.Wrap(services.ErrValidation, "project", "parse name",
			fmt.Sprintf("%q has an invalid date", dirName), err)
	}
	if strings.TrimSpace(m[2]) == "" {
		return Name{}, services.Wrap(services.ErrValidation, "project", "parse name",
			fmt.Sprintf("%q has an empty label", dirName), nil)
	}
	return Name{Date: m[1], Label: m[2]}, nil
}

// NewName builds a name for label on the calendar day of t.
func NewName(t time.Time, label string) Name {
	return Name{Date: t.Format(DateLayout), Label: label}
}

// DirName formats the name back to its directory form.
func (n Name) DirName() string {
	return n.Date + "_" + n.Label
}
