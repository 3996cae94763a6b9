package model

import (
	"net/url"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Project identifies the automation. It is read-only and passed explicitly to
// every constructor that annotates resources.
type Project struct {
	Owner         string
	RepoName      string
	SourceInfo    string
	Version       string
	SupportEmails []string
}

func (p Project) validate(path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if p.Owner == "" {
		errs = append(errs, field.Required(path.Child("owner"), ""))
	}
	if p.RepoName == "" {
		errs = append(errs, field.Required(path.Child("repoName"), ""))
	}
	if p.SourceInfo == "" {
		errs = append(errs, field.Required(path.Child("sourceInfo"), ""))
	} else if u, err := url.Parse(p.SourceInfo); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, field.Invalid(path.Child("sourceInfo"), p.SourceInfo, "must be an absolute URL"))
	}
	return errs
}
