package am

import (
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/topic"
)

var validate = newValidator()

// newValidator reports fields by their config key, e.g. resource.module_path
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration is valid. Every problem found is
// reported in one error.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return errors.Wrap(err, "failed to validate config")
		}
		for _, fe := range fieldErrors {
			problems = append(problems, describe(fe))
		}
	}

	if c.Resource.ModulePath != "" {
		if err := module.CheckPath(c.Resource.ModulePath); err != nil {
			problems = append(problems, "resource.module_path: "+err.Error())
		}
	}

	problems = append(problems, c.validateDirectories()...)

	for _, s := range c.Topics.Services {
		for _, p := range s.Patterns {
			if p.Direction == "" {
				continue
			}
			if _, err := topic.ParseDirection(p.Direction); err != nil {
				problems = append(problems, "topics.service."+p.ID+".direction: "+err.Error())
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.NewInvalidInputError("invalid configuration: %s", strings.Join(problems, "; ")),
		"run 'dsg am show' to see the effective configuration",
	)
}

// validateDirectories checks that directories are relative and nested:
// src inside base, the message broker directory inside src
func (c *Config) validateDirectories() []string {
	var problems []string

	inside := func(key, dir, parent string) {
		if dir == "" {
			return
		}
		clean := path.Clean(dir)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			problems = append(problems, key+" must be a relative path, got "+dir)
			return
		}
		if parent == "" {
			return
		}
		p := path.Clean(parent)
		if p != "." && clean != p && !strings.HasPrefix(clean, p+"/") {
			problems = append(problems, key+" must be inside "+parent+", got "+dir)
		}
	}

	inside("output.base", c.Output.Base, "")
	inside("output.src", c.Output.Src, c.Output.Base)
	inside("output.message_broker", c.Output.MessageBroker, c.SrcDir())
	return problems
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "unique":
		return key + " has duplicates"
	case "gte", "lte":
		return key + " must be " + fe.Tag() + " " + fe.Param()
	default:
		return key + " failed " + fe.Tag() + " " + fe.Param()
	}
}
