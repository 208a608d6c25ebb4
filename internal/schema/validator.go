// Package schema validates records against per-collection field rules.
package schema

import (
	"fmt"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
)

// Result reports the outcome of validating a single record.
type Result struct {
	Success bool
	Errors  []string
}

// Validator checks one record against its collection's schema.
type Validator interface {
	Validate(c model.Collection, rec model.Record) Result
}

// FieldKind constrains the JSON type of a field.
type FieldKind int

const (
	KindAny FieldKind = iota
	KindString
	KindNumber
	KindBool
)

// FieldRule is one constraint on a record field.
type FieldRule struct {
	Name     string
	Kind     FieldKind
	Required bool
	NonEmpty bool // strings only
}

// RuleValidator validates records against declarative field rules.
// Collections without rules pass unconditionally.
type RuleValidator struct {
	rules map[model.Collection][]FieldRule
}

// NewRuleValidator constructs a validator with the suite's collection schemas.
func NewRuleValidator() *RuleValidator {
	return &RuleValidator{rules: map[model.Collection][]FieldRule{
		model.CollectionCandidates: {
			{Name: "name", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "email", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "phone", Kind: KindString},
		},
		model.CollectionJobs: {
			{Name: "title", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "clientId", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "salary", Kind: KindNumber},
			{Name: "open", Kind: KindBool},
		},
		model.CollectionClients: {
			{Name: "name", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "contactEmail", Kind: KindString},
		},
		model.CollectionInvoices: {
			{Name: "clientId", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "amount", Kind: KindNumber, Required: true},
			{Name: "paid", Kind: KindBool},
		},
		model.CollectionUsers: {
			{Name: "username", Kind: KindString, Required: true, NonEmpty: true},
		},
	}}
}

// Validate checks a record against its collection's rules.
func (v *RuleValidator) Validate(c model.Collection, rec model.Record) Result {
	rules, ok := v.rules[c]
	if !ok {
		return Result{Success: true}
	}
	var errs []string
	for _, rule := range rules {
		val, present := rec[rule.Name]
		if !present || val == nil {
			if rule.Required {
				errs = append(errs, fmt.Sprintf("field %q is required", rule.Name))
			}
			continue
		}
		switch rule.Kind {
		case KindString:
			s, ok := val.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a string", rule.Name))
				continue
			}
			if rule.NonEmpty && s == "" {
				errs = append(errs, fmt.Sprintf("field %q must not be empty", rule.Name))
			}
		case KindNumber:
			// JSON numbers decode as float64.
			if _, ok := val.(float64); !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a number", rule.Name))
			}
		case KindBool:
			if _, ok := val.(bool); !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a boolean", rule.Name))
			}
		}
	}
	return Result{Success: len(errs) == 0, Errors: errs}
}
