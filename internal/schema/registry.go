package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/cdrdecode/internal/ber"
	"github.com/danmuck/cdrdecode/internal/primitive"
	"github.com/rs/zerolog/log"
)

var (
	ErrRuleExists        = errors.New("schema: rule already registered")
	ErrRecordTypeExists  = errors.New("schema: record type already declared")
	ErrUnknownRecordType = errors.New("schema: record type not declared")
	ErrInvalidRule       = errors.New("schema: invalid rule")
)

// RecordType identifies a CDR variant by its root tag number. Types without a
// layout are recognized but never decoded.
type RecordType struct {
	Tag  uint32
	Name string
	// Layout is false for types whose field layout is not known.
	Layout bool
}

// Rule says how to decode one field.
type Rule struct {
	Name   string
	Kind   primitive.Kind
	Params primitive.Params
}

// Field is a rule together with the path it is registered under.
type Field struct {
	Path Path
	Rule Rule
}

type ruleKey struct {
	record uint32
	path   Path
}

// Builder collects record types and rules. It is not safe for concurrent use.
type Builder struct {
	types map[uint32]RecordType
	rules map[ruleKey]Rule
}

func NewBuilder() *Builder {
	return &Builder{
		types: make(map[uint32]RecordType),
		rules: make(map[ruleKey]Rule),
	}
}

// Declare adds a record type. A type declared without a layout is recognized
// but skipped.
func (b *Builder) Declare(rt RecordType) error {
	if strings.TrimSpace(rt.Name) == "" {
		return fmt.Errorf("%w: record type %d has no name", ErrInvalidRule, rt.Tag)
	}
	if _, ok := b.types[rt.Tag]; ok {
		return fmt.Errorf("%w: %d", ErrRecordTypeExists, rt.Tag)
	}
	b.types[rt.Tag] = rt
	return nil
}

// Register adds the rule for path under a declared record type with a layout.
func (b *Builder) Register(recordTag uint32, path Path, rule Rule) error {
	rt, ok := b.types[recordTag]
	if !ok || !rt.Layout {
		return fmt.Errorf("%w: %d", ErrUnknownRecordType, recordTag)
	}
	if err := validateRule(path, rule); err != nil {
		return err
	}
	k := ruleKey{record: recordTag, path: path}
	if _, ok := b.rules[k]; ok {
		return fmt.Errorf("%w: record=%d path=%s", ErrRuleExists, recordTag, path)
	}
	b.rules[k] = rule
	return nil
}

func validateRule(path Path, rule Rule) error {
	switch {
	case path.Len() == 0:
		return fmt.Errorf("%w: empty path", ErrInvalidRule)
	case strings.TrimSpace(rule.Name) == "":
		return fmt.Errorf("%w: path %s has no name", ErrInvalidRule, path)
	case rule.Kind.String() == "unknown":
		return fmt.Errorf("%w: %s has unknown kind %d", ErrInvalidRule, rule.Name, rule.Kind)
	case rule.Kind == primitive.KindByteEnum && rule.Params.Enum == nil:
		return fmt.Errorf("%w: %s has no enum table", ErrInvalidRule, rule.Name)
	}
	return nil
}

// Build freezes the collected tables. The builder must not be used afterwards.
func (b *Builder) Build() *Registry {
	r := &Registry{
		types:  b.types,
		rules:  b.rules,
		fields: make(map[uint32][]Field, len(b.types)),
	}
	for k, rule := range b.rules {
		r.fields[k.record] = append(r.fields[k.record], Field{Path: k.path, Rule: rule})
	}
	for tag, fs := range r.fields {
		sort.Slice(fs, func(i, j int) bool { return fs[i].Path.Less(fs[j].Path) })
		r.fields[tag] = fs
	}
	b.types, b.rules = nil, nil
	log.Debug().
		Int("record_types", len(r.types)).
		Int("rules", len(r.rules)).
		Msg("schema.Build complete")
	return r
}

// Registry is a read-only rule table, safe for concurrent use.
type Registry struct {
	types  map[uint32]RecordType
	rules  map[ruleKey]Rule
	fields map[uint32][]Field
}

// Resolve returns the rule for path inside a record of type recordTag.
func (r *Registry) Resolve(recordTag uint32, path Path) (Rule, bool) {
	rule, ok := r.rules[ruleKey{record: recordTag, path: path}]
	return rule, ok
}

// RecordTypeFor returns the record type declared for a root tag number.
func (r *Registry) RecordTypeFor(tag uint32) (RecordType, bool) {
	rt, ok := r.types[tag]
	return rt, ok
}

// KnownRoot reports whether a root node should be scanned as a record. Only
// context-specific tags of types with a layout qualify.
func (r *Registry) KnownRoot(class ber.Class, number uint32) bool {
	if class != ber.ClassContextSpecific {
		return false
	}
	rt, ok := r.types[number]
	return ok && rt.Layout
}

// Fields lists the rules of a record type ordered by path. The slice must not
// be modified.
func (r *Registry) Fields(recordTag uint32) []Field {
	return r.fields[recordTag]
}

// Types lists the declared record types ordered by tag.
func (r *Registry) Types() []RecordType {
	list := make([]RecordType, 0, len(r.types))
	for _, rt := range r.types {
		list = append(list, rt)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Tag < list[j].Tag })
	return list
}
