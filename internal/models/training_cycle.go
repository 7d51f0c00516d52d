package models

import "strings"

// Grade classifies a training cycle.
type Grade string

const (
	GradeBasic  Grade = "BASIC"
	GradeMedium Grade = "MEDIUM"
	GradeHigher Grade = "HIGHER"
)

// TrainingCycle is an institutional program that owns subjects.
type TrainingCycle struct {
	Code   string `json:"code" validate:"cycle_code"`
	Name   string `json:"name" validate:"notblank"`
	Family string `json:"family,omitempty"`
	Grade  Grade  `json:"grade" validate:"oneof=BASIC MEDIUM HIGHER"`
	Hours  int    `json:"hours" validate:"gte=0,lte=3000"`
}

// CycleOption sets optional metadata on a new training cycle.
type CycleOption func(*TrainingCycle)

// WithFamily sets the professional family.
func WithFamily(family string) CycleOption {
	return func(c *TrainingCycle) { c.Family = strings.TrimSpace(family) }
}

// WithGrade sets the cycle grade.
func WithGrade(grade Grade) CycleOption {
	return func(c *TrainingCycle) { c.Grade = Grade(strings.ToUpper(strings.TrimSpace(string(grade)))) }
}

// WithHours sets the total training hours.
func WithHours(hours int) CycleOption {
	return func(c *TrainingCycle) { c.Hours = hours }
}

// NewTrainingCycle builds a validated training cycle. Grade defaults to HIGHER.
func NewTrainingCycle(code, name string, opts ...CycleOption) (*TrainingCycle, error) {
	c := &TrainingCycle{
		Code: strings.ToUpper(strings.TrimSpace(code)),
		Name: strings.TrimSpace(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Grade == "" {
		c.Grade = GradeHigher
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the cycle's fields.
func (c *TrainingCycle) Validate() error {
	if c == nil {
		return invalid("training cycle is required")
	}
	return validateEntity("training cycle", c)
}

// Key returns the identity key.
func (c *TrainingCycle) Key() string { return c.Code }

// Equal reports identity equality.
func (c *TrainingCycle) Equal(other *TrainingCycle) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Code == other.Code
}

// Clone returns an independent copy.
func (c *TrainingCycle) Clone() *TrainingCycle {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
