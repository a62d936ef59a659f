// Package wizard implements the onboarding flow as a linear state machine:
// a fixed sequence of steps, forward/back by one, with each step gating the
// forward transition on its required selection.
package wizard

import (
	"errors"

	"github.com/markyai/studio-backend/internal/models"
)

type Step int

const (
	StepWelcome Step = iota
	StepRole
	StepIndustry
	StepNiche
	StepUseCases
	StepPlatforms
	StepImageTypes
	StepBrandStyle
	StepSummary
)

var stepNames = map[Step]string{
	StepWelcome:    "welcome",
	StepRole:       "role",
	StepIndustry:   "industry",
	StepNiche:      "niche",
	StepUseCases:   "use-cases",
	StepPlatforms:  "platforms",
	StepImageTypes: "image-types",
	StepBrandStyle: "brand-style",
	StepSummary:    "summary",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

var (
	// ErrStepIncomplete means the current step's required field is empty.
	ErrStepIncomplete = errors.New("current step is incomplete")
	// ErrLastStep means Next was called on the summary step.
	ErrLastStep = errors.New("already at the last step")
	// ErrJumpNotAllowed means random-access jumps are only valid in edit mode.
	ErrJumpNotAllowed = errors.New("jumping between steps requires edit mode")
	// ErrWizardIncomplete means Complete was called before the summary step.
	ErrWizardIncomplete = errors.New("wizard has not reached the summary step")
)

// Session is one user's pass through the wizard. Progress lives only in
// memory; nothing is persisted until Complete or Skip.
type Session struct {
	step     Step
	editMode bool
	profile  models.UserProfile
}

// NewSession starts at the welcome step.
func NewSession() *Session {
	return &Session{step: StepWelcome}
}

// NewEditSession enters at the summary pseudo-step with an existing profile
// and allows random-access jumps back to any step.
func NewEditSession(profile models.UserProfile) *Session {
	return &Session{step: StepSummary, editMode: true, profile: profile}
}

func (s *Session) Step() Step { return s.step }

func (s *Session) Profile() models.UserProfile { return s.profile }

// SetProfile replaces the collected answers with the client's current form
// state.
func (s *Session) SetProfile(p models.UserProfile) { s.profile = p }

// CanProceed reports whether the current step's required selection is
// populated. The welcome and summary steps have no requirement.
func (s *Session) CanProceed() bool {
	switch s.step {
	case StepRole:
		return s.profile.Role != ""
	case StepIndustry:
		return s.profile.Industry != ""
	case StepNiche:
		return s.profile.Niche != ""
	case StepUseCases:
		return len(s.profile.UseCases) > 0
	case StepPlatforms:
		return len(s.profile.Platforms) > 0
	case StepImageTypes:
		return len(s.profile.ImageTypes) > 0
	case StepBrandStyle:
		return len(s.profile.BrandStyle) > 0
	}
	return true
}

// Next advances one step. It refuses while the current step is incomplete.
func (s *Session) Next() error {
	if s.step == StepSummary {
		return ErrLastStep
	}
	if !s.CanProceed() {
		return ErrStepIncomplete
	}
	s.step++
	return nil
}

// Back moves one step back; a no-op at the welcome step.
func (s *Session) Back() {
	if s.step > StepWelcome {
		s.step--
	}
}

// Jump moves to an arbitrary step. Only allowed in edit mode.
func (s *Session) Jump(step Step) error {
	if !s.editMode {
		return ErrJumpNotAllowed
	}
	if step < StepWelcome || step > StepSummary {
		return errors.New("invalid step")
	}
	s.step = step
	return nil
}

// Complete finishes the wizard and returns the collected profile. It
// refuses before the summary step; earlier exits go through Skip.
func (s *Session) Complete() (models.UserProfile, error) {
	if s.step != StepSummary {
		return models.UserProfile{}, ErrWizardIncomplete
	}
	return s.profile, nil
}

// Skip exits the wizard early; the profile is returned as-is with the
// skipped flag set.
func (s *Session) Skip() models.UserProfile {
	s.profile.Skipped = true
	return s.profile
}
