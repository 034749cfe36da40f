package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// LookupService feeds the cascading dropdowns on enrollment and
// marks-entry screens. Every operation returns an empty list when the
// parent parameter is absent, and deduplicates display names so a
// dropdown never shows the same label twice.
type LookupService interface {
	SectionsByClass(ctx context.Context, classID *uint) ([]dto.LookupItem, error)
	SubjectsByClass(ctx context.Context, classID *uint) ([]dto.LookupItem, error)
	StudentsBySectionOrClass(ctx context.Context, sectionID, classID *uint) ([]dto.LookupItem, error)
}

type lookupService struct {
	sections repository.SectionRepository
	subjects repository.SubjectRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewLookupService constructs the dropdown lookup service.
func NewLookupService(sections repository.SectionRepository, subjects repository.SubjectRepository, students repository.StudentRepository, logger zerolog.Logger) LookupService {
	return &lookupService{
		sections: sections,
		subjects: subjects,
		students: students,
		logger:   logger.With().Str("component", "lookup_service").Logger(),
	}
}

// normalizeLookupName reduces a display name to its comparison key:
// ASCII letters and digits only, lowercased. "Section A", "section-a"
// and "SECTION  A" all collapse to "sectiona".
func normalizeLookupName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

func (s *lookupService) SectionsByClass(ctx context.Context, classID *uint) ([]dto.LookupItem, error) {
	if classID == nil {
		return []dto.LookupItem{}, nil
	}

	sections, err := s.sections.ListByClass(ctx, *classID)
	if err != nil {
		return nil, err
	}

	// Sections arrive ordered by name, so the first occurrence of each
	// normalized key is the one kept.
	seen := make(map[string]struct{}, len(sections))
	items := make([]dto.LookupItem, 0, len(sections))
	for _, section := range sections {
		key := normalizeLookupName(section.Name)
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(section.Name))
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, dto.LookupItem{ID: section.ID, Name: section.Name})
	}

	return items, nil
}

func (s *lookupService) SubjectsByClass(ctx context.Context, classID *uint) ([]dto.LookupItem, error) {
	if classID == nil {
		return []dto.LookupItem{}, nil
	}

	subjects, err := s.subjects.ListByClass(ctx, *classID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LookupItem, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, dto.LookupItem{ID: subject.ID, Name: subject.Name})
	}

	return items, nil
}

// StudentsBySectionOrClass resolves the roster for the student dropdown.
// A section narrows the list the most, so it wins when both parameters
// are present; a bare class still yields its full roster.
func (s *lookupService) StudentsBySectionOrClass(ctx context.Context, sectionID, classID *uint) ([]dto.LookupItem, error) {
	var (
		students []models.Student
		err      error
	)
	switch {
	case sectionID != nil:
		students, err = s.students.ListBySection(ctx, *sectionID)
	case classID != nil:
		students, err = s.students.ListByClass(ctx, *classID)
	default:
		return []dto.LookupItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	// Duplicate enrollments surface as repeated names; keep the first
	// record per trimmed lowercase full name. Students with no name at
	// all share the empty key, so only the first of them survives too.
	seen := make(map[string]struct{}, len(students))
	items := make([]dto.LookupItem, 0, len(students))
	for _, student := range students {
		name := student.User.FullName()
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, dto.LookupItem{ID: student.ID, Name: name})
	}

	return items, nil
}
