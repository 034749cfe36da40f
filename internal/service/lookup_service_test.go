package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

func TestLookupSectionsByClassDeduplicatesNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		zerolog.Nop(),
	)

	class := models.Class{Name: "Grade 10", NumericValue: 10}
	require.NoError(t, db.Create(&class).Error)

	// "Section A", "SECTION  A" and "section-a" collapse to the same key;
	// name ordering puts "SECTION  A" first, so it wins.
	for _, name := range []string{"Section A", "SECTION  A", "section-a", "Section B"} {
		require.NoError(t, db.Create(&models.Section{Name: name, ClassID: class.ID}).Error)
	}

	items, err := svc.SectionsByClass(context.Background(), &class.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "SECTION  A", items[0].Name, "first occurrence in name order is kept")
	require.Equal(t, "Section B", items[1].Name)
}

func TestLookupSectionsByClassNilParent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		zerolog.Nop(),
	)

	items, err := svc.SectionsByClass(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NotNil(t, items, "absent parameter yields an empty list, not null")
}

func TestLookupStudentsBySectionDeduplicatesFullNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		zerolog.Nop(),
	)

	class := models.Class{Name: "Grade 10", NumericValue: 10}
	require.NoError(t, db.Create(&class).Error)
	section := models.Section{Name: "A", ClassID: class.ID}
	require.NoError(t, db.Create(&section).Error)

	first := seedTestStudent(t, db, "Ravi", "ADM-001", &class.ID, &section.ID)
	seedTestStudent(t, db, "Ravi", "ADM-002", &class.ID, &section.ID)
	seedTestStudent(t, db, "Meera", "ADM-003", &class.ID, &section.ID)

	// Nameless students all share the empty key, so only the first of
	// them makes it into the dropdown.
	nameless := seedTestStudent(t, db, "", "ADM-004", &class.ID, &section.ID)
	seedTestStudent(t, db, "", "ADM-005", &class.ID, &section.ID)

	items, err := svc.StudentsBySectionOrClass(context.Background(), &section.ID, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)

	names := make(map[string]uint)
	for _, item := range items {
		names[item.Name] = item.ID
	}
	require.Equal(t, first.ID, names["Ravi"], "first record in admission order wins")
	require.Contains(t, names, "Meera")
	require.Equal(t, nameless.ID, names[""], "first nameless record wins")
}

func TestLookupStudentsFallsBackToClass(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLookupService(
		repository.NewSectionRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewStudentRepository(db),
		zerolog.Nop(),
	)

	class := models.Class{Name: "Grade 9", NumericValue: 9}
	require.NoError(t, db.Create(&class).Error)
	section := models.Section{Name: "A", ClassID: class.ID}
	require.NoError(t, db.Create(&section).Error)

	// One student is placed in a section, one only in the class.
	sectioned := seedTestStudent(t, db, "Asha", "ADM-101", &class.ID, &section.ID)
	unsectioned := seedTestStudent(t, db, "Vikram", "ADM-102", &class.ID, nil)

	byClass, err := svc.StudentsBySectionOrClass(context.Background(), nil, &class.ID)
	require.NoError(t, err)
	require.Len(t, byClass, 2, "class lookup covers the whole class roster")
	ids := []uint{byClass[0].ID, byClass[1].ID}
	require.Contains(t, ids, sectioned.ID)
	require.Contains(t, ids, unsectioned.ID)

	bySection, err := svc.StudentsBySectionOrClass(context.Background(), &section.ID, &class.ID)
	require.NoError(t, err)
	require.Len(t, bySection, 1, "section narrows the roster when both parameters are given")
	require.Equal(t, sectioned.ID, bySection[0].ID)

	neither, err := svc.StudentsBySectionOrClass(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, neither)
	require.NotNil(t, neither)
}
