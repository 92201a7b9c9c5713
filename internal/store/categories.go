package store

import (
	"context"
	"strings"

	"github.com/sandeepkv93/todod/internal/model"
	"github.com/sandeepkv93/todod/internal/storage"
)

// AddCategory creates a category. Names are unique, case-sensitive.
// An empty color draws a pseudo-random entry from the fixed palette.
func (s *Store) AddCategory(ctx context.Context, name, color string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, validationErr("category name must not be empty")
	}
	if _, exists := s.CategoryByName(name); exists {
		return model.Category{}, conflictErr("category name %q already exists", name)
	}
	if color == "" {
		color = model.ColorAt(s.pick(len(model.Palette)))
	}

	cat := model.Category{ID: s.newID(), Name: name, Color: color}
	if err := cat.Validate(); err != nil {
		return model.Category{}, validationErr("invalid category: %v", err)
	}
	s.categories = append(s.categories, cat)

	if s.repo != nil {
		if err := s.repo.CreateCategory(ctx, storage.Category(cat)); err != nil {
			return cat, persistenceErr(err, "persist category %s", cat.ID)
		}
	}
	return cat, nil
}

// UpdateCategory replaces name and color in place. A rename rewrites
// task.Category for every task referencing the old name in the same
// step, so the denormalized join key never dangles after a rename.
func (s *Store) UpdateCategory(ctx context.Context, id, name, color string) (model.Category, error) {
	idx := s.categoryIndex(id)
	if idx < 0 {
		return model.Category{}, notFoundErr("category %s", id)
	}
	if strings.TrimSpace(name) == "" {
		return model.Category{}, validationErr("category name must not be empty")
	}
	if existing, exists := s.CategoryByName(name); exists && existing.ID != id {
		return model.Category{}, conflictErr("category name %q already exists", name)
	}

	oldName := s.categories[idx].Name
	if color == "" {
		color = s.categories[idx].Color
	}
	cat := model.Category{ID: id, Name: name, Color: color}
	if err := cat.Validate(); err != nil {
		return model.Category{}, validationErr("invalid category: %v", err)
	}
	s.categories[idx] = cat

	var rewritten []model.Task
	if oldName != name {
		now := s.now()
		for i := range s.tasks {
			if s.tasks[i].Category == oldName {
				s.tasks[i].Category = name
				s.tasks[i].LastModified = now
				rewritten = append(rewritten, s.tasks[i])
			}
		}
	}

	if s.repo != nil {
		if err := s.repo.UpdateCategory(ctx, storage.Category(cat)); err != nil {
			return cat, persistenceErr(err, "persist category %s", id)
		}
		for _, t := range rewritten {
			if err := s.repo.UpdateTask(ctx, taskToStorage(t)); err != nil {
				return cat, persistenceErr(err, "persist renamed task %s", t.ID)
			}
		}
	}
	return cat, nil
}

// DeleteCategory removes a category and detaches every task that
// references it by name: the tasks survive with an empty category and a
// refreshed lastModified. This is the one mandatory cascade.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	idx := s.categoryIndex(id)
	if idx < 0 {
		return notFoundErr("category %s", id)
	}
	name := s.categories[idx].Name
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)

	now := s.now()
	var detached []model.Task
	for i := range s.tasks {
		if s.tasks[i].Category == name {
			s.tasks[i].Category = ""
			s.tasks[i].LastModified = now
			detached = append(detached, s.tasks[i])
		}
	}

	if s.repo != nil {
		if err := s.repo.DeleteCategory(ctx, id); err != nil && err != storage.ErrNotFound {
			return persistenceErr(err, "delete category %s", id)
		}
		for _, t := range detached {
			if err := s.repo.UpdateTask(ctx, taskToStorage(t)); err != nil {
				return persistenceErr(err, "persist detached task %s", t.ID)
			}
		}
	}
	return nil
}
