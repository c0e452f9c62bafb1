// Package qversion manages immutable question versions. An edit never
// changes a stored row, it inserts a new one with the next version number.
package qversion

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/gnames/gnforms/pkg/identity"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"github.com/gnames/gnforms/pkg/version"
)

// Manager creates, lists and deletes question versions.
type Manager struct {
	store store.Store
	now   func() time.Time
}

// New creates a Manager over a store.
func New(s store.Store) *Manager {
	return &Manager{store: s, now: time.Now}
}

// CreateNextVersion inserts a copy of the question with the edits applied,
// authored by who. The version is computed by version.Next from the
// versions stored for the same section and variable name. Reading the
// siblings and inserting happen in one transaction.
func (m *Manager) CreateNextVersion(
	ctx context.Context,
	questionID uint,
	edits Edits,
	who identity.Identity,
) (*schema.Question, error) {
	if err := identity.Require(who); err != nil {
		return nil, err
	}
	if edits.IsEmpty() {
		return nil, NoEditsError()
	}

	var res schema.Question
	err := m.store.Transaction(ctx, func(tx store.Store) error {
		src, err := tx.Question(ctx, questionID)
		if err != nil {
			return err
		}
		siblings, err := tx.QuestionsByKey(ctx, src.SectionID, src.VariableName)
		if err != nil {
			return err
		}
		vers := make([]string, len(siblings))
		for i := range siblings {
			vers[i] = siblings[i].Version
		}

		res = *src
		res.ID = 0
		if err = edits.apply(&res); err != nil {
			return err
		}
		res.Version = version.Next(src.Version, vers)
		res.ModifiedBy = who.Username
		res.LastModified = m.now().UTC()

		return tx.CreateQuestion(ctx, &res)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Question version created",
		"question_id", res.ID,
		"variable_name", res.VariableName,
		"version", res.Version,
		"from", questionID,
		"user", who.Username,
	)
	return &res, nil
}

// DeleteVersion removes one version. Only its author may do that, other
// versions are not touched.
func (m *Manager) DeleteVersion(
	ctx context.Context,
	questionID uint,
	who identity.Identity,
) error {
	if err := identity.Require(who); err != nil {
		return err
	}

	return m.store.Transaction(ctx, func(tx store.Store) error {
		q, err := tx.Question(ctx, questionID)
		if err != nil {
			return err
		}
		if q.ModifiedBy != who.Username {
			slog.Warn("Refused to delete question version",
				"question_id", questionID,
				"author", q.ModifiedBy,
				"user", who.Username,
			)
			return identity.UnauthorizedError(
				who.Username, "delete a version authored by someone else",
			)
		}
		if err = tx.DeleteQuestion(ctx, questionID); err != nil {
			return err
		}
		slog.Info("Question version deleted",
			"question_id", questionID, "version", q.Version)
		return nil
	})
}

// ListVersions returns all versions of a question from newest to oldest.
func (m *Manager) ListVersions(
	ctx context.Context,
	sectionID uint,
	variableName string,
) ([]schema.Question, error) {
	if _, err := m.store.Section(ctx, sectionID); err != nil {
		return nil, err
	}
	res, err := m.store.QuestionsByKey(ctx, sectionID, variableName)
	if err != nil {
		return nil, err
	}
	sortDesc(res)
	return res, nil
}

// SectionHistory groups versions of one section by variable name.
type SectionHistory struct {
	SectionID uint               `json:"section_id" yaml:"section_id"`
	Title     string             `json:"title" yaml:"title"`
	Variables []VariableVersions `json:"variables" yaml:"variables"`
}

// VariableVersions lists versions of one variable, newest first.
type VariableVersions struct {
	VariableName string            `json:"variable_name" yaml:"variable_name"`
	Versions     []schema.Question `json:"versions" yaml:"versions"`
}

// History returns every version of every question of a form, grouped by
// section in display order and by variable name in order of first
// appearance.
func (m *Manager) History(
	ctx context.Context,
	formID uint,
) ([]SectionHistory, error) {
	form, err := m.store.FormTree(ctx, formID)
	if err != nil {
		return nil, err
	}

	res := make([]SectionHistory, 0, len(form.Sections))
	for _, sec := range form.Sections {
		sh := SectionHistory{SectionID: sec.ID, Title: sec.Title}
		idx := make(map[string]int)
		for _, q := range sec.Questions {
			i, ok := idx[q.VariableName]
			if !ok {
				i = len(sh.Variables)
				idx[q.VariableName] = i
				sh.Variables = append(sh.Variables,
					VariableVersions{VariableName: q.VariableName})
			}
			sh.Variables[i].Versions = append(sh.Variables[i].Versions, q)
		}
		for i := range sh.Variables {
			sortDesc(sh.Variables[i].Versions)
		}
		res = append(res, sh)
	}
	return res, nil
}

// sortDesc orders versions newest first, the higher ID wins a tie.
func sortDesc(qs []schema.Question) {
	slices.SortStableFunc(qs, func(a, b schema.Question) int {
		if c := version.CompareStrings(b.Version, a.Version); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
