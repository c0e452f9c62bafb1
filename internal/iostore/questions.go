package iostore

import (
	"context"

	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
)

// CreateQuestion implements store.Questions.
func (s *gormStore) CreateQuestion(
	ctx context.Context,
	q *schema.Question,
) error {
	if err := s.conn(ctx).Create(q).Error; err != nil {
		return fail("create question", err)
	}
	return nil
}

// Question implements store.Questions.
func (s *gormStore) Question(
	ctx context.Context,
	id uint,
) (*schema.Question, error) {
	var res schema.Question
	if err := s.conn(ctx).First(&res, id).Error; err != nil {
		return nil, lookupErr(err, "question", id)
	}
	return &res, nil
}

// QuestionsByIDs implements store.Questions.
func (s *gormStore) QuestionsByIDs(
	ctx context.Context,
	ids []uint,
) ([]schema.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []schema.Question
	err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&res).Error
	if err != nil {
		return nil, fail("find questions", err)
	}
	return res, nil
}

// QuestionsByKey implements store.Questions.
func (s *gormStore) QuestionsByKey(
	ctx context.Context,
	sectionID uint,
	variableName string,
) ([]schema.Question, error) {
	var res []schema.Question
	err := s.conn(ctx).
		Where("section_id = ? AND variable_name = ?", sectionID, variableName).
		Order("id").Find(&res).Error
	if err != nil {
		return nil, fail("find question versions", err)
	}
	return res, nil
}

// QuestionsByForm implements store.Questions.
func (s *gormStore) QuestionsByForm(
	ctx context.Context,
	formID uint,
) ([]schema.Question, error) {
	var res []schema.Question
	err := s.conn(ctx).
		Select("questions.*").
		Joins("JOIN sections ON sections.id = questions.section_id").
		Where("sections.form_id = ?", formID).
		Order("sections.sort_order, sections.id, questions.id").
		Find(&res).Error
	if err != nil {
		return nil, fail("find questions of form", err)
	}
	return res, nil
}

// VariableNames implements store.Questions.
func (s *gormStore) VariableNames(ctx context.Context) ([]string, error) {
	var res []string
	err := s.conn(ctx).Model(&schema.Question{}).
		Distinct().Pluck("variable_name", &res).Error
	if err != nil {
		return nil, fail("list variable names", err)
	}
	return res, nil
}

// DeleteQuestion implements store.Questions.
func (s *gormStore) DeleteQuestion(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&schema.Question{}, id)
	if res.Error != nil {
		return fail("delete question", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NotFoundError("question", id)
	}
	return nil
}
