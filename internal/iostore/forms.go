package iostore

import (
	"context"

	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"gorm.io/gorm"
)

// CreateImport implements store.Imports.
func (s *gormStore) CreateImport(
	ctx context.Context,
	imp *schema.ImportedCSV,
) error {
	if err := s.conn(ctx).Omit("Forms").Create(imp).Error; err != nil {
		return fail("create import", err)
	}
	return nil
}

// Import implements store.Imports.
func (s *gormStore) Import(
	ctx context.Context,
	id uint,
) (*schema.ImportedCSV, error) {
	var res schema.ImportedCSV
	if err := s.conn(ctx).First(&res, id).Error; err != nil {
		return nil, lookupErr(err, "imported CSV", id)
	}
	return &res, nil
}

// ImportsByDigest implements store.Imports.
func (s *gormStore) ImportsByDigest(
	ctx context.Context,
	digest string,
) ([]schema.ImportedCSV, error) {
	var res []schema.ImportedCSV
	err := s.conn(ctx).Omit("content").
		Where("digest = ?", digest).Order("id").Find(&res).Error
	if err != nil {
		return nil, fail("find imports by digest", err)
	}
	return res, nil
}

// ListImports implements store.Imports.
func (s *gormStore) ListImports(
	ctx context.Context,
) ([]schema.ImportedCSV, error) {
	var res []schema.ImportedCSV
	err := s.conn(ctx).Omit("content").Order("id").Find(&res).Error
	if err != nil {
		return nil, fail("list imports", err)
	}
	return res, nil
}

// DeleteImport implements store.Imports.
func (s *gormStore) DeleteImport(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx store.Store) error {
		db := tx.(*gormStore).conn(ctx)

		var count int64
		err := db.Model(&schema.ImportedCSV{}).Where("id = ?", id).
			Count(&count).Error
		if err != nil {
			return fail("check import", err)
		}
		if count == 0 {
			return store.NotFoundError("imported CSV", id)
		}

		var formIDs []uint
		err = db.Model(&schema.Form{}).
			Where("import_source_id = ?", id).Pluck("id", &formIDs).Error
		if err != nil {
			return fail("find forms of import", err)
		}
		if err = deleteForms(db, formIDs); err != nil {
			return err
		}

		err = db.Delete(&schema.ImportedCSV{}, id).Error
		if err != nil {
			return fail("delete import", err)
		}
		return nil
	})
}

// CreateForm implements store.Forms.
func (s *gormStore) CreateForm(ctx context.Context, f *schema.Form) error {
	return s.Transaction(ctx, func(tx store.Store) error {
		err := tx.(*gormStore).conn(ctx).Create(f).Error
		if err != nil {
			return fail("create form", err)
		}
		return nil
	})
}

// Form implements store.Forms.
func (s *gormStore) Form(ctx context.Context, id uint) (*schema.Form, error) {
	var res schema.Form
	if err := s.conn(ctx).First(&res, id).Error; err != nil {
		return nil, lookupErr(err, "form", id)
	}
	return &res, nil
}

// FormTree implements store.Forms.
func (s *gormStore) FormTree(
	ctx context.Context,
	id uint,
) (*schema.Form, error) {
	var res schema.Form
	err := s.conn(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		First(&res, id).Error
	if err != nil {
		return nil, lookupErr(err, "form", id)
	}
	return &res, nil
}

// ListForms implements store.Forms.
func (s *gormStore) ListForms(ctx context.Context) ([]schema.Form, error) {
	var res []schema.Form
	if err := s.conn(ctx).Order("id").Find(&res).Error; err != nil {
		return nil, fail("list forms", err)
	}
	return res, nil
}

// DeleteForm implements store.Forms.
func (s *gormStore) DeleteForm(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx store.Store) error {
		db := tx.(*gormStore).conn(ctx)
		var count int64
		err := db.Model(&schema.Form{}).Where("id = ?", id).Count(&count).Error
		if err != nil {
			return fail("check form", err)
		}
		if count == 0 {
			return store.NotFoundError("form", id)
		}
		return deleteForms(db, []uint{id})
	})
}

// deleteForms removes forms with their children explicitly, so the
// result does not depend on foreign key enforcement.
func deleteForms(db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	sections := db.Session(&gorm.Session{NewDB: true}).
		Model(&schema.Section{}).Select("id").Where("form_id IN ?", ids)
	err := db.Where("section_id IN (?)", sections).
		Delete(&schema.Question{}).Error
	if err != nil {
		return fail("delete questions", err)
	}

	err = db.Where("form_id IN ?", ids).Delete(&schema.Section{}).Error
	if err != nil {
		return fail("delete sections", err)
	}

	err = db.Where("id IN ?", ids).Delete(&schema.Form{}).Error
	if err != nil {
		return fail("delete forms", err)
	}
	return nil
}

// Section implements store.Forms.
func (s *gormStore) Section(
	ctx context.Context,
	id uint,
) (*schema.Section, error) {
	var res schema.Section
	if err := s.conn(ctx).First(&res, id).Error; err != nil {
		return nil, lookupErr(err, "section", id)
	}
	return &res, nil
}
