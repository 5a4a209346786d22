package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Articles is the content repository for owned, visibility-controlled
// articles. CRUD shaping (pagination, DTOs) lives with the service consuming
// it; this surface is what the guards and tests need.
type Articles interface {
	GetByID(ctx context.Context, id int64) (*Article, error)
	ListPublic(ctx context.Context) ([]*Article, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*Article, error)
	Create(ctx context.Context, article *Article) (*Article, error)
	Update(ctx context.Context, article *Article) (*Article, error)
	Delete(ctx context.Context, id int64) error
}

// Comments is the repository for article comments.
type Comments interface {
	GetByID(ctx context.Context, id int64) (*Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*Comment, error)
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	Update(ctx context.Context, comment *Comment) (*Comment, error)
	Delete(ctx context.Context, id int64) error
}

type articles struct {
	db *bun.DB
}

var _ Articles = (*articles)(nil)

// NewArticlesRepository wires an Articles repository over a bun DB.
func NewArticlesRepository(db *bun.DB) Articles {
	return &articles{db: db}
}

func (r *articles) GetByID(ctx context.Context, id int64) (*Article, error) {
	record := &Article{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return nil, err
	}

	return record, nil
}

// ListPublic returns articles that are both published and listed, the only
// set anonymous readers may enumerate.
func (r *articles) ListPublic(ctx context.Context) ([]*Article, error) {
	var records []*Article

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.published = ?", true).
		Where("?TableAlias.listed = ?", true).
		Order("id DESC").
		Scan(ctx)

	return records, err
}

func (r *articles) ListByAuthor(ctx context.Context, authorID int64) ([]*Article, error) {
	var records []*Article

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID).
		Order("id DESC").
		Scan(ctx)

	return records, err
}

func (r *articles) Create(ctx context.Context, article *Article) (*Article, error) {
	if _, err := r.db.NewInsert().Model(article).Exec(ctx); err != nil {
		return nil, err
	}
	return article, nil
}

func (r *articles) Update(ctx context.Context, article *Article) (*Article, error) {
	if _, err := r.db.NewUpdate().Model(article).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return article, nil
}

func (r *articles) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*Article)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

type comments struct {
	db *bun.DB
}

var _ Comments = (*comments)(nil)

// NewCommentsRepository wires a Comments repository over a bun DB.
func NewCommentsRepository(db *bun.DB) Comments {
	return &comments{db: db}
}

func (r *comments) GetByID(ctx context.Context, id int64) (*Comment, error) {
	record := &Comment{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return nil, err
	}

	return record, nil
}

func (r *comments) ListByArticle(ctx context.Context, articleID int64) ([]*Comment, error) {
	var records []*Comment

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.article_id = ?", articleID).
		Order("id ASC").
		Scan(ctx)

	return records, err
}

func (r *comments) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	if _, err := r.db.NewInsert().Model(comment).Exec(ctx); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *comments) Update(ctx context.Context, comment *Comment) (*Comment, error) {
	if _, err := r.db.NewUpdate().Model(comment).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *comments) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*Comment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
