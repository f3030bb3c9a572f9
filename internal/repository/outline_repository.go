package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mizow1/satelite-column11/internal/model"
)

type OutlineRepository struct {
	db *sql.DB
}

func NewOutlineRepository(db *sql.DB) *OutlineRepository {
	return &OutlineRepository{db: db}
}

func (r *OutlineRepository) Create(outline *model.ArticleOutline) error {
	outline.ID = uuid.NewString()
	return r.db.QueryRow(`
		INSERT INTO article_outlines(id, site_id, title, outline, seo_keywords)
		VALUES($1, $2, $3, $4, $5)
		RETURNING created_at
	`, outline.ID, outline.SiteID, outline.Title, outline.Outline, outline.SEOKeywords).
		Scan(&outline.CreatedAt)
}

func (r *OutlineRepository) GetByID(id, userID string) (*model.ArticleOutline, error) {
	var o model.ArticleOutline
	var rating sql.NullInt64
	err := r.db.QueryRow(`
		SELECT o.id, o.site_id, o.title, o.outline, o.seo_keywords, o.user_rating, o.created_at
		FROM article_outlines o
		JOIN sites s ON s.id = o.site_id
		WHERE o.id = $1 AND s.user_id = $2
	`, id, userID).Scan(&o.ID, &o.SiteID, &o.Title, &o.Outline, &o.SEOKeywords, &rating, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.UserRating = fromNullInt(rating)
	return &o, nil
}

func (r *OutlineRepository) listRows(rows *sql.Rows) ([]model.ArticleOutline, error) {
	defer rows.Close()

	var outlines []model.ArticleOutline
	for rows.Next() {
		var o model.ArticleOutline
		var rating sql.NullInt64
		err := rows.Scan(&o.ID, &o.SiteID, &o.Title, &o.Outline, &o.SEOKeywords, &rating, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		o.UserRating = fromNullInt(rating)
		outlines = append(outlines, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outlines, nil
}

func (r *OutlineRepository) ListBySite(siteID string) ([]model.ArticleOutline, error) {
	rows, err := r.db.Query(`
		SELECT id, site_id, title, outline, seo_keywords, user_rating, created_at
		FROM article_outlines
		WHERE site_id = $1
		ORDER BY created_at DESC
	`, siteID)
	if err != nil {
		return nil, err
	}
	return r.listRows(rows)
}

// ListRecentBySite returns the newest outlines first, used as
// duplicate-avoidance context for generation.
func (r *OutlineRepository) ListRecentBySite(siteID string, limit int) ([]model.ArticleOutline, error) {
	rows, err := r.db.Query(`
		SELECT id, site_id, title, outline, seo_keywords, user_rating, created_at
		FROM article_outlines
		WHERE site_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, siteID, limit)
	if err != nil {
		return nil, err
	}
	return r.listRows(rows)
}

func (r *OutlineRepository) Rate(id string, rating int) error {
	_, err := r.db.Exec(`UPDATE article_outlines SET user_rating = $1 WHERE id = $2`, rating, id)
	return err
}

func (r *OutlineRepository) Delete(id, userID string) error {
	_, err := r.db.Exec(`
		DELETE FROM article_outlines o
		USING sites s
		WHERE o.id = $1 AND s.id = o.site_id AND s.user_id = $2
	`, id, userID)
	return err
}

// ListWithSite fetches outlines joined to their site for export. When ids is
// empty all of the user's outlines qualify, optionally narrowed to one site.
func (r *OutlineRepository) ListWithSite(userID, siteID string, ids []string) ([]model.OutlineWithSite, error) {
	query := `
		SELECT o.id, o.site_id, o.title, o.outline, o.seo_keywords, o.user_rating, o.created_at, s.name
		FROM article_outlines o
		JOIN sites s ON s.id = o.site_id
		WHERE s.user_id = $1
		  AND ($2 = '' OR o.site_id = $2)
		  AND ($3::text[] IS NULL OR cardinality($3::text[]) = 0 OR o.id = ANY($3))
		ORDER BY o.created_at DESC
	`
	rows, err := r.db.Query(query, userID, siteID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outlines []model.OutlineWithSite
	for rows.Next() {
		var o model.OutlineWithSite
		var rating sql.NullInt64
		err := rows.Scan(&o.ID, &o.SiteID, &o.Title, &o.Outline, &o.SEOKeywords, &rating, &o.CreatedAt, &o.SiteName)
		if err != nil {
			return nil, err
		}
		o.UserRating = fromNullInt(rating)
		outlines = append(outlines, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return outlines, nil
}
