package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mizow1/satelite-column11/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Insert saves a generated article. The (outline_id, language) uniqueness
// constraint is the duplicate signal: a conflicting insert returns false
// without error.
func (r *ArticleRepository) Insert(article *model.Article) (bool, error) {
	article.ID = uuid.NewString()
	err := r.db.QueryRow(`
		INSERT INTO articles(id, outline_id, language, content, user_instructions)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (outline_id, language) DO NOTHING
		RETURNING created_at
	`, article.ID, article.OutlineID, article.Language, article.Content,
		nullString(article.UserInstructions)).Scan(&article.CreatedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *ArticleRepository) Exists(outlineID, language string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM articles WHERE outline_id = $1 AND language = $2)
	`, outlineID, language).Scan(&exists)
	return exists, err
}

const detailedColumns = `
	a.id, a.outline_id, a.language, a.content, a.user_instructions, a.user_rating, a.created_at,
	o.title, o.outline, o.user_rating, o.seo_keywords,
	s.id, s.name
`

func scanDetailed(scan func(dest ...any) error) (*model.ArticleWithDetails, error) {
	var a model.ArticleWithDetails
	var instructions sql.NullString
	var articleRating, outlineRating sql.NullInt64

	err := scan(
		&a.ID, &a.OutlineID, &a.Language, &a.Content, &instructions, &articleRating, &a.CreatedAt,
		&a.OutlineTitle, &a.OutlineText, &outlineRating, &a.SEOKeywords,
		&a.SiteID, &a.SiteName,
	)
	if err != nil {
		return nil, err
	}

	a.UserInstructions = fromNullString(instructions)
	a.UserRating = fromNullInt(articleRating)
	a.OutlineRating = fromNullInt(outlineRating)
	return &a, nil
}

// GetByID loads one article with its outline and site, ownership-filtered.
func (r *ArticleRepository) GetByID(id, userID string) (*model.ArticleWithDetails, error) {
	row := r.db.QueryRow(`
		SELECT `+detailedColumns+`
		FROM articles a
		JOIN article_outlines o ON o.id = a.outline_id
		JOIN sites s ON s.id = o.site_id
		WHERE a.id = $1 AND s.user_id = $2
	`, id, userID)

	a, err := scanDetailed(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListDetailed returns the user's articles with joined outline and site.
// Empty siteID/outlineID/ids leave the corresponding filter off.
func (r *ArticleRepository) ListDetailed(userID, siteID, outlineID string, ids []string) ([]model.ArticleWithDetails, error) {
	rows, err := r.db.Query(`
		SELECT `+detailedColumns+`
		FROM articles a
		JOIN article_outlines o ON o.id = a.outline_id
		JOIN sites s ON s.id = o.site_id
		WHERE s.user_id = $1
		  AND ($2 = '' OR s.id = $2)
		  AND ($3 = '' OR a.outline_id = $3)
		  AND ($4::text[] IS NULL OR cardinality($4::text[]) = 0 OR a.id = ANY($4))
		ORDER BY a.created_at DESC
	`, userID, siteID, outlineID, pq.Array(ids))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.ArticleWithDetails
	for rows.Next() {
		a, err := scanDetailed(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) Update(article *model.Article) error {
	_, err := r.db.Exec(`
		UPDATE articles
		SET content = $1, user_instructions = $2, user_rating = $3
		WHERE id = $4
	`, article.Content, nullString(article.UserInstructions), nullInt(article.UserRating), article.ID)
	return err
}

func (r *ArticleRepository) Rate(id string, rating int) error {
	_, err := r.db.Exec(`UPDATE articles SET user_rating = $1 WHERE id = $2`, rating, id)
	return err
}

func (r *ArticleRepository) Delete(id, userID string) error {
	_, err := r.db.Exec(`
		DELETE FROM articles a
		USING article_outlines o, sites s
		WHERE a.id = $1 AND o.id = a.outline_id AND s.id = o.site_id AND s.user_id = $2
	`, id, userID)
	return err
}
