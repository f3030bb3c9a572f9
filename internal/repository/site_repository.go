package repository

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/mizow1/satelite-column11/internal/model"
)

type SiteRepository struct {
	db *sql.DB
}

func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) Create(site *model.Site) error {
	site.ID = uuid.NewString()
	return r.db.QueryRow(`
		INSERT INTO sites(id, user_id, name, url, site_image)
		VALUES($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, site.ID, site.UserID, site.Name, nullString(site.URL), nullString(site.SiteImage)).
		Scan(&site.CreatedAt, &site.UpdatedAt)
}

func (r *SiteRepository) scanSite(row *sql.Row) (*model.Site, error) {
	var s model.Site
	var url, image, policy sql.NullString
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &url, &image, &policy, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.URL = fromNullString(url)
	s.SiteImage = fromNullString(image)
	s.ContentPolicy = fromNullString(policy)
	return &s, nil
}

// GetByID is ownership-filtered: a site belonging to another user reads as
// absent.
func (r *SiteRepository) GetByID(id, userID string) (*model.Site, error) {
	return r.scanSite(r.db.QueryRow(`
		SELECT id, user_id, name, url, site_image, content_policy, created_at, updated_at
		FROM sites
		WHERE id = $1 AND user_id = $2
	`, id, userID))
}

func (r *SiteRepository) ListByUser(userID string) ([]model.Site, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, url, site_image, content_policy, created_at, updated_at
		FROM sites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []model.Site
	for rows.Next() {
		var s model.Site
		var url, image, policy sql.NullString
		err := rows.Scan(&s.ID, &s.UserID, &s.Name, &url, &image, &policy, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		s.URL = fromNullString(url)
		s.SiteImage = fromNullString(image)
		s.ContentPolicy = fromNullString(policy)
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sites, nil
}

func (r *SiteRepository) Update(site *model.Site) error {
	_, err := r.db.Exec(`
		UPDATE sites
		SET name = $1, url = $2, site_image = $3, content_policy = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
	`, site.Name, nullString(site.URL), nullString(site.SiteImage),
		nullString(site.ContentPolicy), site.ID, site.UserID)
	return err
}

func (r *SiteRepository) UpdatePolicy(siteID, userID, policy string) error {
	_, err := r.db.Exec(`
		UPDATE sites SET content_policy = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
	`, policy, siteID, userID)
	return err
}

func (r *SiteRepository) Delete(id, userID string) error {
	_, err := r.db.Exec(`DELETE FROM sites WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

// ReplaceURLs implements the crawl result persistence: delete all existing
// site URLs and insert the new set in one transaction.
func (r *SiteRepository) ReplaceURLs(siteID string, urls []string) ([]model.SiteURL, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM site_urls WHERE site_id = $1`, siteID)
	if err != nil {
		return nil, err
	}

	saved := make([]model.SiteURL, 0, len(urls))
	for _, u := range urls {
		su := model.SiteURL{ID: uuid.NewString(), SiteID: siteID, URL: u, IsActive: true}
		err := tx.QueryRow(`
			INSERT INTO site_urls(id, site_id, url, is_active)
			VALUES($1, $2, $3, TRUE)
			RETURNING created_at
		`, su.ID, siteID, u).Scan(&su.CreatedAt)
		if err != nil {
			return nil, err
		}
		saved = append(saved, su)
	}

	return saved, tx.Commit()
}

func (r *SiteRepository) GetURLs(siteID string, activeOnly bool) ([]model.SiteURL, error) {
	query := `
		SELECT id, site_id, url, is_active, created_at
		FROM site_urls
		WHERE site_id = $1
		ORDER BY created_at DESC
	`
	if activeOnly {
		query = `
		SELECT id, site_id, url, is_active, created_at
		FROM site_urls
		WHERE site_id = $1 AND is_active
		ORDER BY created_at DESC
	`
	}

	rows, err := r.db.Query(query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []model.SiteURL
	for rows.Next() {
		var u model.SiteURL
		if err := rows.Scan(&u.ID, &u.SiteID, &u.URL, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// CountsByUser backs the dashboard stats endpoint.
func (r *SiteRepository) CountsByUser(userID string) (sites, outlines, articles int, err error) {
	err = r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM sites WHERE user_id = $1),
			(SELECT COUNT(*) FROM article_outlines o JOIN sites s ON s.id = o.site_id WHERE s.user_id = $1),
			(SELECT COUNT(*) FROM articles a JOIN article_outlines o ON o.id = a.outline_id JOIN sites s ON s.id = o.site_id WHERE s.user_id = $1)
	`, userID).Scan(&sites, &outlines, &articles)
	return
}
