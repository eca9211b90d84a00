package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	ingredients TEXT[] NOT NULL DEFAULT '{}',
	steps TEXT[] NOT NULL DEFAULT '{}',
	categories TEXT[] NOT NULL DEFAULT '{}',
	tags TEXT[] NOT NULL DEFAULT '{}',
	source_post_id BIGINT NOT NULL DEFAULT 0,
	post_date TEXT NOT NULL DEFAULT '',
	images TEXT[] NOT NULL DEFAULT '{}',
	servings TEXT NOT NULL DEFAULT '',
	cooking_time TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT '',
	cuisine TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS catalog_metadata (
	id SMALLINT PRIMARY KEY,
	metadata JSONB NOT NULL
);
`

var recipeColumns = []string{
	"id", "title", "description", "ingredients", "steps", "categories", "tags",
	"source_post_id", "post_date", "images", "servings", "cooking_time", "difficulty", "cuisine",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// recipeRow mirrors a row of the recipes table.
type recipeRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Ingredients  pq.StringArray `db:"ingredients"`
	Steps        pq.StringArray `db:"steps"`
	Categories   pq.StringArray `db:"categories"`
	Tags         pq.StringArray `db:"tags"`
	SourcePostID int64          `db:"source_post_id"`
	PostDate     string         `db:"post_date"`
	Images       pq.StringArray `db:"images"`
	Servings     string         `db:"servings"`
	CookingTime  string         `db:"cooking_time"`
	Difficulty   string         `db:"difficulty"`
	Cuisine      string         `db:"cuisine"`
}

func (row recipeRow) toRecipe() Recipe {
	return Recipe{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Ingredients:  orEmpty(row.Ingredients),
		Steps:        orEmpty(row.Steps),
		Categories:   orEmpty(row.Categories),
		Tags:         orEmpty(row.Tags),
		SourcePostID: row.SourcePostID,
		PostDate:     row.PostDate,
		Images:       orEmpty(row.Images),
		Servings:     row.Servings,
		CookingTime:  row.CookingTime,
		Difficulty:   row.Difficulty,
		Cuisine:      row.Cuisine,
	}
}

// PostgresStore keeps a read-only mirror of the static dataset in
// PostgreSQL. Rows keep the position they had in the file so the catalog
// order survives the round trip.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgresStore and makes sure the schema exists.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Load reads the whole mirrored dataset in catalog order.
func (s *PostgresStore) Load(ctx context.Context) (*Dataset, error) {
	query, args, err := psql.Select(recipeColumns...).From("recipes").OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recipes query: %w", err)
	}

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	ds := &Dataset{Recipes: make([]Recipe, 0, len(rows))}
	for _, row := range rows {
		ds.Recipes = append(ds.Recipes, row.toRecipe())
	}

	var raw []byte
	err = s.db.QueryRowContext(ctx, "SELECT metadata FROM catalog_metadata WHERE id = 1").Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		ds.Metadata.TotalRecipes = len(ds.Recipes)
	case err != nil:
		return nil, fmt.Errorf("failed to get catalog metadata: %w", err)
	default:
		if err := json.Unmarshal(raw, &ds.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog metadata: %w", err)
		}
	}

	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Replace swaps the mirrored dataset for ds in a single transaction.
func (s *PostgresStore) Replace(ctx context.Context, ds *Dataset) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}

	for i, r := range ds.Recipes {
		query, args, err := psql.Insert("recipes").
			Columns(append([]string{"position"}, recipeColumns...)...).
			Values(
				i, r.ID, r.Title, r.Description,
				pq.StringArray(r.Ingredients), pq.StringArray(r.Steps),
				pq.StringArray(r.Categories), pq.StringArray(r.Tags),
				r.SourcePostID, r.PostDate, pq.StringArray(r.Images),
				r.Servings, r.CookingTime, r.Difficulty, r.Cuisine,
			).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for recipe %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save recipe %s: %w", r.ID, err)
		}
	}

	metadataJSON, err := json.Marshal(ds.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog metadata: %w", err)
	}
	query, args, err := psql.Insert("catalog_metadata").
		Columns("id", "metadata").
		Values(1, metadataJSON).
		Suffix("ON CONFLICT (id) DO UPDATE SET metadata = EXCLUDED.metadata").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build metadata upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save catalog metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}
