package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"
	"github.com/pgvector/pgvector-go"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	"github.com/greenthumb-labs/botanicalbuddy/internal/pkg/dbutil"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
)

const plantColumns = `id, trefle_id, common_name, scientific_name, family, genus, growth_habit,
		description, care_instructions, soil_type, water_requirements, sunlight_requirements,
		common_diseases, common_pests, ctime`

type PlantRepo struct {
	db *sql.DB
}

func NewPlantRepo(db *sql.DB) *PlantRepo {
	return &PlantRepo{db: db}
}

func (r *PlantRepo) Create(ctx context.Context, plant *model.Plant) error {
	diseases, err := json.Marshal(plant.CommonDiseases)
	if err != nil {
		return err
	}
	pests, err := json.Marshal(plant.CommonPests)
	if err != nil {
		return err
	}
	var trefleID interface{}
	if plant.TrefleID != 0 {
		trefleID = plant.TrefleID
	}
	data := map[string]interface{}{
		"id":                    plant.ID,
		"trefle_id":             trefleID,
		"common_name":           plant.CommonName,
		"scientific_name":       plant.ScientificName,
		"family":                plant.Family,
		"genus":                 plant.Genus,
		"growth_habit":          plant.GrowthHabit,
		"description":           plant.Description,
		"care_instructions":     plant.CareInstructions,
		"soil_type":             plant.SoilType,
		"water_requirements":    plant.WaterRequirements,
		"sunlight_requirements": plant.SunlightRequirements,
		"common_diseases":       diseases,
		"common_pests":          pests,
		"ctime":                 plant.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("plants", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if dbutil.IsConflict(err) {
		return appErr.ErrInvalid
	}
	return err
}

func (r *PlantRepo) GetByID(ctx context.Context, id string) (*model.Plant, error) {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildSelect("plants", where, plantSelectColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return scanPlant(r.db.QueryRowContext(ctx, sqlStr, args...))
}

// GetByName matches common or scientific name case-insensitively.
func (r *PlantRepo) GetByName(ctx context.Context, name string) (*model.Plant, error) {
	query := `SELECT ` + plantColumns + `
		FROM plants
		WHERE LOWER(common_name) = LOWER($1) OR LOWER(scientific_name) = LOWER($1)
		ORDER BY ctime ASC
		LIMIT 1`
	return scanPlant(r.db.QueryRowContext(ctx, query, name))
}

func (r *PlantRepo) ListNames(ctx context.Context) ([]string, error) {
	const query = `SELECT common_name FROM plants WHERE common_name <> '' ORDER BY common_name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListMissingVectors returns plants whose vector_data has not been
// computed yet, for the backfill job.
func (r *PlantRepo) ListMissingVectors(ctx context.Context, limit int) ([]model.Plant, error) {
	const query = `SELECT id, common_name, scientific_name, description, care_instructions
		FROM plants
		WHERE vector_data IS NULL
		ORDER BY ctime ASC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var plants []model.Plant
	for rows.Next() {
		var p model.Plant
		if err := rows.Scan(&p.ID, &p.CommonName, &p.ScientificName, &p.Description, &p.CareInstructions); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (r *PlantRepo) UpdateVector(ctx context.Context, id string, vec []float32) error {
	const query = `UPDATE plants SET vector_data = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, pgvector.NewVector(vec), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func plantSelectColumns() []string {
	return []string{
		"id", "trefle_id", "common_name", "scientific_name", "family", "genus", "growth_habit",
		"description", "care_instructions", "soil_type", "water_requirements", "sunlight_requirements",
		"common_diseases", "common_pests", "ctime",
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlant(row rowScanner) (*model.Plant, error) {
	var p model.Plant
	var trefleID sql.NullInt64
	var diseases, pests []byte
	err := row.Scan(
		&p.ID, &trefleID, &p.CommonName, &p.ScientificName, &p.Family, &p.Genus, &p.GrowthHabit,
		&p.Description, &p.CareInstructions, &p.SoilType, &p.WaterRequirements, &p.SunlightRequirements,
		&diseases, &pests, &p.Ctime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	p.TrefleID = trefleID.Int64
	if len(diseases) > 0 {
		_ = json.Unmarshal(diseases, &p.CommonDiseases)
	}
	if len(pests) > 0 {
		_ = json.Unmarshal(pests, &p.CommonPests)
	}
	return &p, nil
}
