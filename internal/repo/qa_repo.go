package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/greenthumb-labs/botanicalbuddy/internal/model"
	appErr "github.com/greenthumb-labs/botanicalbuddy/internal/pkg/errors"
)

type QARepo struct {
	db *sql.DB
}

func NewQARepo(db *sql.DB) *QARepo {
	return &QARepo{db: db}
}

// Create appends a new entry. Entries are never updated; racing requests on
// the same plant may insert near-duplicates and both survive.
func (r *QARepo) Create(ctx context.Context, entry *model.QAEntry) error {
	const query = `
		INSERT INTO qa_entries (id, plant_id, question_text, question_vector, answer_text, answer_vector, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var answerVec interface{}
	if len(entry.AnswerVector) > 0 {
		answerVec = pgvector.NewVector(entry.AnswerVector)
	}
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PlantID,
		entry.QuestionText,
		pgvector.NewVector(entry.QuestionVector),
		entry.AnswerText,
		answerVec,
		entry.Ctime,
	)
	return err
}

// ListByPlant returns a plant's entries in insertion order, which is the
// order the match scan walks them in.
func (r *QARepo) ListByPlant(ctx context.Context, plantID string) ([]model.QAEntry, error) {
	const query = `
		SELECT id, plant_id, question_text, question_vector, answer_text, ctime
		FROM qa_entries
		WHERE plant_id = $1
		ORDER BY ctime ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []model.QAEntry
	for rows.Next() {
		var entry model.QAEntry
		var vec pgvector.Vector
		if err := rows.Scan(&entry.ID, &entry.PlantID, &entry.QuestionText, &vec, &entry.AnswerText, &entry.Ctime); err != nil {
			return nil, err
		}
		entry.QuestionVector = vec.Slice()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *QARepo) GetByID(ctx context.Context, id string) (*model.QAEntry, error) {
	const query = `
		SELECT id, plant_id, question_text, question_vector, answer_text, ctime
		FROM qa_entries
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	var entry model.QAEntry
	var vec pgvector.Vector
	if err := row.Scan(&entry.ID, &entry.PlantID, &entry.QuestionText, &vec, &entry.AnswerText, &entry.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	entry.QuestionVector = vec.Slice()
	return &entry, nil
}
