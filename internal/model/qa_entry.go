package model

type QAEntry struct {
	ID             string    `json:"id"`
	PlantID        string    `json:"plant_id"`
	QuestionText   string    `json:"question_text"`
	QuestionVector []float32 `json:"-"`
	AnswerText     string    `json:"answer_text"`
	AnswerVector   []float32 `json:"-"`
	Ctime          int64     `json:"ctime"`
}
