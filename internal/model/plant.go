package model

type Plant struct {
	ID                   string    `json:"id"`
	TrefleID             int64     `json:"trefle_id,omitempty"`
	CommonName           string    `json:"common_name"`
	ScientificName       string    `json:"scientific_name"`
	Family               string    `json:"family,omitempty"`
	Genus                string    `json:"genus,omitempty"`
	GrowthHabit          string    `json:"growth_habit,omitempty"`
	Description          string    `json:"description,omitempty"`
	CareInstructions     string    `json:"care_instructions,omitempty"`
	SoilType             string    `json:"soil_type,omitempty"`
	WaterRequirements    string    `json:"water_requirements,omitempty"`
	SunlightRequirements string    `json:"sunlight_requirements,omitempty"`
	CommonDiseases       []string  `json:"common_diseases,omitempty"`
	CommonPests          []string  `json:"common_pests,omitempty"`
	Vector               []float32 `json:"-"`
	Ctime                int64     `json:"ctime"`
}
