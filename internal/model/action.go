package model

// CorrectiveAction tracks a corrective or preventive action to closure.
type CorrectiveAction struct {
	ID            int64   `json:"id_accion"`
	Code          *string `json:"codigo"`
	Origin        *string `json:"origen"`
	Description   *string `json:"descripcion"`
	ResponsibleID *int64  `json:"id_responsable"`
	DueDate       string  `json:"fecha_limite"`
	Status        string  `json:"estado"`
}

type CorrectiveActionInput struct {
	Code          *string `json:"codigo" validate:"omitempty,max=50"`
	Origin        *string `json:"origen"`
	Description   *string `json:"descripcion"`
	ResponsibleID *int64  `json:"id_responsable" validate:"omitempty,gt=0"`
	DueDate       *string `json:"fecha_limite" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"estado" validate:"omitempty,max=50"`
}

type CorrectiveActionPatch struct {
	Code          *string `json:"codigo" validate:"omitempty,max=50"`
	Origin        *string `json:"origen"`
	Description   *string `json:"descripcion"`
	ResponsibleID *int64  `json:"id_responsable" validate:"omitempty,gt=0"`
	DueDate       *string `json:"fecha_limite" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"estado" validate:"omitempty,max=50"`
}
