package model

type Audit struct {
	ID             int64   `json:"id_auditoria"`
	Code           string  `json:"codigo"`
	AuditedProcess *string `json:"proceso_auditado"`
	ScheduledDate  string  `json:"fecha_programada"`
	Auditor        *string `json:"auditor"`
	Status         string  `json:"estado"`
	Result         *string `json:"resultado"`
}

type AuditInput struct {
	Code           string  `json:"codigo" validate:"required,max=50"`
	AuditedProcess *string `json:"proceso_auditado"`
	ScheduledDate  *string `json:"fecha_programada" validate:"omitempty,datetime=2006-01-02"`
	Auditor        *string `json:"auditor"`
	Status         *string `json:"estado" validate:"omitempty,max=50"`
	Result         *string `json:"resultado"`
}

type AuditPatch struct {
	Code           *string `json:"codigo" validate:"omitempty,min=1,max=50"`
	AuditedProcess *string `json:"proceso_auditado"`
	ScheduledDate  *string `json:"fecha_programada" validate:"omitempty,datetime=2006-01-02"`
	Auditor        *string `json:"auditor"`
	Status         *string `json:"estado" validate:"omitempty,max=50"`
	Result         *string `json:"resultado"`
}
