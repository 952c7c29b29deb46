package model

// Indicator is a process performance indicator sheet.
type Indicator struct {
	ID                   int64   `json:"id_indicador"`
	Code                 *string `json:"codigo"`
	Name                 *string `json:"nombre_indicador"`
	Status               *string `json:"status"`
	Status2              *string `json:"status2"`
	Process              *string `json:"proceso"`
	Responsible          *string `json:"responsable"`
	ImpactObjective      *string `json:"objetivo_impacto"`
	Description          *string `json:"descripcion"`
	Unit                 *string `json:"unidad_medida"`
	Target               *string `json:"meta_objetivo"`
	Frequency            *string `json:"frecuencia_medicion"`
	MainObject           *string `json:"principal_objeto"`
	ProcedureCode        *string `json:"cod_procedimiento"`
	DesiredEndDate       *string `json:"fecha_deseada_finalizacion"`
	Strategy             *string `json:"estrategia"`
	Methodology          *string `json:"metodologia"`
	Procedure            *string `json:"procedimiento"`
	AdditionalObjectives *string `json:"objetivos_adicionales"`
}

// IndicatorFields is shared by create and coalesce update; every field is optional.
type IndicatorFields struct {
	Code                 *string `json:"codigo" validate:"omitempty,max=50"`
	Name                 *string `json:"nombre_indicador" validate:"omitempty,max=255"`
	Status               *string `json:"status"`
	Status2              *string `json:"status2"`
	Process              *string `json:"proceso"`
	Responsible          *string `json:"responsable"`
	ImpactObjective      *string `json:"objetivo_impacto"`
	Description          *string `json:"descripcion"`
	Unit                 *string `json:"unidad_medida"`
	Target               *string `json:"meta_objetivo"`
	Frequency            *string `json:"frecuencia_medicion"`
	MainObject           *string `json:"principal_objeto"`
	ProcedureCode        *string `json:"cod_procedimiento"`
	DesiredEndDate       *string `json:"fecha_deseada_finalizacion" validate:"omitempty,datetime=2006-01-02"`
	Strategy             *string `json:"estrategia"`
	Methodology          *string `json:"metodologia"`
	Procedure            *string `json:"procedimiento"`
	AdditionalObjectives *string `json:"objetivos_adicionales"`
}
