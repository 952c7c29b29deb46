package model

// Document is a controlled document. FileURL is nil or the relative URL of
// exactly one stored blob.
type Document struct {
	ID              int64   `json:"id_documento"`
	Code            *string `json:"codigo"`
	Name            string  `json:"nombre_documento"`
	Version         string  `json:"version"`
	Date            string  `json:"fecha"`
	Status          string  `json:"estado"`
	ResponsibleID   *int64  `json:"id_responsable"`
	ResponsibleName string  `json:"responsable,omitempty"`
	Process         *string `json:"proceso"`
	FileURL         *string `json:"url_archivo"`
}

// DocumentInput carries the metadata of a new document. Nil fields take the
// column defaults.
type DocumentInput struct {
	Code          *string `json:"codigo"`
	Name          string  `json:"nombre_documento" validate:"required,max=255"`
	Version       *string `json:"version" validate:"omitempty,max=20"`
	Date          *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"estado" validate:"omitempty,max=50"`
	ResponsibleID *int64  `json:"id_responsable" validate:"omitempty,gt=0"`
	Process       *string `json:"proceso"`
}

// DocumentPatch is a coalesce update: nil fields keep their stored value.
type DocumentPatch struct {
	Code          *string `json:"codigo"`
	Name          *string `json:"nombre_documento" validate:"omitempty,min=1,max=255"`
	Version       *string `json:"version" validate:"omitempty,max=20"`
	Date          *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"estado" validate:"omitempty,max=50"`
	ResponsibleID *int64  `json:"id_responsable" validate:"omitempty,gt=0"`
	Process       *string `json:"proceso"`
}
