// Package report renders printable views of quality records.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"qualityweb/internal/model"
)

const (
	margin     = 36.0
	lineHeight = 15.0
)

// RenderIndicator writes an indicator sheet ("Ficha de Indicador") as PDF to w.
// The document is built in memory first so a failure leaves w untouched.
func RenderIndicator(w io.Writer, ind *model.Indicator) error {
	if ind == nil {
		return fmt.Errorf("render indicator: nil indicator")
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(fmt.Sprintf("Ficha de Indicador %d", ind.ID), true)
	pdf.SetCreator("qualityweb", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 18)
	pdf.CellFormat(0, 24, tr("Ficha de Indicador"), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	field := func(label, value string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Write(lineHeight, tr(label+": "))
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Write(lineHeight, tr(value))
		pdf.Ln(lineHeight)
	}

	field("Código", str(ind.Code))
	field("Indicador", str(ind.Name))
	field("Status", str(ind.Status)+" / "+str(ind.Status2))
	field("Proceso", str(ind.Process))
	field("Responsable", str(ind.Responsible))
	field("Impacto", str(ind.ImpactObjective))
	field("Unidad", str(ind.Unit))
	field("Meta", str(ind.Target))
	field("Frecuencia", str(ind.Frequency))
	field("Principal Objeto", str(ind.MainObject))
	field("Código Procedimiento", str(ind.ProcedureCode))
	field("Fecha deseada fin", localDate(ind.DesiredEndDate))

	section := func(title, body string) {
		pdf.Ln(lineHeight / 2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, lineHeight, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(body), "", "L", false)
	}

	section("Descripción", str(ind.Description))
	section("Estrategia", str(ind.Strategy))
	section("Metodología", str(ind.Methodology))
	section("Procedimiento", str(ind.Procedure))
	section("Objetivos adicionales", str(ind.AdditionalObjectives))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render indicator: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write indicator pdf: %w", err)
	}
	return nil
}

// FileName is the download name for an indicator sheet.
func FileName(id int64) string {
	return fmt.Sprintf("indicador_%d.pdf", id)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// localDate formats a YYYY-MM-DD date as dd/mm/yyyy.
func localDate(s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	t, err := time.Parse(model.DateLayout, *s)
	if err != nil {
		return *s
	}
	return t.Format("02/01/2006")
}
