package handlers

import (
	"fmt"
	"net/http"
	"time"

	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/util"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const leadsSheet = "Leads"

var leadExportHeaders = []string{
	"Student Name", "Mobile", "Email", "Partner", "Status", "Course", "Course Price",
	"Commission", "Payment Method", "Remark", "Created",
}

// leadsWorkbook lays out one row per lead below a header row.
func leadsWorkbook(leads []*models.LeadListItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", leadsSheet); err != nil {
		return nil, err
	}

	for i, header := range leadExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(leadsSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, l := range leads {
		row := i + 2
		values := []interface{}{
			l.StudentName,
			l.Mobile,
			l.Email.String,
			l.PartnerName.String,
			string(l.Status),
			l.CourseTitle.String,
			moneyValue(l.CoursePrice),
			money(l.Commission()),
			l.PaymentTerm.String,
			l.Remark.String,
			util.FormatInZone(l.CreatedAt, displayLoc),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(leadsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// ExportLeads downloads the filtered lead list as an XLSX workbook.
func (h *AdminHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	filter, err := leadFilterFromQuery(r)
	if err != nil {
		http.Error(w, errorMessage(r, err), http.StatusBadRequest)
		return
	}
	leads, err := h.svc.Leads.ListLeads(r.Context(), filter)
	if err != nil {
		http.Error(w, errorMessage(r, err), models.HTTPStatus(err))
		return
	}

	f, err := leadsWorkbook(leads)
	if err != nil {
		log.WithError(err).Error("Failed to build lead export")
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("leads_%s.xlsx", time.Now().In(displayLoc).Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(w); err != nil {
		log.WithError(err).Error("Failed to write lead export")
	}
}
