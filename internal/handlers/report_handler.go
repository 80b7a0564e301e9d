// GestionDePagos/internal/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/DevCat-HGS/GestionDePagos/config"
	"github.com/DevCat-HGS/GestionDePagos/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GeneratePaymentReportHandler exporta a Excel los pagos que cumplen los
// filtros de la consulta.
func GeneratePaymentReportHandler(c *gin.Context) {
	query := config.DB.Model(&models.Payment{}).Preload("CreatedBy")

	if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
		start, err1 := parseDate(startDate)
		end, err2 := parseDate(endDate)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		query = query.Where("date BETWEEN ? AND ?", start, end)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientName := c.Query("clientName"); clientName != "" {
		query = query.Where("client_name LIKE ?", "%"+clientName+"%")
	}
	if clientID := c.Query("clientId"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var payments []models.Payment
	if err := query.Order("date ASC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(payments) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se encontraron pagos con los filtros proporcionados"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Reporte de Pagos"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeHeaderRow(f, sheetName, []string{"ID", "Cliente", "ID Cliente", "Monto", "Fecha", "Estado", "Método de Pago", "Notas", "Registrado Por"})

	for i, p := range payments {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.ClientName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.ClientID)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Date.Format("02/01/2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), p.Notes)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), p.CreatedBy.Name)
	}

	writeWorkbook(c, f, fmt.Sprintf("reporte_pagos_%s.xlsx", time.Now().Format("20060102_150405")))
}

// GenerateUserReportHandler exporta a Excel el listado de usuarios con su
// estado de aprobación. Solo administradores.
func GenerateUserReportHandler(c *gin.Context) {
	query := config.DB.Model(&models.User{})

	if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
		start, err1 := parseDate(startDate)
		end, err2 := parseDate(endDate)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
			return
		}
		query = query.Where("created_at BETWEEN ? AND ?", start, end)
	}

	var users []models.User
	if err := query.Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No se encontraron usuarios con los filtros proporcionados"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Reporte de Usuarios"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeHeaderRow(f, sheetName, []string{"ID", "Nombre", "Email", "Rol", "Estado", "Fecha de Registro"})

	for i, u := range users {
		row := i + 2
		approval := "Pendiente"
		if u.IsApproved {
			approval = "Aprobado"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), u.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), u.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), u.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), u.Role)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), approval)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), u.CreatedAt.Format("02/01/2006"))
	}

	writeWorkbook(c, f, "reporte_usuarios.xlsx")
}

// GenerateEventReportHandler exporta a Excel el detalle de un evento: una
// hoja con la información general, otra con los pagos y una de resumen.
func GenerateEventReportHandler(c *gin.Context) {
	var event models.Event
	if err := config.DB.Preload("CreatedBy").Preload("Payments").Preload("Payments.CreatedBy").
		First(&event, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
		return
	}

	// Para eventos en progreso el cliente puede acotar los pagos a un rango.
	filteredPayments := event.Payments
	if event.Status == models.EventStatusInProgress {
		if startDate, endDate := c.Query("startDate"), c.Query("endDate"); startDate != "" && endDate != "" {
			start, err1 := parseDate(startDate)
			end, err2 := parseDate(endDate)
			if err1 != nil || err2 != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Use YYYY-MM-DD."})
				return
			}
			filteredPayments = nil
			for _, p := range event.Payments {
				if !p.Date.Before(start) && !p.Date.After(end) {
					filteredPayments = append(filteredPayments, p)
				}
			}
		}
	}

	f := excelize.NewFile()

	infoSheet := "Información del Evento"
	index, _ := f.NewSheet(infoSheet)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeHeaderRow(f, infoSheet, []string{"Propiedad", "Valor"})
	infoRows := [][2]interface{}{
		{"Nombre del Evento", event.Name},
		{"Descripción", event.Description},
		{"Fecha de Inicio", event.StartDate.Format("02/01/2006")},
		{"Fecha de Finalización", event.EndDate.Format("02/01/2006")},
		{"Frecuencia de Recolección", event.CollectionFrequency},
		{"Monto Objetivo", fmt.Sprintf("$%.2f", event.TargetAmount)},
		{"Monto Actual", fmt.Sprintf("$%.2f", event.CurrentAmount)},
		{"Estado", event.Status},
		{"Creado Por", event.CreatedBy.Name},
		{"Fecha de Creación", event.CreatedAt.Format("02/01/2006")},
	}
	for i, pair := range infoRows {
		row := i + 2
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", row), pair[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", row), pair[1])
	}

	paymentsSheet := "Pagos"
	f.NewSheet(paymentsSheet)
	writeHeaderRow(f, paymentsSheet, []string{"ID", "Cliente", "ID Cliente", "Monto", "Fecha", "Estado", "Método de Pago", "Registrado Por"})
	for i, p := range filteredPayments {
		row := i + 2
		f.SetCellValue(paymentsSheet, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("B%d", row), p.ClientName)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("C%d", row), p.ClientID)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("D%d", row), p.Amount)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("E%d", row), p.Date.Format("02/01/2006"))
		f.SetCellValue(paymentsSheet, fmt.Sprintf("F%d", row), p.Status)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("G%d", row), p.PaymentMethod)
		f.SetCellValue(paymentsSheet, fmt.Sprintf("H%d", row), p.CreatedBy.Name)
	}

	var totalAmount float64
	for _, p := range filteredPayments {
		totalAmount += p.Amount
	}
	progress := event.CurrentAmount / event.TargetAmount * 100

	summarySheet := "Resumen"
	f.NewSheet(summarySheet)
	writeHeaderRow(f, summarySheet, []string{"Métrica", "Valor"})
	f.SetCellValue(summarySheet, "A2", "Total de Pagos")
	f.SetCellValue(summarySheet, "B2", len(filteredPayments))
	f.SetCellValue(summarySheet, "A3", "Monto Total Recaudado")
	f.SetCellValue(summarySheet, "B3", fmt.Sprintf("$%.2f", totalAmount))
	f.SetCellValue(summarySheet, "A4", "Monto Objetivo")
	f.SetCellValue(summarySheet, "B4", fmt.Sprintf("$%.2f", event.TargetAmount))
	f.SetCellValue(summarySheet, "A5", "Progreso")
	f.SetCellValue(summarySheet, "B5", fmt.Sprintf("%.2f%%", progress))

	writeWorkbook(c, f, fmt.Sprintf("reporte_evento_%d_%s.xlsx", event.ID, time.Now().Format("2006-01-02")))
}

// writeHeaderRow escribe la fila de encabezados de una hoja.
func writeHeaderRow(f *excelize.File, sheetName string, headers []string) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
}

// writeWorkbook envía el libro como archivo adjunto de la respuesta.
func writeWorkbook(c *gin.Context, f *excelize.File, fileName string) {
	c.Header("Content-Type", excelContentType)
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo escribir el archivo Excel"})
	}
}
