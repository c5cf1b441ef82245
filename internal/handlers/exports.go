package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/auth"
	"example.com/safetospend/backend/internal/models"
)

const (
	exportTypeExpenses = "expenses"
	exportTypeBills    = "bills"
)

const timeLayout = time.RFC3339

// ExportJSON выгружает траты пользователя за период в JSON-файл.
func (h *ExpenseHandler) ExportJSON(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parseExpenseRange(c)
	if err != nil {
		return badRequest(c, "invalid date range")
	}

	expenses, err := h.Expenses.List(c.Request().Context(), userID, from, to)
	if err != nil {
		return serverError(c)
	}

	filename := "expenses-" + time.Now().UTC().Format(dateLayout) + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, toExpenseResponses(expenses))
}

// ExportCSV выгружает траты или счета пользователя в CSV-файл.
func (h *ExpenseHandler) ExportCSV(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeExpenses
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeExpenses:
		from, to, err := parseExpenseRange(c)
		if err != nil {
			return badRequest(c, "invalid date range")
		}
		expenses, err := h.Expenses.List(c.Request().Context(), userID, from, to)
		if err != nil {
			return serverError(c)
		}
		if err := writeExpensesCSV(writer, expenses); err != nil {
			return serverError(c)
		}
	case exportTypeBills:
		bills, err := h.Bills.List(c.Request().Context(), userID)
		if err != nil {
			return serverError(c)
		}
		if err := writeBillsCSV(writer, bills); err != nil {
			return serverError(c)
		}
	default:
		return badRequest(c, "invalid export type")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := exportType + "-" + time.Now().UTC().Format(dateLayout) + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeExpensesCSV(writer *csv.Writer, expenses []models.Expense) error {
	header := []string{
		"id",
		"amount_cents",
		"date",
		"category",
		"note",
		"created_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, expense := range expenses {
		record := []string{
			expense.ID.String(),
			formatInt64(expense.AmountCents),
			expense.Date.Format(timeLayout),
			derefString(expense.Category),
			derefString(expense.Note),
			expense.CreatedAt.Format(timeLayout),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func writeBillsCSV(writer *csv.Writer, bills []models.Bill) error {
	header := []string{
		"id",
		"name",
		"amount_cents",
		"cadence",
		"due_day_of_month",
		"next_due_date",
		"active",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, bill := range bills {
		var dueDay, nextDue string
		if bill.DueDayOfMonth != nil {
			dueDay = formatInt(*bill.DueDayOfMonth)
		}
		if bill.NextDueDate != nil {
			nextDue = bill.NextDueDate.Format(dateLayout)
		}
		record := []string{
			bill.ID.String(),
			bill.Name,
			formatInt64(bill.AmountCents),
			string(bill.Cadence),
			dueDay,
			nextDue,
			formatBool(bill.Active),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatInt64(value int64) string {
	return strconv.FormatInt(value, 10)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
