// Package export renders the reports page as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/pkg/utils"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet  = "Summary"
	BookingsSheet = "Bookings"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ContentType is the MIME type of the workbook WriteReport produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename returns the download name for a report covering s.
func Filename(s models.ReportSummary) string {
	return fmt.Sprintf("report_%s_%s.xlsx", s.StartDate.Format(dateLayout), s.EndDate.Format(dateLayout))
}

// WriteReport writes the summary and its bookings as a two-sheet workbook.
func WriteReport(w io.Writer, s models.ReportSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummary(f, s); err != nil {
		return err
	}
	if _, err := f.NewSheet(BookingsSheet); err != nil {
		return fmt.Errorf("creating bookings sheet: %w", err)
	}
	if err := writeBookings(f, s.RecentBookings); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s models.ReportSummary) error {
	rows := [][]interface{}{
		{"Metric", "Current period", "Previous period", "Growth %"},
		{"Period", s.StartDate.Format(dateLayout) + " - " + s.EndDate.Format(dateLayout),
			s.PreviousStart.Format(dateLayout) + " - " + s.PreviousEnd.Format(dateLayout), ""},
		{"Revenue", s.MonthlyRevenue, s.PreviousBooking.TotalRevenue, s.RevenueGrowth},
		{"Bookings", s.TotalBookings, s.PreviousBooking.TotalBookings, s.BookingGrowth},
		{"Confirmed bookings", s.ConfirmedBookings, s.PreviousBooking.ConfirmedBookings, ""},
		{"Average booking value", s.AverageBookingValue, s.PreviousBooking.AverageBookingValue, ""},
		{"Total clients", s.TotalClients, "", s.ClientGrowth},
		{"New clients (30 days)", s.NewClientsThisMonth, "", ""},
		{"Unpaid invoices", s.Unpaid, "", ""},
		{"Overdue invoices", s.Overdue, "", ""},
		{"Paid invoices", s.Paid, "", ""},
		{"Outstanding", utils.FormatCurrency(s.OutstandingAmount), "", ""},
	}
	return writeRows(f, SummarySheet, rows)
}

func writeBookings(f *excelize.File, bookings []models.Booking) error {
	rows := [][]interface{}{{"Client", "Service", "Start", "End", "Status", "Participants", "Amount"}}
	for _, b := range bookings {
		rows = append(rows, []interface{}{
			b.ClientName(),
			b.ServiceName,
			b.StartTime.Format(dateTimeLayout),
			b.EndTime.Format(dateTimeLayout),
			string(b.Status),
			b.Participants,
			utils.FloatValue(b.TotalAmount),
		})
	}
	return writeRows(f, BookingsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
