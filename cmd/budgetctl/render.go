package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"cafebudget/internal/budget"
	apperrors "cafebudget/internal/errors"
	"cafebudget/internal/services"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Width(48).
			Align(lipgloss.Center)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(22)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(colorOrange)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

func row(label, value string) string {
	return "  " + labelStyle.Render(label) + valueStyle.Render(value)
}

func renderSummary(s *services.BudgetSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Budget summary " + s.Month))
	b.WriteString("\n")

	if s.Overall == nil {
		b.WriteString(row("Overall budget", warnStyle.Render("not set")) + "\n")
	} else {
		b.WriteString(row("Overall budget", budget.FormatAmount(*s.Overall)) + "\n")
	}
	b.WriteString(row("COGS", budget.FormatAmount(s.Categories.COGS)) + "\n")
	b.WriteString(row("Operating expense", budget.FormatAmount(s.Categories.OperatingExpense)) + "\n")
	b.WriteString(row("Payroll", budget.FormatAmount(s.Categories.Payroll)) + "\n")
	b.WriteString(row("Main categories total", budget.FormatAmount(s.MainSum)) + "\n")
	b.WriteString(row("Payroll floor", budget.FormatAmount(s.PayrollBase)) + "\n")
	if s.Remaining != nil {
		b.WriteString(row("Remaining", budget.FormatAmount(*s.Remaining)) + "\n")
	}

	status := okStyle.Render("within budget")
	if s.Overrun {
		status = errStyle.Render("OVERRUN")
	}
	b.WriteString(row("Status", status+" ("+s.CeilingPolicy+" ceiling)"))
	return b.String()
}

func renderFinalize(r *services.FinalizeResult) string {
	var b strings.Builder
	title := "Finalized " + r.Month
	if r.DryRun {
		title = "Finalize plan " + r.Month + " (dry run)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(row("Scale factor", r.Factor.StringFixed(4)) + "\n\n")

	b.WriteString("  " + headStyle.Render(fmt.Sprintf("%-34s %14s %14s  %s", "Budget", "Before", "After", "Change")) + "\n")
	for _, u := range r.Updates {
		name := u.Category
		if u.Subcategory != "" {
			name = "  " + u.Category + " / " + u.Subcategory
		}
		b.WriteString(fmt.Sprintf("  %-34s %14s %14s  %s\n",
			name, budget.FormatAmount(u.Old), budget.FormatAmount(u.New), u.Operation))
	}
	if r.Payroll.Operation != "" {
		b.WriteString(fmt.Sprintf("  %-34s %14s %14s  %s\n",
			budget.CategoryPayroll, budget.FormatAmount(r.Payroll.Before), budget.FormatAmount(r.Payroll.After), r.Payroll.Operation))
	}
	b.WriteString(row("Rows written", humanize.Comma(int64(writeCount(r)))))

	if r.Warning != "" {
		b.WriteString("\n\n  " + warnStyle.Render("! "+r.Warning))
	}
	return b.String()
}

// writeCount counts the rows finalize inserted or updated.
func writeCount(r *services.FinalizeResult) int {
	n := 0
	for _, u := range r.Updates {
		if u.Operation != "unchanged" {
			n++
		}
	}
	if r.Payroll.Operation != "" && r.Payroll.Operation != "unchanged" {
		n++
	}
	return n
}

func renderBaseline(e *services.EmployeeBaseline) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Payroll baseline"))
	b.WriteString("\n")
	b.WriteString(row("Active employees", humanize.Comma(int64(e.ActiveEmployees))) + "\n")
	b.WriteString(row("Summed base pay", budget.FormatAmount(e.BasePay)))
	return b.String()
}

// renderError prints application errors with their code and details.
func renderError(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return errStyle.Render("error: ") + err.Error()
	}

	var b strings.Builder
	b.WriteString(errStyle.Render(appErr.Code+": ") + appErr.Message)
	keys := make([]string, 0, len(appErr.Details))
	for k := range appErr.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n" + row(k, detailValue(appErr.Details[k])))
	}
	return b.String()
}

func detailValue(v any) string {
	if d, ok := v.(decimal.Decimal); ok {
		return budget.FormatAmount(d)
	}
	return fmt.Sprint(v)
}
