package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/warp/caixa/reconcile"
)

const emptyHint = "Nenhum valor adicionado."

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calculadora de Caixa"))
	b.WriteString("\n\n")

	columns := make([]string, len(reconcile.Categories))
	for i, c := range reconcile.Categories {
		columns[i] = m.renderColumn(i, c)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	if m.calc != nil {
		b.WriteString(m.renderCalculator())
	} else {
		b.WriteString(m.renderTotals())
	}
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(labelStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderColumn(i int, c reconcile.Category) string {
	values := m.snap.State.List(c)

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Label()))
	b.WriteString("\n")
	if i == m.focus {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if len(values) == 0 {
		b.WriteString(emptyStyle.Render(emptyHint))
		b.WriteString("\n")
	}
	for j, v := range values {
		line := reconcile.FormatAmount(v, m.currency)
		if i == m.focus && j == m.selected[i] {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(entryStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", 18))
	b.WriteString("\n")
	b.WriteString(totalStyle.Render(reconcile.FormatAmount(m.snap.Totals.Total(c), m.currency)))

	style := columnStyle
	if i == m.focus {
		style = focusedColumnStyle
	}
	return style.Render(b.String())
}

func (m Model) renderTotals() string {
	t := m.snap.Totals
	f := func(v float64) string { return reconcile.FormatAmount(v, m.currency) }

	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Vale moeda (notas + moedas)", f(t.CashSubtotal), totalStyle},
		{"Total (vale + sangria)", f(t.GrandTotal), totalStyle},
		{"Resultado final (total - cofre)", f(t.FinalResult), positiveStyle},
		{"Ajuste sugerido", f(t.SuggestedAdjustment), adjustStyle},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Width(34).Render(r.label))
		b.WriteString(r.style.Render(r.value))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderCalculator() string {
	s := m.calc

	var b strings.Builder
	b.WriteString(titleStyle.Render("Calculadora"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Width(26).Align(lipgloss.Right).Render(s.Expression()))
	b.WriteString("\n")
	if s.Failed() {
		b.WriteString(errorStyle.Render("Error"))
	} else {
		b.WriteString(displayStyle.Render(s.Display()))
	}
	return overlayStyle.Render(b.String())
}

func (m Model) help() string {
	if m.calc != nil {
		return "0-9 . + - * / · enter = · backspace · c limpar · ctrl+u usar valor · esc fechar"
	}
	return "tab coluna · enter adicionar · ↑/↓ selecionar · ctrl+x remover · ctrl+k calculadora · ctrl+r zerar · ctrl+c sair"
}
