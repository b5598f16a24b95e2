package count_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-costeo/internal/domain"
	"github.com/jhoicas/Inventario-costeo/internal/domain/count"
)

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestTransition_Permitidas(t *testing.T) {
	cases := []struct{ from, to count.State }{
		{count.Draft, count.Closed},
		{count.Draft, count.PendingApproval},
		{count.PendingApproval, count.Closed},
		{count.PendingApproval, count.Draft},
		{count.Closed, count.Adjusted},
	}
	for _, c := range cases {
		assert.NoError(t, count.Transition(c.from, c.to), "%s → %s", c.from, c.to)
	}
}

func TestTransition_Rechazadas(t *testing.T) {
	cases := []struct{ from, to count.State }{
		{count.Draft, count.Adjusted},
		{count.Closed, count.Draft},
		{count.Closed, count.PendingApproval},
		{count.PendingApproval, count.Adjusted},
		{count.Adjusted, count.Draft},
		{count.Adjusted, count.Closed},
	}
	for _, c := range cases {
		err := count.Transition(c.from, c.to)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "%s → %s", c.from, c.to)
	}
}

func TestParse_EstadoDesconocido(t *testing.T) {
	st, err := count.Parse("pending_approval")
	require.NoError(t, err)
	assert.Equal(t, count.PendingApproval, st)

	_, err = count.Parse("archivado")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLinesEditable_SoloBorrador(t *testing.T) {
	assert.True(t, count.LinesEditable(count.Draft))
	assert.False(t, count.LinesEditable(count.PendingApproval))
	assert.False(t, count.LinesEditable(count.Closed))
	assert.False(t, count.IsTerminal(count.Closed))
	assert.True(t, count.IsTerminal(count.Adjusted))
}

func TestTolerance_Unidades(t *testing.T) {
	tol := count.Tolerance{Units: dp("1")}

	diff, within := tol.Evaluate(decimal.NewFromInt(20), decimal.NewFromInt(18))
	assert.True(t, decimal.NewFromInt(-2).Equal(diff))
	assert.False(t, within)

	diff, within = tol.Evaluate(decimal.NewFromInt(20), decimal.NewFromInt(21))
	assert.True(t, decimal.NewFromInt(1).Equal(diff))
	assert.True(t, within, "el borde es inclusivo")
}

func TestTolerance_Porcentaje(t *testing.T) {
	tol := count.Tolerance{Percent: dp("5")}

	_, within := tol.Evaluate(decimal.NewFromInt(100), decimal.NewFromInt(95))
	assert.True(t, within)

	_, within = tol.Evaluate(decimal.NewFromInt(100), decimal.NewFromInt(94))
	assert.False(t, within)
}

func TestTolerance_PorcentajeConSistemaCero_NoAplica(t *testing.T) {
	tol := count.Tolerance{Percent: dp("50")}
	_, within := tol.Evaluate(decimal.Zero, decimal.NewFromInt(1))
	assert.False(t, within)
}

func TestTolerance_CualquieraDeLasDosBasta(t *testing.T) {
	tol := count.Tolerance{Percent: dp("1"), Units: dp("3")}
	_, within := tol.Evaluate(decimal.NewFromInt(10), decimal.NewFromInt(7))
	assert.True(t, within, "falla por porcentaje pero cumple por unidades")
}

func TestTolerance_SinConfigurar(t *testing.T) {
	var tol count.Tolerance

	diff, within := tol.Evaluate(decimal.NewFromInt(10), decimal.NewFromInt(10))
	assert.True(t, diff.IsZero())
	assert.False(t, within, "sin tolerancia configurada ninguna línea queda dentro")

	_, within = tol.Evaluate(decimal.Zero, decimal.Zero)
	assert.False(t, within)

	_, within = tol.Evaluate(decimal.NewFromInt(10), decimal.RequireFromString("10.0001"))
	assert.False(t, within)
}

func TestTolerance_DiferenciaCeroConTolerancia(t *testing.T) {
	_, within := count.Tolerance{Units: dp("0")}.Evaluate(decimal.Zero, decimal.Zero)
	assert.True(t, within)

	_, within = count.Tolerance{Percent: dp("1")}.Evaluate(decimal.Zero, decimal.Zero)
	assert.False(t, within, "la tolerancia porcentual no aplica con sistema cero")
}
