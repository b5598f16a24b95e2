package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-costeo/internal/application/dto"
)

func TestDefaultPage_NormalizaLimiteYDesplazamiento(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"vacía", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"negativa", dto.PageRequest{Limit: -5, Offset: -3}, dto.DefaultPageLimit, 0},
		{"en rango", dto.PageRequest{Limit: 50, Offset: 10}, 50, 10},
		{"en el máximo", dto.PageRequest{Limit: dto.MaxPageLimit}, dto.MaxPageLimit, 0},
		{"sobre el máximo", dto.PageRequest{Limit: 5000, Offset: 7}, dto.MaxPageLimit, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := c.in
			p.DefaultPage()
			assert.Equal(t, c.wantLimit, p.Limit)
			assert.Equal(t, c.wantOffset, p.Offset)
		})
	}
}
