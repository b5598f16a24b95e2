// token firma un token de acceso con el JWT_SECRET configurado. Sirve para crear el
// primer admin; el resto se emite vía POST /api/auth/tokens.
//
// Uso: go run ./cmd/token -user <id> -role admin [-warehouses id1,id2]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/Inventario-costeo/internal/application/auth"
	"github.com/jhoicas/Inventario-costeo/pkg/config"
)

func main() {
	userID := flag.String("user", "", "id del usuario")
	role := flag.String("role", auth.RoleAdmin, "rol: admin, supervisor, bodeguero, cocina")
	warehouses := flag.String("warehouses", "", "almacenes asignados, separados por coma")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET es requerido")
		os.Exit(1)
	}

	p := auth.Principal{UserID: *userID, Role: *role}
	if *warehouses != "" {
		for _, w := range strings.Split(*warehouses, ",") {
			if w = strings.TrimSpace(w); w != "" {
				p.Warehouses = append(p.Warehouses, w)
			}
		}
	}
	tok, err := auth.NewTokenService(auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}).Issue(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "emitir token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
